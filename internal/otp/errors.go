package otp

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidOtp is returned when the submitted code/secret pair does not
// match the stored record, or when no record exists (expired or never issued).
var ErrInvalidOtp = errors.New("invalid or expired one-time passcode")

// RateLimitError is returned when an OTP is requested for a subject that
// still has a pending passcode. RetryAfter carries the store's remaining TTL
// for the pending record.
type RateLimitError struct {
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("an OTP is already pending, retry in %d seconds", int(e.RetryAfter.Seconds()))
}

// IsRateLimited reports whether err wraps a RateLimitError and returns it.
func IsRateLimited(err error) (*RateLimitError, bool) {
	var rle *RateLimitError
	if errors.As(err, &rle) {
		return rle, true
	}

	return nil, false
}
