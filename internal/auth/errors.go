package auth

import "errors"

var (
	// ErrAuthenticationFailed is returned for bad credentials or for an
	// inactive or unverified account. The caller must not disclose which.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrPermissionDenied is returned when an authenticated user lacks the
	// required permission. The specific permission is never included.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUserNotFound is returned when a user cannot be found in the database.
	ErrUserNotFound = errors.New("user not found")

	// ErrTokenSuperseded is returned when a well-signed token is no longer a
	// member of the user's tracked token set.
	ErrTokenSuperseded = errors.New("token has been superseded")

	// ErrInvalidToken is returned for tokens that fail signature or claim
	// validation.
	ErrInvalidToken = errors.New("invalid token")
)
