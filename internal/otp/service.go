// Package otp issues and verifies short-lived one-time passcodes.
//
// A passcode is a 6-digit numeric code paired with a URL-safe correlation
// secret. Only a salted hash of "secret:code" is persisted, under a
// TTL-scoped key in the external key-value store, so neither the store nor a
// holder of the secret alone can reconstruct a verifiable pair.
package otp

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"

	"time"

	"github.com/alexedwards/argon2id"

	"github.com/GoMarket-Shop/GoMarket/internal/kv"
)

const (
	// CodeDigits is the passcode length.
	CodeDigits = 6

	// secretBytes is the raw entropy of the correlation secret.
	secretBytes = 32
)

// Service issues and checks one-time passcodes against an injected
// key-value store.
type Service struct {
	store kv.Store
}

// NewService creates an OTP service backed by the given store.
func NewService(store kv.Store) *Service {
	return &Service{store: store}
}

// codeKey is the store key holding the salted hash of "secret:code".
func codeKey(subject string) string {
	return subject + ":otp"
}

// secretKey is the store key holding the correlation secret.
func secretKey(subject string) string {
	return subject + ":otp_secret"
}

// Generate issues a new passcode for the subject (a phone number or email).
//
// When rejectIfPending is true and an unexpired passcode already exists for
// the subject, Generate fails with a RateLimitError carrying the remaining
// TTL and writes nothing. When false, any pending record is deleted first:
// the previous code stops verifying the moment the new one is stored.
//
// It returns the plaintext code (for out-of-band delivery) and the secret
// (the client's correlation handle). The code itself is never persisted.
func (s *Service) Generate(ctx context.Context, subject string, ttl time.Duration, rejectIfPending bool) (code, secret string, err error) {
	pending, err := s.store.Exists(ctx, codeKey(subject))
	if err != nil {
		return "", "", fmt.Errorf("failed to check pending otp: %w", err)
	}

	if pending {
		if rejectIfPending {
			remaining, ttlErr := s.store.TTL(ctx, codeKey(subject))
			if ttlErr != nil && !errors.Is(ttlErr, kv.ErrKeyNotFound) {
				return "", "", fmt.Errorf("failed to read pending otp ttl: %w", ttlErr)
			}

			return "", "", &RateLimitError{RetryAfter: remaining}
		}

		if err = s.store.Delete(ctx, codeKey(subject), secretKey(subject)); err != nil {
			return "", "", fmt.Errorf("failed to drop pending otp: %w", err)
		}
	}

	code, err = randomCode()
	if err != nil {
		return "", "", err
	}

	secret, err = randomSecret()
	if err != nil {
		return "", "", err
	}

	hash, err := argon2id.CreateHash(secret+":"+code, argon2id.DefaultParams)
	if err != nil {
		return "", "", fmt.Errorf("failed to hash otp: %w", err)
	}

	if err = s.store.Set(ctx, secretKey(subject), secret, ttl); err != nil {
		return "", "", fmt.Errorf("failed to store otp secret: %w", err)
	}

	if err = s.store.Set(ctx, codeKey(subject), hash, ttl); err != nil {
		return "", "", fmt.Errorf("failed to store otp hash: %w", err)
	}

	return code, secret, nil
}

// Check verifies a submitted code/secret pair for the subject.
//
// The record is deliberately NOT consumed on success: deletion is the
// caller's job (via Clear) once the state transition the passcode authorizes
// has actually been applied. Until then, repeated correct submissions keep
// succeeding.
func (s *Service) Check(ctx context.Context, subject, submittedCode, submittedSecret string) error {
	stored, err := s.store.Get(ctx, codeKey(subject))
	if errors.Is(err, kv.ErrKeyNotFound) {
		return ErrInvalidOtp
	}

	if err != nil {
		return fmt.Errorf("failed to read otp hash: %w", err)
	}

	match, err := argon2id.ComparePasswordAndHash(submittedSecret+":"+submittedCode, stored)
	if err != nil || !match {
		return ErrInvalidOtp
	}

	return nil
}

// PendingSecret returns the secret of an unexpired passcode for the subject,
// or kv.ErrKeyNotFound. Registration re-uses a pending secret instead of
// issuing a second passcode.
func (s *Service) PendingSecret(ctx context.Context, subject string) (string, error) {
	return s.store.Get(ctx, secretKey(subject))
}

// Clear removes the passcode and its secret for the subject. Callers invoke
// it after the verified operation has been applied.
func (s *Service) Clear(ctx context.Context, subject string) error {
	return s.store.Delete(ctx, codeKey(subject), secretKey(subject))
}

// randomCode returns a uniformly random 6-digit numeric code.
func randomCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < CodeDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp code: %w", err)
	}

	return fmt.Sprintf("%0*d", CodeDigits, n), nil
}

// randomSecret returns a URL-safe opaque token.
func randomSecret() (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate otp secret: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
