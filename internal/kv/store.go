// Package kv abstracts the external key-value store used for ephemeral
// state: one-time passcodes and the per-user sets of tracked session tokens.
// TTL based expiry is delegated to the store.
package kv

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by Get and TTL when the key is absent or expired.
var ErrKeyNotFound = errors.New("kv: key not found")

// Store is the narrow command surface the services depend on. Implementations
// must make every single command atomic; multi-command sequences are not
// transactional (see the otp and token packages for the accepted races).
type Store interface {
	// Get returns the string value at key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set writes a string value with a TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Exists reports whether the key currently holds a value.
	Exists(ctx context.Context, key string) (bool, error)
	// TTL returns the remaining time-to-live of a key, or ErrKeyNotFound.
	TTL(ctx context.Context, key string) (time.Duration, error)
	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// SAdd adds a member to the set at key, creating the set if needed.
	SAdd(ctx context.Context, key string, members ...string) error
	// SMembers returns all members of the set at key. A missing key yields
	// an empty slice, not an error.
	SMembers(ctx context.Context, key string) ([]string, error)
	// Expire sets the TTL of an existing key.
	Expire(ctx context.Context, key string, ttl time.Duration) error
}
