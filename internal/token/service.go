// Package token tracks issued session tokens per user in the external
// key-value store, under "user:{id}:{kind}" set keys. The tracked set is a
// liveness allow-list: an empty set means every well-signed token of that
// kind is accepted, a non-empty set means only its members are.
package token

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/GoMarket-Shop/GoMarket/internal/kv"
)

// Kind is the category of session credential.
type Kind string

const (
	// KindAccess is the short-lived bearer credential.
	KindAccess Kind = "access"
	// KindRefresh is the long-lived renewal credential.
	KindRefresh Kind = "refresh"
)

// Service tracks issued tokens against an injected key-value store.
type Service struct {
	store kv.Store
}

// NewService creates a token tracking service backed by the given store.
func NewService(store kv.Store) *Service {
	return &Service{store: store}
}

func key(userID uuid.UUID, kind Kind) string {
	return fmt.Sprintf("user:%s:%s", userID, kind)
}

// Track records a freshly issued token for (user, kind).
//
// If the tracked set is non-empty it is replaced wholesale: the old members
// are deleted and the new token becomes the sole valid one, with the key's
// expiry reset to the token lifetime. If the set is currently empty the call
// writes nothing: tracking only engages once a user has had a token tracked
// before. That asymmetry is carried over from the reference behaviour
// (a likely latent bug, preserved deliberately; see DESIGN.md).
func (s *Service) Track(ctx context.Context, userID uuid.UUID, tokenValue string, kind Kind, lifetime time.Duration) error {
	k := key(userID, kind)

	members, err := s.store.SMembers(ctx, k)
	if err != nil {
		return fmt.Errorf("failed to read tracked tokens: %w", err)
	}

	if len(members) == 0 {
		return nil
	}

	if err = s.store.Delete(ctx, k); err != nil {
		return fmt.Errorf("failed to drop superseded tokens: %w", err)
	}

	if err = s.store.SAdd(ctx, k, tokenValue); err != nil {
		return fmt.Errorf("failed to track token: %w", err)
	}

	if err = s.store.Expire(ctx, k, lifetime); err != nil {
		return fmt.Errorf("failed to expire token set: %w", err)
	}

	return nil
}

// Valid returns the currently tracked token set for (user, kind). An empty
// result means no tracking is active and every presented token of that kind
// should be treated as live.
func (s *Service) Valid(ctx context.Context, userID uuid.UUID, kind Kind) ([]string, error) {
	members, err := s.store.SMembers(ctx, key(userID, kind))
	if err != nil {
		return nil, fmt.Errorf("failed to read tracked tokens: %w", err)
	}

	return members, nil
}

// IsLive reports whether the presented token passes the liveness rule:
// accepted when the tracked set is empty, or when it contains the token.
func (s *Service) IsLive(ctx context.Context, userID uuid.UUID, kind Kind, tokenValue string) (bool, error) {
	members, err := s.Valid(ctx, userID, kind)
	if err != nil {
		return false, err
	}

	if len(members) == 0 {
		return true, nil
	}

	for _, m := range members {
		if m == tokenValue {
			return true, nil
		}
	}

	return false, nil
}

// Delete removes all tracked tokens for (user, kind). Used for logout: the
// next Valid call returns an empty set, which re-enables the accept-all rule
// until a new token is tracked.
func (s *Service) Delete(ctx context.Context, userID uuid.UUID, kind Kind) error {
	if err := s.store.Delete(ctx, key(userID, kind)); err != nil {
		return fmt.Errorf("failed to delete tracked tokens: %w", err)
	}

	return nil
}
