package kv

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	members   map[string]struct{}
	expiresAt time.Time // zero means no expiry
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore is a thread-safe in-memory Store with TTL semantics, used as a
// drop-in for redis in tests and dev mode. Expired entries are reaped lazily
// on access.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]*memoryEntry

	// now is swappable so tests can advance the clock.
	now func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]*memoryEntry),
		now:  time.Now,
	}
}

// SetClock replaces the store's time source. Test use only.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// live returns the entry at key if present and unexpired. Callers must hold
// at least a read lock; expired entries are left for the write paths to reap.
func (s *MemoryStore) live(key string) *memoryEntry {
	e, ok := s.data[key]
	if !ok || e.expired(s.now()) {
		return nil
	}

	return e
}

// Get returns the string value at key.
func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e := s.live(key)
	if e == nil {
		return "", ErrKeyNotFound
	}

	return e.value, nil
}

// Set writes a string value with a TTL.
func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &memoryEntry{value: value}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}

	s.data[key] = e

	return nil
}

// Exists reports whether the key currently holds a value.
func (s *MemoryStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.live(key) != nil, nil
}

// TTL returns the remaining time-to-live of a key.
func (s *MemoryStore) TTL(_ context.Context, key string) (time.Duration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e := s.live(key)
	if e == nil {
		return 0, ErrKeyNotFound
	}

	if e.expiresAt.IsZero() {
		return 0, nil
	}

	return e.expiresAt.Sub(s.now()), nil
}

// Delete removes the given keys.
func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.data, key)
	}

	return nil
}

// SAdd adds members to the set at key.
func (s *MemoryStore) SAdd(_ context.Context, key string, members ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.live(key)
	if e == nil || e.members == nil {
		e = &memoryEntry{members: make(map[string]struct{})}
		s.data[key] = e
	}

	for _, m := range members {
		e.members[m] = struct{}{}
	}

	return nil
}

// SMembers returns all members of the set at key.
func (s *MemoryStore) SMembers(_ context.Context, key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e := s.live(key)
	if e == nil || e.members == nil {
		return []string{}, nil
	}

	out := make([]string, 0, len(e.members))
	for m := range e.members {
		out = append(out, m)
	}

	return out, nil
}

// Expire sets the TTL of an existing key.
func (s *MemoryStore) Expire(_ context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.live(key)
	if e == nil {
		return nil
	}

	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	} else {
		e.expiresAt = time.Time{}
	}

	return nil
}
