package kv_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoMarket-Shop/GoMarket/internal/kv"
)

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, kv.ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, "k", "v", 0))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	exists, err := store.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Delete(ctx, "k"))

	exists, err = store.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })

	require.NoError(t, store.Set(ctx, "k", "v", 2*time.Minute))

	ttl, err := store.TTL(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, ttl)

	// half the lifetime later
	now = now.Add(time.Minute)

	ttl, err = store.TTL(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, ttl)

	// past the expiry
	now = now.Add(2 * time.Minute)

	_, err = store.TTL(ctx, "k")
	assert.ErrorIs(t, err, kv.ErrKeyNotFound)

	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, kv.ErrKeyNotFound)
}

func TestMemoryStoreNoExpiry(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()

	require.NoError(t, store.Set(ctx, "k", "v", 0))

	ttl, err := store.TTL(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), ttl)
}

func TestMemoryStoreSets(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()

	members, err := store.SMembers(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, members)

	require.NoError(t, store.SAdd(ctx, "s", "a", "b"))
	require.NoError(t, store.SAdd(ctx, "s", "b", "c"))

	members, err = store.SMembers(ctx, "s")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, members)
}

func TestMemoryStoreExpire(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })

	require.NoError(t, store.SAdd(ctx, "s", "a"))
	require.NoError(t, store.Expire(ctx, "s", time.Minute))

	now = now.Add(2 * time.Minute)

	members, err := store.SMembers(ctx, "s")
	require.NoError(t, err)
	assert.Empty(t, members)

	// expiring a missing key is a no-op
	require.NoError(t, store.Expire(ctx, "missing", time.Minute))
}
