package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client), mr
}

func TestRedisStoreRevoke(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestRedisStore(t)

	revoked, err := s.IsRevoked(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, s.Revoke(ctx, "sess-1", time.Minute))

	revoked, err = s.IsRevoked(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRedisStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedisStore(t)

	require.NoError(t, s.Revoke(ctx, "sess-1", time.Minute))

	mr.FastForward(2 * time.Minute)

	revoked, err := s.IsRevoked(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedisStore(t)

	mr.Close()

	err := s.Revoke(ctx, "sess-1", time.Minute)
	assert.Error(t, err)

	_, err = s.IsRevoked(ctx, "sess-1")
	assert.Error(t, err)
}
