package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sweatbook/sweatbook/ports"
)

// RedisStore is a Redis implementation of the RevocationStore interface.
// Sharing it across instances makes a logout on one instance visible to all.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis revocation store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "sweatbook:revoked:",
	}
}

var _ ports.RevocationStore = (*RedisStore)(nil)

// Revoke marks a session credential as revoked in Redis. The key expires
// with the credential, so the revocation set never outgrows live sessions.
func (s *RedisStore) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	key := s.prefix + sessionID

	if err := s.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	return nil
}

// IsRevoked checks whether a session credential has been revoked.
func (s *RedisStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	key := s.prefix + sessionID

	val, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session revocation: %w", err)
	}

	return val > 0, nil
}
