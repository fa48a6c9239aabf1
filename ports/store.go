package ports

import (
	"context"
	"time"
)

// RevocationStore tracks session credentials invalidated before their natural
// expiry.
type RevocationStore interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}
