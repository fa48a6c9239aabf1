package store

import (
	"context"
	"sync"
	"time"

	"github.com/sweatbook/sweatbook/ports"
)

// MemoryStore is an in-memory implementation of the RevocationStore
// interface, suitable for single-instance deployments and tests.
type MemoryStore struct {
	revoked map[string]time.Time
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory revocation store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		revoked: make(map[string]time.Time),
	}
}

var _ ports.RevocationStore = (*MemoryStore)(nil)

// Revoke marks a session credential as revoked until its natural expiry.
func (s *MemoryStore) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.revoked[sessionID] = time.Now().Add(ttl)
	return nil
}

// IsRevoked reports whether a session credential has been revoked. Entries
// past their expiry are dropped lazily; once the credential itself has
// expired the revocation record no longer matters.
func (s *MemoryStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	s.mu.RLock()
	expiry, exists := s.revoked[sessionID]
	s.mu.RUnlock()

	if !exists {
		return false, nil
	}

	if time.Now().After(expiry) {
		s.mu.Lock()
		if current, ok := s.revoked[sessionID]; ok && !current.After(expiry) {
			delete(s.revoked, sessionID)
		}
		s.mu.Unlock()
		return false, nil
	}

	return true, nil
}
