package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sweatbook/sweatbook/core"
	"github.com/sweatbook/sweatbook/ports"
)

const (
	// DefaultSessionTTL is the fixed expiry horizon for session credentials.
	DefaultSessionTTL = 5 * 24 * time.Hour

	// minRevocationTTL keeps a revocation record alive for already-expired
	// credentials, guarding against slightly skewed clocks.
	minRevocationTTL = time.Hour
)

// AuthService implements the session exchange, validation and logout flows.
// It holds no per-request mutable state; every call is independent.
type AuthService struct {
	provider ports.IdentityProvider
	codec    ports.SessionCodec
	store    ports.RevocationStore
	eventPub ports.EventPublisher
	logger   *slog.Logger

	sessionTTL time.Duration
}

// NewAuthService creates a new authentication service. A zero ttl selects
// DefaultSessionTTL. eventPub may be nil when no event transport is wired.
func NewAuthService(
	provider ports.IdentityProvider,
	codec ports.SessionCodec,
	store ports.RevocationStore,
	eventPub ports.EventPublisher,
	logger *slog.Logger,
	ttl time.Duration,
) *AuthService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		provider:   provider,
		codec:      codec,
		store:      store,
		eventPub:   eventPub,
		logger:     logger,
		sessionTTL: ttl,
	}
}

// SessionTTL returns the expiry horizon applied to minted credentials.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// Exchange verifies an identity token and mints a session credential bound
// to the verified identity. No credential is ever minted without a prior
// successful identity-token verification.
func (s *AuthService) Exchange(ctx context.Context, idToken string) (string, *core.Session, error) {
	if idToken == "" {
		return "", nil, core.ErrMissingCredential
	}

	identity, err := s.provider.VerifyIdentityToken(ctx, idToken)
	if err != nil {
		return "", nil, fmt.Errorf("identity token verification failed: %w", err)
	}

	now := time.Now()
	session := &core.Session{
		ID:        uuid.New().String(),
		UID:       identity.UID,
		Email:     identity.Email,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	token, err := s.codec.SessionToToken(session)
	if err != nil {
		return "", nil, fmt.Errorf("%w: failed to mint session credential: %w", core.ErrServiceUnavailable, err)
	}

	return token, session, nil
}

// Validate verifies a session credential and returns the session it
// represents. Validation is idempotent: the same unexpired, unrevoked
// credential always yields the same session.
func (s *AuthService) Validate(ctx context.Context, token string) (*core.Session, error) {
	if token == "" {
		return nil, core.ErrMissingCredential
	}

	session, err := s.codec.TokenToSession(token)
	if err != nil {
		return nil, err
	}

	if time.Now().After(session.ExpiresAt) {
		return nil, core.ErrCredentialExpired
	}

	revoked, err := s.store.IsRevoked(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: revocation check failed: %w", core.ErrServiceUnavailable, err)
	}
	if revoked {
		return nil, core.ErrSessionRevoked
	}

	return session, nil
}

// Logout revokes the session credential, if one was supplied and still
// decodes. A missing or undecodable credential is not an error: the caller
// clears the cookie regardless, and there is nothing left to revoke.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	session, err := s.codec.TokenToSession(token)
	if err != nil {
		s.logger.WarnContext(ctx, "logout with undecodable credential", "error", err)
		return nil
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl < minRevocationTTL {
		ttl = minRevocationTTL
	}

	if err := s.store.Revoke(ctx, session.ID, ttl); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	// Best effort: the credential is already revoked in the store, which is
	// the part that matters.
	if s.eventPub != nil {
		if err := s.eventPub.PublishLogout(ctx, session.UID, session.ID); err != nil {
			s.logger.WarnContext(ctx, "failed to publish logout event",
				"uid", session.UID, "error", err)
		}
	}

	return nil
}

// IsUnauthenticated reports whether an error from Validate means "no valid
// session" as opposed to an internal fault. The validation boundary
// downgrades these to a plain unauthenticated result.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, core.ErrMissingCredential) ||
		errors.Is(err, core.ErrInvalidCredential) ||
		errors.Is(err, core.ErrCredentialExpired) ||
		errors.Is(err, core.ErrSessionRevoked)
}
