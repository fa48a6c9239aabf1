package ports

import (
	"context"

	"github.com/sweatbook/sweatbook/core"
)

// IdentityProvider verifies identity tokens against the trusted issuer.
type IdentityProvider interface {
	// VerifyIdentityToken checks the token's signature, issuer, audience and
	// expiry, and returns the identity it asserts.
	VerifyIdentityToken(ctx context.Context, rawToken string) (*core.Identity, error)
}
