package core

import "time"

// Identity is the verified result of an identity-token check. It is issued by
// the identity provider at login time and consumed once per session exchange.
type Identity struct {
	UID           string // Stable user identifier assigned by the provider
	Email         string // Email address asserted by the provider
	EmailVerified bool   // Whether the provider has confirmed the address
	Federated     bool   // True when the identity came from a federated provider
}

// Session represents an established browser session. It is carried by the
// session cookie and recomputed from it on every validation.
type Session struct {
	ID        string    // Unique credential identifier, used for revocation
	UID       string    // User identifier copied from the verified identity
	Email     string    // Email copied from the verified identity
	IssuedAt  time.Time // When the credential was minted
	ExpiresAt time.Time // Fixed expiry horizon set at mint time
}
