package tokenizer

import "github.com/golang-jwt/jwt/v5"

// SessionClaims combines the standard claims with the email carried by the
// session credential.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}
