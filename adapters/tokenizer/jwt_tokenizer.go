package tokenizer

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sweatbook/sweatbook/core"
	"github.com/sweatbook/sweatbook/ports"
)

// AudienceSession is the audience claim stamped into every session credential.
const AudienceSession = "session:browser"

// JWTCodec implements the SessionCodec interface using ES256 JWTs signed with
// the service private key. A credential only verifies against the same key
// that minted it, which is what ties every session to this issuing authority.
type JWTCodec struct {
	signKey *ecdsa.PrivateKey
	issuer  string
}

// NewJWTCodec creates a session codec bound to the service key and the
// issuer project identifier.
func NewJWTCodec(signKey *ecdsa.PrivateKey, issuer string) ports.SessionCodec {
	return &JWTCodec{signKey: signKey, issuer: issuer}
}

// SessionToToken converts a Session to a signed credential string.
func (c *JWTCodec) SessionToToken(session *core.Session) (string, error) {
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.UID,
			ID:        session.ID,
			Issuer:    c.issuer,
			Audience:  jwt.ClaimStrings{AudienceSession},
			IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
		Email: session.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)

	signedToken, err := token.SignedString(c.signKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign session credential: %w", err)
	}

	return signedToken, nil
}

// TokenToSession verifies a credential string and converts it back to a
// Session. Expired credentials are reported as core.ErrCredentialExpired,
// anything else that fails verification as core.ErrInvalidCredential.
func (c *JWTCodec) TokenToSession(tokenStr string) (*core.Session, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return &c.signKey.PublicKey, nil
	}, jwt.WithAudience(AudienceSession), jwt.WithIssuer(c.issuer), jwt.WithExpirationRequired())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", core.ErrCredentialExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidCredential, err)
	}

	if !token.Valid {
		return nil, core.ErrInvalidCredential
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil, core.ErrInvalidCredential
	}

	session := &core.Session{
		ID:        claims.ID,
		UID:       claims.Subject,
		Email:     claims.Email,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}

	return session, nil
}
