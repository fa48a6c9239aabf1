package provider

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/sweatbook/sweatbook/core"
	"github.com/sweatbook/sweatbook/ports"
)

// OIDCProvider verifies identity tokens against an external OIDC issuer and
// drives the federated authorization-code flow. It is the only component
// that talks to the identity provider over the network.
type OIDCProvider struct {
	verifier *oidc.IDTokenVerifier
	oauth    *oauth2.Config
}

// Config holds the issuer coordinates for an OIDCProvider.
type Config struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// New discovers the issuer and builds the token verifier. Discovery failure
// is a configuration or availability problem and is reported as
// core.ErrServiceUnavailable; callers at startup should treat it as fatal.
func New(ctx context.Context, cfg Config) (*OIDCProvider, error) {
	p, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("%w: issuer discovery failed: %w", core.ErrServiceUnavailable, err)
	}

	return &OIDCProvider{
		verifier: p.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     p.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
	}, nil
}

var _ ports.IdentityProvider = (*OIDCProvider)(nil)

// idTokenClaims are the claims this service reads off a verified identity
// token. sign_in_provider distinguishes password logins from federated ones.
type idTokenClaims struct {
	Email          string `json:"email"`
	EmailVerified  bool   `json:"email_verified"`
	SignInProvider string `json:"sign_in_provider"`
}

// VerifyIdentityToken checks the token against the issuer's signing keys and
// returns the identity it asserts.
func (p *OIDCProvider) VerifyIdentityToken(ctx context.Context, rawToken string) (*core.Identity, error) {
	if rawToken == "" {
		return nil, core.ErrMissingCredential
	}

	idToken, err := p.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidCredential, err)
	}

	var claims idTokenClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: malformed claims: %w", core.ErrInvalidCredential, err)
	}

	return &core.Identity{
		UID:           idToken.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Federated:     claims.SignInProvider != "" && claims.SignInProvider != "password",
	}, nil
}

// AuthCodeURL returns the issuer URL to redirect a browser to for federated
// login. The state value must be echoed back on the callback.
func (p *OIDCProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// ExchangeCode swaps an authorization code for the issuer's identity token.
func (p *OIDCProvider) ExchangeCode(ctx context.Context, code string) (string, error) {
	tok, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: code exchange failed: %w", core.ErrServiceUnavailable, err)
	}

	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return "", fmt.Errorf("%w: issuer response carried no id_token", core.ErrInvalidCredential)
	}

	return rawIDToken, nil
}
