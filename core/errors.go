package core

import "errors"

var (
	// ErrMissingCredential is returned when no token or cookie was supplied.
	ErrMissingCredential = errors.New("missing credential")

	// ErrInvalidCredential is returned on signature, issuer or audience mismatch.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrCredentialExpired is returned when a credential is past its expiry.
	ErrCredentialExpired = errors.New("credential has expired")

	// ErrSessionRevoked is returned when a session was explicitly logged out.
	ErrSessionRevoked = errors.New("session has been revoked")

	// ErrVerificationRequired is returned when the email-verification gate has
	// not been satisfied yet.
	ErrVerificationRequired = errors.New("email not verified")

	// ErrServiceUnavailable is returned when the identity provider is
	// unreachable or misconfigured.
	ErrServiceUnavailable = errors.New("identity service unavailable")

	// ErrNetworkFailure is returned when a client call failed before any
	// response was received.
	ErrNetworkFailure = errors.New("network failure")
)
