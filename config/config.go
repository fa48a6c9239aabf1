// Package config loads the process configuration from the environment. The
// identity-provider secrets are required: their absence is a fatal startup
// error, never a per-request one.
package config

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	ListenAddr  string // HTTP listen address
	Environment string // "development" relaxes cookie and error-detail policy

	// Identity provider / issuing authority
	ProjectID    string            // Issuer project identifier, stamped into session credentials
	ServiceEmail string            // Service credential email
	ServiceKey   *ecdsa.PrivateKey // Service private key, signs session credentials

	// Federated / identity-token verification
	IssuerURL         string
	OAuthClientID     string
	OAuthClientSecret string
	OAuthRedirectURL  string

	RedisURL string

	ProtectedPaths []string
	LoginPath      string
	EventsFile     string
	SessionTTL     time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:       getEnv("LISTEN_ADDR", ":9000"),
		Environment:      getEnv("APP_ENV", "production"),
		ProjectID:        os.Getenv("AUTH_PROJECT_ID"),
		ServiceEmail:     os.Getenv("AUTH_CLIENT_EMAIL"),
		IssuerURL:        os.Getenv("OIDC_ISSUER_URL"),
		OAuthClientID:    os.Getenv("OIDC_CLIENT_ID"),
		OAuthClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
		OAuthRedirectURL: getEnv("OIDC_REDIRECT_URL", "http://localhost:9000/auth/federated/callback"),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379/0"),
		LoginPath:        getEnv("LOGIN_PATH", "/login"),
		EventsFile:       getEnv("EVENTS_FILE", "data/events.json"),
		ProtectedPaths:   splitList(getEnv("PROTECTED_PATHS", "/protected/*")),
	}

	if ttlStr := os.Getenv("SESSION_TTL"); ttlStr != "" {
		ttl, err := time.ParseDuration(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TTL format: %w", err)
		}
		cfg.SessionTTL = ttl
	}

	rawKey := os.Getenv("AUTH_PRIVATE_KEY")
	if rawKey != "" {
		key, err := ParsePrivateKey(rawKey)
		if err != nil {
			return nil, fmt.Errorf("invalid AUTH_PRIVATE_KEY: %w", err)
		}
		cfg.ServiceKey = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration is present.
func (c *Config) Validate() error {
	if c.ProjectID == "" {
		return fmt.Errorf("AUTH_PROJECT_ID cannot be empty")
	}
	if c.ServiceEmail == "" {
		return fmt.Errorf("AUTH_CLIENT_EMAIL cannot be empty")
	}
	if c.ServiceKey == nil {
		return fmt.Errorf("AUTH_PRIVATE_KEY cannot be empty")
	}
	if c.IssuerURL == "" {
		return fmt.Errorf("OIDC_ISSUER_URL cannot be empty")
	}
	if c.OAuthClientID == "" {
		return fmt.Errorf("OIDC_CLIENT_ID cannot be empty")
	}
	return nil
}

// IsDevelopment reports whether the deliberate local-development relaxations
// (plain-HTTP cookies, error detail in responses) are active.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// ParsePrivateKey decodes a PEM-encoded ECDSA private key. Keys injected
// through environment variables commonly carry literal \n escapes; those are
// unescaped first.
func ParsePrivateKey(raw string) (*ecdsa.PrivateKey, error) {
	raw = strings.ReplaceAll(raw, `\n`, "\n")

	block, _ := pem.Decode([]byte(raw))
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}

	if key, err := x509.ParseECPrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	key, ok := parsed.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is not an ECDSA key")
	}
	return key, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
