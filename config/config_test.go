package config

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeyPEM(t *testing.T) string {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	der, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	return string(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der}))
}

func setRequiredEnv(t *testing.T, keyPEM string) {
	t.Helper()
	t.Setenv("AUTH_PROJECT_ID", "sweatbook-prod")
	t.Setenv("AUTH_CLIENT_EMAIL", "svc@sweatbook-prod.example.com")
	t.Setenv("AUTH_PRIVATE_KEY", keyPEM)
	t.Setenv("OIDC_ISSUER_URL", "https://issuer.example.com")
	t.Setenv("OIDC_CLIENT_ID", "sweatbook-web")
}

func TestLoad(t *testing.T) {
	setRequiredEnv(t, testKeyPEM(t))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sweatbook-prod", cfg.ProjectID)
	assert.NotNil(t, cfg.ServiceKey)
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, []string{"/protected/*"}, cfg.ProtectedPaths)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadEscapedKey(t *testing.T) {
	// Keys injected via env commonly arrive with literal \n escapes.
	escaped := strings.ReplaceAll(testKeyPEM(t), "\n", `\n`)
	setRequiredEnv(t, escaped)

	cfg, err := Load()
	require.NoError(t, err)
	assert.NotNil(t, cfg.ServiceKey)
}

func TestLoadMissingRequired(t *testing.T) {
	keyPEM := testKeyPEM(t)

	for _, missing := range []string{
		"AUTH_PROJECT_ID",
		"AUTH_CLIENT_EMAIL",
		"AUTH_PRIVATE_KEY",
		"OIDC_ISSUER_URL",
		"OIDC_CLIENT_ID",
	} {
		t.Run(missing, func(t *testing.T) {
			setRequiredEnv(t, keyPEM)
			t.Setenv(missing, "")

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), missing)
		})
	}
}

func TestLoadBadKey(t *testing.T) {
	setRequiredEnv(t, "not a pem key")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_PRIVATE_KEY")
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t, testKeyPEM(t))
	t.Setenv("APP_ENV", "development")
	t.Setenv("SESSION_TTL", "48h")
	t.Setenv("PROTECTED_PATHS", "/protected/*, /account/*")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 48*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"/protected/*", "/account/*"}, cfg.ProtectedPaths)
}

func TestLoadBadSessionTTL(t *testing.T) {
	setRequiredEnv(t, testKeyPEM(t))
	t.Setenv("SESSION_TTL", "five days")

	_, err := Load()
	assert.Error(t, err)
}

func TestParsePrivateKeyPKCS8(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	pemStr := string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))

	parsed, err := ParsePrivateKey(pemStr)
	require.NoError(t, err)
	assert.True(t, key.Equal(parsed))
}
