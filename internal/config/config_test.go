package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/panchayat")
	t.Setenv("APP_ENV", "development")
	t.Setenv("AUTH_JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL())
	assert.Equal(t, "token", cfg.Auth.CookieName)
	assert.True(t, cfg.Auth.EphemeralSecret)
	assert.Len(t, cfg.Auth.JWTSecret, 64)
}

func TestLoadProductionRequiresSecret(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/panchayat")
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_JWT_SECRET")
}

func TestLoadUsesConfiguredSecret(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/panchayat")
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", "s3cr3t")
	t.Setenv("AUTH_TOKEN_TTL_HOURS", "12")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", cfg.Auth.JWTSecret)
	assert.False(t, cfg.Auth.EphemeralSecret)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL())
}

func TestLoadRequiresDSN(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("AUTH_JWT_SECRET", "s3cr3t")

	_, err := Load()
	require.Error(t, err)
}

func TestRequestTimeout(t *testing.T) {
	assert.Equal(t, time.Duration(0), AppConfig{}.RequestTimeout())
	assert.Equal(t, 5*time.Second, AppConfig{RequestTimeoutSeconds: 5}.RequestTimeout())
}
