package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/finflow")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "*", cfg.CORSOrigin)
	assert.Equal(t, 20, cfg.AuthRateMax)
	assert.False(t, cfg.Production())
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8080")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("ENV", "production")
	t.Setenv("AUTH_RATE_LIMIT", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, 5, cfg.AuthRateMax)
	assert.True(t, cfg.Production())
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "test-secret")
	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")

	t.Setenv("DATABASE_URL", "postgres://localhost:5432/finflow")
	t.Setenv("JWT_SECRET", "")
	_, err = Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadBadPort(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "99999")

	_, err := Load()
	assert.ErrorContains(t, err, "invalid port")
}

func TestBadOptionalValuesFallBack(t *testing.T) {
	setRequired(t)
	t.Setenv("TOKEN_TTL", "yesterday")
	t.Setenv("AUTH_RATE_LIMIT", "-3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 20, cfg.AuthRateMax)
}
