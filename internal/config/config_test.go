package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("AUTH_MODE", "")

	cfg := Load()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	// No database by default: the service starts in persistence-free mode
	// rather than failing against a postgres that, absent, does not exist.
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, "none", cfg.AuthMode)
	assert.False(t, cfg.IsJWTMode())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db:5432/starsong")
	t.Setenv("AUTH_MODE", "jwt")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg := Load()

	assert.Equal(t, "postgres://db:5432/starsong", cfg.DatabaseURL)
	assert.True(t, cfg.IsJWTMode())
}

func TestJWTModeRequiresSecret(t *testing.T) {
	t.Setenv("AUTH_MODE", "jwt")
	t.Setenv("JWT_SECRET", "")

	cfg := Load()
	assert.False(t, cfg.IsJWTMode())
}
