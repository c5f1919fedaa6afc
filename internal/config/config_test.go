package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24, cfg.JWTExpirationHours)
	assert.Equal(t, "https://ddragon.leagueoflegends.com", cfg.DataDragonBaseURL)
	assert.Equal(t, "en_US", cfg.DataDragonLocale)
	assert.Equal(t, 6*time.Hour, cfg.CatalogCacheTTL)
	assert.Empty(t, cfg.RedisURL)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "9000")
	t.Setenv("DDRAGON_VERSION", "14.1.1")
	t.Setenv("CATALOG_CACHE_TTL", "15m")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "14.1.1", cfg.DataDragonVersion)
	assert.Equal(t, 15*time.Minute, cfg.CatalogCacheTTL)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_EXPIRATION_HOURS", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "parse env:")
}
