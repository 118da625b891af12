package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("APP_API_PREFIX", "")
	t.Setenv("CACHE_TICKET_TTL_SECONDS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:3000", cfg.App.Addr())
	assert.Equal(t, "/api", cfg.App.APIPrefix)
	assert.True(t, cfg.Postgres.UsesMemoryStore())
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, time.Minute, cfg.Cache.TicketTTL())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_API_PREFIX", "v1/")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/queuedesk")
	t.Setenv("CACHE_TICKET_TTL_SECONDS", "0")
	t.Setenv("AUTH_BCRYPT_COST", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	assert.Equal(t, "/v1", cfg.App.APIPrefix)
	assert.False(t, cfg.Postgres.UsesMemoryStore())
	assert.Zero(t, cfg.Cache.TicketTTL())
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "abc")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}
