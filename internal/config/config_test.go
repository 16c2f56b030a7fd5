package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "3000", cfg.Port)
		assert.Equal(t, 3*time.Second, cfg.OutboxPollInterval)
		assert.True(t, cfg.SeedDefaultGrant)
		assert.Equal(t, 100, cfg.NotificationMaxItems)
		assert.False(t, cfg.IsProduction())
		assert.Equal(t, "host=localhost user=postgres password= dbname=go_leave port=5432 sslmode=disable", cfg.Postgres().DSN())
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("APP_ENV", "production")
		t.Setenv("LEAVE_SEED_DEFAULT_GRANT", "false")
		t.Setenv("OUTBOX_POLL_INTERVAL", "500ms")
		t.Setenv("RATE_LIMIT_RPS", "2.5")

		cfg, err := Load()

		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
		assert.False(t, cfg.SeedDefaultGrant)
		assert.Equal(t, 500*time.Millisecond, cfg.OutboxPollInterval)
		assert.Equal(t, 2.5, cfg.RateLimitRPS)
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")

		_, err := Load()

		assert.Error(t, err)
	})

	t.Run("invalid rate limit", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("RATE_LIMIT_BURST", "0")

		_, err := Load()

		assert.Error(t, err)
	})
}
