package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "8700", cfg.Server.Port)
		assert.Equal(t, 5*time.Second, cfg.Resolver.ProbeTimeout)
		assert.True(t, cfg.RateLimit.Enabled)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("PORT", "9000")
		t.Setenv("AUTH_TOKEN", "secret")
		t.Setenv("PROBE_TIMEOUT", "2s")
		t.Setenv("LOG_DEV", "true")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "9000", cfg.Server.Port)
		assert.Equal(t, "secret", cfg.Auth.Token)
		assert.Equal(t, 2*time.Second, cfg.Resolver.ProbeTimeout)
		assert.True(t, cfg.Logging.Development)
	})

	t.Run("invalid duration fails", func(t *testing.T) {
		t.Setenv("PROBE_TIMEOUT", "not-a-duration")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestLoadOrDefault(t *testing.T) {
	t.Setenv("PROBE_TIMEOUT", "garbage")
	cfg := LoadOrDefault()
	assert.Equal(t, Default(), cfg)
}
