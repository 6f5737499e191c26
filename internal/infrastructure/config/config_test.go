package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8090", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	assert.True(t, cfg.Storage.Enabled)
	assert.Equal(t, time.Minute, cfg.Storage.HealthCheckInterval())
	assert.Equal(t, 10*time.Second, cfg.Storage.ProbeTimeout())
	assert.Empty(t, cfg.Storage.SeedFile)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("STORAGE_ENABLED", "false")
	t.Setenv("STORAGE_CHECK_INTERVAL_MS", "500")
	t.Setenv("STORAGE_STATS_EXCLUDES", "**/*.tmp,**/.cache/**")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.False(t, cfg.Storage.Enabled)
	assert.Equal(t, 500*time.Millisecond, cfg.Storage.HealthCheckInterval())
	assert.Equal(t, []string{"**/*.tmp", "**/.cache/**"}, cfg.Storage.StatsExcludes)
}

func TestLoadOrDefault(t *testing.T) {
	os.Unsetenv("PORT")
	cfg := LoadOrDefault()

	require.NotNil(t, cfg)
	assert.Equal(t, "8090", cfg.Server.Port)
}

func TestDisabledSweepInterval(t *testing.T) {
	s := StorageConfig{HealthCheckIntervalMs: 0}
	assert.LessOrEqual(t, s.HealthCheckInterval(), time.Duration(0))
}
