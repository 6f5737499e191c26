package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8090"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// StorageConfig holds storage manager configuration.
type StorageConfig struct {
	Enabled               bool     `envconfig:"STORAGE_ENABLED" default:"true"`
	HealthCheckIntervalMs int      `envconfig:"STORAGE_CHECK_INTERVAL_MS" default:"60000"`
	ProbeTimeoutMs        int      `envconfig:"STORAGE_PROBE_TIMEOUT_MS" default:"10000"`
	SeedFile              string   `envconfig:"STORAGE_SEED_FILE" default:""`
	StatsExcludes         []string `envconfig:"STORAGE_STATS_EXCLUDES" default:""`
}

// HealthCheckInterval returns the sweep cadence as a duration.
// Non-positive means the periodic sweep is disabled.
func (s StorageConfig) HealthCheckInterval() time.Duration {
	return time.Duration(s.HealthCheckIntervalMs) * time.Millisecond
}

// ProbeTimeout returns the per-probe bound as a duration.
func (s StorageConfig) ProbeTimeout() time.Duration {
	return time.Duration(s.ProbeTimeoutMs) * time.Millisecond
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8090",
			Host: "0.0.0.0",
		},
		Storage: StorageConfig{
			Enabled:               true,
			HealthCheckIntervalMs: 60000,
			ProbeTimeoutMs:        10000,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
