package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the grievance service.
// Environment variables are parsed from the DAKSEVA_ prefix,
// e.g. DAKSEVA_HTTP_PORT, DAKSEVA_DB_DRIVER.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Store backend: sqlite (default, local dashboard) or postgres
	DBDriver    string `envconfig:"DB_DRIVER" default:"sqlite"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"data/dakseva.db"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// Analysis provider (local LLM)
	LLMBaseURL      string `envconfig:"LLM_BASE_URL" default:"http://localhost:11434"`
	LLMModel        string `envconfig:"LLM_MODEL" default:"mistral"`
	DefaultLanguage string `envconfig:"DEFAULT_LANGUAGE" default:"en"`

	// Session tokens
	JWTSecret string `envconfig:"JWT_SECRET" default:"dev-only-secret"`

	// The staged-processing delays shown during record analysis are
	// cosmetic; disabling them keeps behavior identical and test runs fast.
	StageDelays bool `envconfig:"STAGE_DELAYS" default:"true"`

	// Optional cron expression for periodic external-inbox sync, e.g.
	// "@every 5m". Empty disables the scheduler.
	SyncSchedule string `envconfig:"SYNC_SCHEDULE" default:""`

	// Health monitoring
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`
}

// ResolveDefaults validates the configured store driver.
func (c *Config) ResolveDefaults() error {
	switch c.DBDriver {
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("DAKSEVA_SQLITE_PATH required for sqlite driver")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("DAKSEVA_POSTGRES_DSN required for postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	return nil
}

// New creates a new Config by parsing environment variables.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("DAKSEVA", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("db_driver", cfg.DBDriver).
		Int("port", cfg.HTTPPort).
		Str("llm_base_url", cfg.LLMBaseURL).
		Str("llm_model", cfg.LLMModel).
		Bool("stage_delays", cfg.StageDelays).
		Str("sync_schedule", cfg.SyncSchedule).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing.
func NewForTesting() *Config {
	return &Config{
		Environment:               EnvTesting,
		HTTPPort:                  8080,
		DBDriver:                  "sqlite",
		SQLitePath:                "test.db",
		LLMBaseURL:                "http://localhost:11434",
		LLMModel:                  "mistral",
		DefaultLanguage:           "en",
		JWTSecret:                 "test-secret",
		StageDelays:               false,
		HealthIntervalSeconds:     1,
		HealthProbeTimeoutSeconds: 1,
	}
}

// IsTesting returns true if the environment is set to testing.
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
