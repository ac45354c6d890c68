// Package config loads process configuration from the environment.
// Command-line flags override the values parsed here.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/aretw0/mootcourt/internal/logging"
	"github.com/aretw0/mootcourt/internal/runtime"
)

// Config holds the settings shared by every mootcourt command.
type Config struct {
	Addr           string        `env:"MOOTCOURT_ADDR"            envDefault:":8080"`
	ThinkingDelay  time.Duration `env:"MOOTCOURT_THINKING_DELAY"  envDefault:"2s"`
	ThinkingPolicy string        `env:"MOOTCOURT_THINKING_POLICY" envDefault:"per-turn"`
	MaxInputSize   int           `env:"MOOTCOURT_MAX_INPUT_SIZE"  envDefault:"4096"`
	LogLevel       string        `env:"MOOTCOURT_LOG_LEVEL"       envDefault:"info"`
	LogFile        string        `env:"MOOTCOURT_LOG_FILE"`
	SessionLimit   int           `env:"MOOTCOURT_SESSION_LIMIT"   envDefault:"100"`
	CORSOrigins    []string      `env:"MOOTCOURT_CORS_ORIGINS"    envSeparator:","`
}

// Load parses the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that env cannot type-check on its own.
func (c Config) Validate() error {
	if c.ThinkingDelay < 0 {
		return fmt.Errorf("thinking delay must not be negative, got %s", c.ThinkingDelay)
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.SessionLimit < 0 {
		return fmt.Errorf("session limit must not be negative, got %d", c.SessionLimit)
	}
	return nil
}

// Policy builds the configured thinking policy.
func (c Config) Policy() (runtime.ThinkingPolicy, error) {
	return runtime.NewThinkingPolicy(c.ThinkingPolicy, c.ThinkingDelay)
}

// Level returns the configured log level.
func (c Config) Level() (slog.Level, error) {
	return logging.ParseLevel(c.LogLevel)
}
