package config

import (
	"fmt"
	"time"
)

// ServiceName identifies this program in logs.
const ServiceName = "cassandra-sample"

// ObservabilityConfig groups logging and health check settings.
type ObservabilityConfig struct {
	// ServiceName is overwritten in LoadConfig so it cannot drift.
	ServiceName string `koanf:"service_name" validate:"required"`

	// Environment mirrors primary.env.
	Environment string `koanf:"environment" validate:"required"`

	Logging LoggingConfig `koanf:"logging" validate:"required"`

	HealthChecks HealthChecksConfig `koanf:"health_checks" validate:"required"`
}

// LoggingConfig holds application logging configuration.
type LoggingConfig struct {
	// Level is the verbosity threshold (debug/info/warn/error).
	// The sample prints its result rows at debug.
	Level string `koanf:"level" validate:"required"`

	// Format selects "console" or "json" output.
	Format string `koanf:"format" validate:"required"`

	// SlowQueryThreshold flags CQL statements that took longer than this.
	// Zero disables the check. Values are duration strings ("100ms", "1s").
	SlowQueryThreshold time.Duration `koanf:"slow_query_threshold"`
}

// HealthChecksConfig controls dependency checks for the serve command.
type HealthChecksConfig struct {
	Enabled bool `koanf:"enabled"`

	// Interval is how often the background monitor pings dependencies.
	Interval time.Duration `koanf:"interval" validate:"min=1s"`

	// Timeout bounds a single check.
	Timeout time.Duration `koanf:"timeout" validate:"min=1s"`

	// Checks names the dependencies to probe: "cassandra", "redis".
	Checks []string `koanf:"checks"`
}

// DefaultObservabilityConfig provides the defaults used when nothing is set.
func DefaultObservabilityConfig() *ObservabilityConfig {
	return &ObservabilityConfig{
		ServiceName: ServiceName,
		Environment: "development",
		Logging: LoggingConfig{
			Level:              "debug",
			Format:             "console",
			SlowQueryThreshold: 500 * time.Millisecond,
		},
		HealthChecks: HealthChecksConfig{
			Enabled:  true,
			Interval: 30 * time.Second,
			Timeout:  5 * time.Second,
			Checks:   []string{"cassandra", "redis"},
		},
	}
}

var (
	validLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validFormats = map[string]bool{"console": true, "json": true}
	validChecks  = map[string]bool{"cassandra": true, "redis": true}
)

// Validate applies rules that go beyond struct tags.
func (c *ObservabilityConfig) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}

	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be one of: debug, info, warn, error)", c.Logging.Level)
	}

	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s (must be one of: console, json)", c.Logging.Format)
	}

	if c.Logging.SlowQueryThreshold < 0 {
		return fmt.Errorf("logging slow_query_threshold must be non-negative")
	}

	for _, check := range c.HealthChecks.Checks {
		if !validChecks[check] {
			return fmt.Errorf("unknown health check: %s", check)
		}
	}

	return nil
}

// GetLogLevel returns the effective log level.
//
// Production falls back to info and everything else to debug when no level
// is configured.
func (c *ObservabilityConfig) GetLogLevel() string {
	if c.Logging.Level != "" {
		return c.Logging.Level
	}
	if c.IsProduction() {
		return "info"
	}
	return "debug"
}

// IsProduction reports whether the application is running in production mode.
func (c *ObservabilityConfig) IsProduction() bool {
	return c.Environment == "production"
}

// HasCheck reports whether the named health check is enabled.
func (c *ObservabilityConfig) HasCheck(name string) bool {
	if !c.HealthChecks.Enabled {
		return false
	}
	for _, check := range c.HealthChecks.Checks {
		if check == name {
			return true
		}
	}
	return false
}
