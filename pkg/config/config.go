// Copyright 2025 UMH Systems GmbH
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/united-manufacturing-hub/transformdiag/pkg/env"
	"github.com/united-manufacturing-hub/transformdiag/pkg/sentry"
)

// Config holds the configuration for the transformation diagnostics layer.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
	Registry RegistryConfig `yaml:"registry,omitempty"`
	Metrics  MetricsConfig  `yaml:"metrics,omitempty"`
	Sentry   SentryConfig   `yaml:"sentry,omitempty"`
}

// LoggingConfig controls the level and format of the diagnostic report logger.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// RegistryConfig controls the shared, process-lifetime aggregator registry.
// Aggregators untouched for longer than TTL are culled so a registry kept
// across many sessions does not grow without bound. Session-scoped
// registries ignore these settings: their lifetime ends with the session.
type RegistryConfig struct {
	TTL          time.Duration `yaml:"ttl,omitempty"`
	CullInterval time.Duration `yaml:"cullInterval,omitempty"`
}

// MetricsConfig controls the optional Prometheus endpoint.
type MetricsConfig struct {
	Address string `yaml:"address,omitempty"`
	Enabled bool   `yaml:"enabled,omitempty"`
}

// SentryConfig controls fault reporting.
type SentryConfig struct {
	DSN            string `yaml:"dsn,omitempty"`
	AppVersion     string `yaml:"appVersion,omitempty"`
	DebounceErrors bool   `yaml:"debounceErrors,omitempty"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "PRODUCTION",
			Format: "CONSOLE",
		},
		Registry: RegistryConfig{
			TTL:          24 * time.Hour,
			CullInterval: time.Hour,
		},
		Metrics: MetricsConfig{
			Address: ":9090",
			Enabled: false,
		},
		Sentry: SentryConfig{
			DebounceErrors: true,
		},
	}
}

// Load reads the config file at path, falling back to defaults when the file
// does not exist, and applies environment variable overrides on top.
//
// Order of precedence (highest to lowest):
// 1. Environment variables (LOGGING_LEVEL, LOGGING_FORMAT, DIAG_REGISTRY_TTL, ...)
// 2. Config file values
// 3. Default values
func Load(path string, log *zap.SugaredLogger) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg.withEnvOverrides(log), nil
}

// withEnvOverrides applies runtime environment variables on top of the loaded
// config. Only set variables override existing values.
func (c Config) withEnvOverrides(log *zap.SugaredLogger) Config {
	logLevel, err := env.GetAsString("LOGGING_LEVEL", false, c.Logging.Level)
	if err != nil {
		sentry.ReportIssuef(sentry.IssueTypeWarning, log, "Failed to get LOGGING_LEVEL: %w", err)
	}
	c.Logging.Level = logLevel

	logFormat, err := env.GetAsString("LOGGING_FORMAT", false, c.Logging.Format)
	if err != nil {
		sentry.ReportIssuef(sentry.IssueTypeWarning, log, "Failed to get LOGGING_FORMAT: %w", err)
	}
	c.Logging.Format = logFormat

	ttl, err := env.GetAsDuration("DIAG_REGISTRY_TTL", false, c.Registry.TTL)
	if err != nil {
		sentry.ReportIssuef(sentry.IssueTypeWarning, log, "Failed to get DIAG_REGISTRY_TTL: %w", err)
	}
	c.Registry.TTL = ttl

	cullInterval, err := env.GetAsDuration("DIAG_REGISTRY_CULL_INTERVAL", false, c.Registry.CullInterval)
	if err != nil {
		sentry.ReportIssuef(sentry.IssueTypeWarning, log, "Failed to get DIAG_REGISTRY_CULL_INTERVAL: %w", err)
	}
	c.Registry.CullInterval = cullInterval

	metricsEnabled, err := env.GetAsBool("DIAG_METRICS_ENABLED", false, c.Metrics.Enabled)
	if err != nil {
		sentry.ReportIssuef(sentry.IssueTypeWarning, log, "Failed to get DIAG_METRICS_ENABLED: %w", err)
	}
	c.Metrics.Enabled = metricsEnabled

	metricsAddress, err := env.GetAsString("DIAG_METRICS_ADDRESS", false, c.Metrics.Address)
	if err != nil {
		sentry.ReportIssuef(sentry.IssueTypeWarning, log, "Failed to get DIAG_METRICS_ADDRESS: %w", err)
	}
	c.Metrics.Address = metricsAddress

	dsn, err := env.GetAsString("SENTRY_DSN", false, c.Sentry.DSN)
	if err != nil {
		sentry.ReportIssuef(sentry.IssueTypeWarning, log, "Failed to get SENTRY_DSN: %w", err)
	}
	c.Sentry.DSN = dsn

	return c
}
