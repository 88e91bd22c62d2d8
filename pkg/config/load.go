package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a YAML file at the specified path, applies
// defaults and environment overrides, and validates the result. A missing
// file is not an error: the gateway runs on defaults plus environment.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	case os.IsNotExist(err):
		// Defaults-only run.
	default:
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides applies BRIDGE_* environment variable overrides.
// Environment variables always take precedence over file values.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("BRIDGE_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("BRIDGE_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("BRIDGE_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}

	if val := os.Getenv("BRIDGE_AUTH_MODE"); val != "" {
		cfg.Auth.Mode = val
	}
	if val := os.Getenv("BRIDGE_AUTH_KEYS_FILE"); val != "" {
		cfg.Auth.KeysFile = val
	}
	if val := os.Getenv("BRIDGE_AUTH_SIGNING_SECRET"); val != "" {
		cfg.Auth.SigningSecret = val
	}
	if val := os.Getenv("BRIDGE_AUTH_ISSUER"); val != "" {
		cfg.Auth.Issuer = val
	}

	if val := os.Getenv("BRIDGE_RATE_LIMIT_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.RateLimit.Enabled = b
		}
	}
	if val := os.Getenv("BRIDGE_RATE_LIMIT_REQUESTS_PER_MINUTE"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.RateLimit.RequestsPerMinute = i
		}
	}
	if val := os.Getenv("BRIDGE_RATE_LIMIT_BURST_SIZE"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.RateLimit.BurstSize = i
		}
	}

	if val := os.Getenv("BRIDGE_CONVERSION_ENGINE_BINARY"); val != "" {
		cfg.Conversion.EngineBinary = val
	}
	if val := os.Getenv("BRIDGE_CONVERSION_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Conversion.Timeout = d
		}
	}
	if val := os.Getenv("BRIDGE_CONVERSION_MAX_FILE_SIZE_MB"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Conversion.MaxFileSizeMB = i
		}
	}

	if val := os.Getenv("BRIDGE_AUDIT_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Audit.Enabled = b
		}
	}
	if val := os.Getenv("BRIDGE_AUDIT_SQLITE_PATH"); val != "" {
		cfg.Audit.SQLitePath = val
	}

	if val := os.Getenv("BRIDGE_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("BRIDGE_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("BRIDGE_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
}
