package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for values the server cannot run with.
// It returns the first problem found.
func Validate(cfg *Config) error {
	if cfg.Server.ListenAddress == "" {
		return fmt.Errorf("server.listen_address must not be empty")
	}
	if !strings.Contains(cfg.Server.ListenAddress, ":") {
		return fmt.Errorf("server.listen_address %q must be host:port", cfg.Server.ListenAddress)
	}

	switch cfg.Auth.Mode {
	case AuthModeStaticKeys:
		if cfg.Auth.KeysFile == "" {
			return fmt.Errorf("auth.keys_file is required in %s mode", AuthModeStaticKeys)
		}
	case AuthModeSignedTokens:
		if len(cfg.Auth.SigningSecret) < 32 {
			return fmt.Errorf("auth.signing_secret must be at least 32 bytes in %s mode", AuthModeSignedTokens)
		}
	default:
		return fmt.Errorf("auth.mode %q is not one of %q, %q", cfg.Auth.Mode, AuthModeStaticKeys, AuthModeSignedTokens)
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.RequestsPerMinute <= 0 {
			return fmt.Errorf("rate_limit.requests_per_minute must be positive, got %d", cfg.RateLimit.RequestsPerMinute)
		}
		if cfg.RateLimit.BurstSize <= 0 {
			return fmt.Errorf("rate_limit.burst_size must be positive, got %d", cfg.RateLimit.BurstSize)
		}
		if cfg.RateLimit.BurstSize > cfg.RateLimit.RequestsPerMinute {
			return fmt.Errorf("rate_limit.burst_size (%d) must not exceed requests_per_minute (%d)",
				cfg.RateLimit.BurstSize, cfg.RateLimit.RequestsPerMinute)
		}
	}

	if cfg.Conversion.EngineBinary == "" {
		return fmt.Errorf("conversion.engine_binary must not be empty")
	}
	if cfg.Conversion.Timeout <= 0 {
		return fmt.Errorf("conversion.timeout must be positive, got %s", cfg.Conversion.Timeout)
	}
	if cfg.Conversion.MaxFileSizeMB <= 0 {
		return fmt.Errorf("conversion.max_file_size_mb must be positive, got %d", cfg.Conversion.MaxFileSizeMB)
	}
	if cfg.Server.WriteTimeout > 0 && cfg.Server.WriteTimeout < cfg.Conversion.Timeout {
		return fmt.Errorf("server.write_timeout (%s) must not be shorter than conversion.timeout (%s)",
			cfg.Server.WriteTimeout, cfg.Conversion.Timeout)
	}

	if cfg.Audit.Enabled && cfg.Audit.SQLitePath == "" {
		return fmt.Errorf("audit.sqlite_path is required when audit is enabled")
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry.logging.level %q is not one of debug, info, warn, error", cfg.Telemetry.Logging.Level)
	}
	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("telemetry.logging.format %q is not one of json, text", cfg.Telemetry.Logging.Format)
	}

	return nil
}
