package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention POLARIS_SECTION_FIELD (e.g., POLARIS_STORAGE_GRIDS_PATH) and
// always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// LoadConfigOrDefaults behaves like LoadConfigWithEnvOverrides, but a missing
// configuration file is not an error: defaults plus environment overrides are
// used instead. The CLI runs fine without a config file.
func LoadConfigOrDefaults(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		applyEnvOverrides(cfg)
		if err := Validate(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
		}
		return cfg, nil
	}
	return LoadConfigWithEnvOverrides(path)
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables use the format POLARIS_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Storage overrides
	if val := os.Getenv("POLARIS_STORAGE_BACKEND"); val != "" {
		cfg.Storage.Backend = val
	}
	if val := os.Getenv("POLARIS_STORAGE_GRIDS_PATH"); val != "" {
		cfg.Storage.GridsPath = val
	}
	if val := os.Getenv("POLARIS_STORAGE_PROFILES_PATH"); val != "" {
		cfg.Storage.ProfilesPath = val
	}
	if val := os.Getenv("POLARIS_STORAGE_EVALUATIONS_PATH"); val != "" {
		cfg.Storage.EvaluationsPath = val
	}
	if val := os.Getenv("POLARIS_STORAGE_BUSY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Storage.BusyTimeout = d
		}
	}

	// Grid pipeline overrides
	if val := os.Getenv("POLARIS_GRIDS_DIR"); val != "" {
		cfg.Grids.Dir = val
	}
	if val := os.Getenv("POLARIS_GRIDS_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Grids.Watch = b
		}
	}
	if val := os.Getenv("POLARIS_GRIDS_WATCH_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Grids.WatchDebounce = d
		}
	}

	// Retention overrides
	if val := os.Getenv("POLARIS_RETENTION_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Retention.Enabled = b
		}
	}
	if val := os.Getenv("POLARIS_RETENTION_SCHEDULE"); val != "" {
		cfg.Retention.Schedule = val
	}
	if val := os.Getenv("POLARIS_RETENTION_MAX_AGE_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Retention.MaxAgeDays = i
		}
	}
	if val := os.Getenv("POLARIS_RETENTION_MAX_PER_APPLICATION"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Retention.MaxPerApplication = i
		}
	}
	if val := os.Getenv("POLARIS_RETENTION_KEEP_LATEST"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Retention.KeepLatest = i
		}
	}

	// Telemetry overrides
	if val := os.Getenv("POLARIS_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("POLARIS_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("POLARIS_TELEMETRY_LOGGING_REDACT_PII"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Logging.RedactPII = b
		}
	}
	if val := os.Getenv("POLARIS_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("POLARIS_TELEMETRY_METRICS_NAMESPACE"); val != "" {
		cfg.Telemetry.Metrics.Namespace = val
	}
	if val := os.Getenv("POLARIS_TELEMETRY_METRICS_SUBSYSTEM"); val != "" {
		cfg.Telemetry.Metrics.Subsystem = val
	}
}
