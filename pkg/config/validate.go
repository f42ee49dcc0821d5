package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// Validate checks the configuration for invalid values. It returns the first
// error encountered.
func Validate(cfg *Config) error {
	if err := validateStorage(&cfg.Storage); err != nil {
		return err
	}
	if err := validateGrids(&cfg.Grids); err != nil {
		return err
	}
	if err := validateRetention(&cfg.Retention); err != nil {
		return err
	}
	return validateTelemetry(&cfg.Telemetry)
}

func validateStorage(s *StorageConfig) error {
	switch s.Backend {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("storage.backend must be \"sqlite\" or \"memory\", got %q", s.Backend)
	}
	if s.Backend == "sqlite" {
		if s.GridsPath == "" {
			return fmt.Errorf("storage.grids_path must not be empty")
		}
		if s.ProfilesPath == "" {
			return fmt.Errorf("storage.profiles_path must not be empty")
		}
		if s.EvaluationsPath == "" {
			return fmt.Errorf("storage.evaluations_path must not be empty")
		}
	}
	if s.BusyTimeout < 0 {
		return fmt.Errorf("storage.busy_timeout must not be negative")
	}
	return nil
}

func validateGrids(g *GridsConfig) error {
	if g.Watch && g.Dir == "" {
		return fmt.Errorf("grids.dir must be set when grids.watch is enabled")
	}
	if g.WatchDebounce < 0 {
		return fmt.Errorf("grids.watch_debounce must not be negative")
	}
	return nil
}

func validateRetention(r *RetentionConfig) error {
	if !r.Enabled {
		return nil
	}
	if _, err := cron.ParseStandard(r.Schedule); err != nil {
		return fmt.Errorf("retention.schedule is not a valid cron expression: %w", err)
	}
	if r.MaxAgeDays < 0 {
		return fmt.Errorf("retention.max_age_days must not be negative")
	}
	if r.MaxPerApplication < 0 {
		return fmt.Errorf("retention.max_per_application must not be negative")
	}
	if r.KeepLatest < 1 {
		return fmt.Errorf("retention.keep_latest must be at least 1")
	}
	return nil
}

func validateTelemetry(t *TelemetryConfig) error {
	switch t.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry.logging.level must be one of debug, info, warn, error, got %q", t.Logging.Level)
	}
	switch t.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("telemetry.logging.format must be \"json\" or \"text\", got %q", t.Logging.Format)
	}
	for _, bucket := range t.Metrics.DurationBuckets {
		if bucket <= 0 {
			return fmt.Errorf("telemetry.metrics.duration_buckets must all be positive")
		}
	}
	return nil
}
