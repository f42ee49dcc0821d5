package config

import (
	"time"
)

// Default values applied to unset fields.
const (
	DefaultStorageBackend  = "sqlite"
	DefaultGridsPath       = "data/grids.db"
	DefaultProfilesPath    = "data/profiles.db"
	DefaultEvaluationsPath = "data/evaluations.db"
	DefaultBusyTimeout     = 5 * time.Second

	DefaultGridsDir      = "grids"
	DefaultWatchDebounce = 500 * time.Millisecond

	DefaultRetentionSchedule = "0 3 * * *"
	DefaultRetentionKeep     = 1

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsNamespace = "polaris"
	DefaultMetricsSubsystem = "scoring"
)

// DefaultConfig returns a configuration with all defaults applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills in default values for any unset fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = DefaultStorageBackend
	}
	if cfg.Storage.GridsPath == "" {
		cfg.Storage.GridsPath = DefaultGridsPath
	}
	if cfg.Storage.ProfilesPath == "" {
		cfg.Storage.ProfilesPath = DefaultProfilesPath
	}
	if cfg.Storage.EvaluationsPath == "" {
		cfg.Storage.EvaluationsPath = DefaultEvaluationsPath
	}
	if cfg.Storage.BusyTimeout == 0 {
		cfg.Storage.BusyTimeout = DefaultBusyTimeout
	}

	if cfg.Grids.Dir == "" {
		cfg.Grids.Dir = DefaultGridsDir
	}
	if cfg.Grids.WatchDebounce == 0 {
		cfg.Grids.WatchDebounce = DefaultWatchDebounce
	}

	if cfg.Retention.Schedule == "" {
		cfg.Retention.Schedule = DefaultRetentionSchedule
	}
	if cfg.Retention.KeepLatest == 0 {
		cfg.Retention.KeepLatest = DefaultRetentionKeep
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}

	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) == 0 {
		// Evaluations walk a few hundred fields; well under a second
		cfg.Telemetry.Metrics.DurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0}
	}
}
