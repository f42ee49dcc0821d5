package config

import (
	"time"
)

// Config is the root configuration for Polaris.
type Config struct {
	// Storage configures the SQLite databases.
	Storage StorageConfig `yaml:"storage"`

	// Grids configures the grid definition pipeline.
	Grids GridsConfig `yaml:"grids"`

	// Retention configures scheduled pruning of old evaluations.
	Retention RetentionConfig `yaml:"retention"`

	// Telemetry configures logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// StorageConfig contains the database file paths. Each concern keeps its own
// database so retention on evaluations never contends with grid imports.
type StorageConfig struct {
	// Backend selects the storage implementation ("sqlite" or "memory").
	Backend string `yaml:"backend"`

	// GridsPath is the grid database file path.
	GridsPath string `yaml:"grids_path"`

	// ProfilesPath is the profile database file path.
	ProfilesPath string `yaml:"profiles_path"`

	// EvaluationsPath is the evaluation database file path.
	EvaluationsPath string `yaml:"evaluations_path"`

	// BusyTimeout is how long SQLite waits on a locked database.
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// GridsConfig controls where grid definitions are loaded from.
type GridsConfig struct {
	// Dir is the directory holding YAML grid definition files.
	Dir string `yaml:"dir"`

	// Watch enables re-importing grid files when they change on disk.
	Watch bool `yaml:"watch"`

	// WatchDebounce coalesces rapid file events into one import.
	WatchDebounce time.Duration `yaml:"watch_debounce"`
}

// RetentionConfig controls scheduled cleanup of old evaluation trees.
type RetentionConfig struct {
	// Enabled turns the retention scheduler on.
	Enabled bool `yaml:"enabled"`

	// Schedule is a standard 5-field cron expression.
	Schedule string `yaml:"schedule"`

	// MaxAgeDays deletes evaluations older than this many days. Zero
	// disables age-based pruning.
	MaxAgeDays int `yaml:"max_age_days"`

	// MaxPerApplication deletes the oldest evaluations of an application
	// beyond this count, regardless of age. Zero disables count-based
	// pruning.
	MaxPerApplication int `yaml:"max_per_application"`

	// KeepLatest always preserves at least this many of the newest
	// evaluations per application, regardless of age.
	KeepLatest int `yaml:"keep_latest"`
}

// TelemetryConfig groups the observability settings.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string `yaml:"level"`

	// Format is the output format ("json", "text").
	Format string `yaml:"format"`

	// AddSource includes file and line number in logs.
	AddSource bool `yaml:"add_source"`

	// RedactPII enables redaction of applicant identifiers in log output.
	RedactPII bool `yaml:"redact_pii"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled turns metric recording on.
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric namespace prefix.
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem prefix.
	Subsystem string `yaml:"subsystem"`

	// DurationBuckets are the histogram buckets for evaluation duration,
	// in seconds.
	DurationBuckets []float64 `yaml:"duration_buckets"`
}
