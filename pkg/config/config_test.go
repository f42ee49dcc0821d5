package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "polaris.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default configuration must validate: %v", err)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("expected sqlite default backend, got %q", cfg.Storage.Backend)
	}
	if cfg.Telemetry.Logging.Level != "info" {
		t.Errorf("expected info default level, got %q", cfg.Telemetry.Logging.Level)
	}
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
storage:
  evaluations_path: /var/lib/polaris/evals.db
retention:
  enabled: true
  max_age_days: 90
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Storage.EvaluationsPath != "/var/lib/polaris/evals.db" {
		t.Errorf("unexpected evaluations path: %q", cfg.Storage.EvaluationsPath)
	}
	if cfg.Storage.GridsPath != DefaultGridsPath {
		t.Errorf("expected default grids path, got %q", cfg.Storage.GridsPath)
	}
	if cfg.Storage.BusyTimeout != DefaultBusyTimeout {
		t.Errorf("expected default busy timeout, got %v", cfg.Storage.BusyTimeout)
	}
	if cfg.Retention.Schedule != DefaultRetentionSchedule {
		t.Errorf("expected default retention schedule, got %q", cfg.Retention.Schedule)
	}
	if cfg.Retention.MaxAgeDays != 90 {
		t.Errorf("expected max_age_days 90, got %d", cfg.Retention.MaxAgeDays)
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "bad backend",
			content: `
storage:
  backend: postgres
`,
		},
		{
			name: "bad log level",
			content: `
telemetry:
  logging:
    level: verbose
`,
		},
		{
			name: "bad cron expression",
			content: `
retention:
  enabled: true
  schedule: "every day at noon"
`,
		},
		{
			name: "keep_latest below one",
			content: `
retention:
  enabled: true
  keep_latest: -2
`,
		},
		{
			name: "negative max_per_application",
			content: `
retention:
  enabled: true
  max_per_application: -1
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.content)
			if _, err := LoadConfig(path); err == nil {
				t.Error("expected validation error, got none")
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadConfigOrDefaultsMissingFile(t *testing.T) {
	t.Setenv("POLARIS_RETENTION_MAX_PER_APPLICATION", "5")

	cfg, err := LoadConfigOrDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfigOrDefaults failed: %v", err)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("expected default backend, got %q", cfg.Storage.Backend)
	}
	if cfg.Retention.MaxPerApplication != 5 {
		t.Errorf("expected env override max_per_application 5, got %d", cfg.Retention.MaxPerApplication)
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
storage:
  grids_path: from-file.db
`)

	t.Setenv("POLARIS_STORAGE_GRIDS_PATH", "from-env.db")
	t.Setenv("POLARIS_STORAGE_BUSY_TIMEOUT", "10s")
	t.Setenv("POLARIS_GRIDS_WATCH", "true")
	t.Setenv("POLARIS_TELEMETRY_LOGGING_LEVEL", "debug")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides failed: %v", err)
	}

	if cfg.Storage.GridsPath != "from-env.db" {
		t.Errorf("expected env override for grids path, got %q", cfg.Storage.GridsPath)
	}
	if cfg.Storage.BusyTimeout != 10*time.Second {
		t.Errorf("expected 10s busy timeout, got %v", cfg.Storage.BusyTimeout)
	}
	if !cfg.Grids.Watch {
		t.Error("expected watch enabled via env")
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("expected debug level via env, got %q", cfg.Telemetry.Logging.Level)
	}
	if cfg.Grids.Dir != DefaultGridsDir {
		t.Errorf("expected default grids dir, got %q", cfg.Grids.Dir)
	}
}

func TestEnvOverrideFailsValidation(t *testing.T) {
	path := writeConfigFile(t, "")

	t.Setenv("POLARIS_TELEMETRY_LOGGING_FORMAT", "xml")

	if _, err := LoadConfigWithEnvOverrides(path); err == nil {
		t.Error("expected validation failure after env override")
	}
}
