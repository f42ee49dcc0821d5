// Package config defines the Polaris configuration model and loading logic.
//
// Configuration is loaded from a YAML file, then defaults are applied,
// then POLARIS_* environment variables override individual fields, and the
// final result is validated:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("polaris.yaml")
//
// Environment variables follow the naming convention POLARIS_SECTION_FIELD,
// for example POLARIS_STORAGE_EVALUATIONS_PATH or POLARIS_RETENTION_SCHEDULE.
package config
