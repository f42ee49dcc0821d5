// Package logging provides structured logging for Polaris on top of log/slog.
//
// The Logger wraps slog with level/format parsing from configuration,
// optional redaction of applicant PII, and helpers for carrying evaluation
// identifiers (application_id, evaluation_id, grid) through context.
//
// Components that only need a plain logger take a *slog.Logger directly and
// default to slog.Default(); this package configures the process-wide default
// at startup.
package logging
