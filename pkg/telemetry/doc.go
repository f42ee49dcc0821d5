// Package telemetry groups the observability subpackages.
//
// Subpackages:
//
//   - logging: structured logging on log/slog with applicant PII redaction
//   - metrics: Prometheus metrics for the scoring engine
package telemetry
