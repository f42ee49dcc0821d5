// Package metrics provides Prometheus metrics for the scoring engine.
//
// The Collector owns a registry and the per-concern metric groups. Metrics
// exposed (with the configured namespace/subsystem prefix):
//
//   - evaluations_total{grid, status}
//   - evaluation_duration_seconds{grid}
//   - field_evaluations_total{qualified}
//   - expression_failures_total
//   - capping_events_total{category, kind}
//
// Handler returns a promhttp handler for the collector's registry.
package metrics
