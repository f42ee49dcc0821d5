package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"immimate-hq/polaris/pkg/config"
)

// ScoringMetrics tracks metrics for evaluation runs.
//
// Metrics:
//   - polaris_scoring_evaluations_total: Total evaluations by grid and status
//   - polaris_scoring_evaluation_duration_seconds: Evaluation duration by grid
//   - polaris_scoring_field_evaluations_total: Field decisions by outcome
//   - polaris_scoring_expression_failures_total: Unparseable/unresolvable expressions
//   - polaris_scoring_capping_events_total: Caps taking effect by category and kind
type ScoringMetrics struct {
	// Total evaluation runs
	evaluationsTotal *prometheus.CounterVec

	// Evaluation duration histogram
	evaluationDuration *prometheus.HistogramVec

	// Field expression decisions
	fieldEvaluationsTotal *prometheus.CounterVec

	// Contained expression failures
	expressionFailuresTotal prometheus.Counter

	// Caps taking effect
	cappingEventsTotal *prometheus.CounterVec
}

// NewScoringMetrics creates and registers scoring metrics with the provided
// registry.
func NewScoringMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ScoringMetrics {
	sm := &ScoringMetrics{
		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "evaluations_total",
				Help:      "Total number of evaluation runs",
			},
			[]string{"grid", "status"},
		),

		evaluationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "evaluation_duration_seconds",
				Help:      "Duration of evaluation runs in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"grid"},
		),

		fieldEvaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "field_evaluations_total",
				Help:      "Total number of field expression decisions",
			},
			[]string{"qualified"},
		),

		expressionFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "expression_failures_total",
				Help:      "Total number of expressions that failed to parse or resolve",
			},
		),

		cappingEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "capping_events_total",
				Help:      "Total number of caps taking effect",
			},
			[]string{"category", "kind"},
		),
	}

	// Register all metrics
	registry.MustRegister(
		sm.evaluationsTotal,
		sm.evaluationDuration,
		sm.fieldEvaluationsTotal,
		sm.expressionFailuresTotal,
		sm.cappingEventsTotal,
	)

	return sm
}

// RecordEvaluation records one evaluation run.
func (sm *ScoringMetrics) RecordEvaluation(grid, status string, duration time.Duration) {
	sm.evaluationsTotal.WithLabelValues(grid, status).Inc()
	sm.evaluationDuration.WithLabelValues(grid).Observe(duration.Seconds())
}

// RecordFieldEvaluation records one field decision.
func (sm *ScoringMetrics) RecordFieldEvaluation(qualified bool) {
	label := "false"
	if qualified {
		label = "true"
	}
	sm.fieldEvaluationsTotal.WithLabelValues(label).Inc()
}

// RecordExpressionFailure records a contained expression failure.
func (sm *ScoringMetrics) RecordExpressionFailure() {
	sm.expressionFailuresTotal.Inc()
}

// RecordCappingEvent records one cap taking effect.
func (sm *ScoringMetrics) RecordCappingEvent(category, kind string) {
	sm.cappingEventsTotal.WithLabelValues(category, kind).Inc()
}
