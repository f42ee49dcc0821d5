package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"immimate-hq/polaris/pkg/config"
)

// Collector is the orchestrator for all Prometheus metrics in Polaris. It
// manages metric registration and provides a unified recording interface so
// the scoring engine never touches prometheus types directly.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Scoring metrics
	scoringMetrics *ScoringMetrics
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a fresh registry
// is created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0}
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}

	c.scoringMetrics = NewScoringMetrics(cfg, registry)

	return c
}

// RecordEvaluation records a completed (or failed) evaluation run.
//
// Parameters:
//   - grid: grid name the evaluation ran against
//   - status: "completed" or "error"
//   - duration: wall time of the run
func (c *Collector) RecordEvaluation(grid, status string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.scoringMetrics.RecordEvaluation(grid, status, duration)
}

// RecordFieldEvaluation records one field expression decision.
func (c *Collector) RecordFieldEvaluation(qualified bool) {
	if !c.config.Enabled {
		return
	}

	c.scoringMetrics.RecordFieldEvaluation(qualified)
}

// RecordExpressionFailure records an expression that could not be parsed or
// resolved; the field counts as not qualifying but the failure is tracked.
func (c *Collector) RecordExpressionFailure() {
	if !c.config.Enabled {
		return
	}

	c.scoringMetrics.RecordExpressionFailure()
}

// RecordCappingEvent records one cap taking effect.
//
// Parameters:
//   - category: category name the cap applied within
//   - kind: "subcategory", "group", or "category"
func (c *Collector) RecordCappingEvent(category, kind string) {
	if !c.config.Enabled {
		return
	}

	c.scoringMetrics.RecordCappingEvent(category, kind)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
