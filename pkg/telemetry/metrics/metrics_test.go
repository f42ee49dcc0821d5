package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"immimate-hq/polaris/pkg/config"
)

func newTestCollector(enabled bool) *Collector {
	return NewCollector(&config.MetricsConfig{
		Enabled:   enabled,
		Namespace: "polaris",
		Subsystem: "scoring",
	}, nil)
}

func scrape(t *testing.T, c *Collector) string {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	c.Handler().ServeHTTP(rec, req)
	return rec.Body.String()
}

func TestCollectorRecordsEvaluations(t *testing.T) {
	c := newTestCollector(true)

	c.RecordEvaluation("COMPREHENSIVE_RANKING", "completed", 25*time.Millisecond)
	c.RecordEvaluation("COMPREHENSIVE_RANKING", "error", 5*time.Millisecond)
	c.RecordFieldEvaluation(true)
	c.RecordFieldEvaluation(false)
	c.RecordExpressionFailure()
	c.RecordCappingEvent("Skill Transferability", "group")

	body := scrape(t, c)

	for _, want := range []string{
		`polaris_scoring_evaluations_total{grid="COMPREHENSIVE_RANKING",status="completed"} 1`,
		`polaris_scoring_evaluations_total{grid="COMPREHENSIVE_RANKING",status="error"} 1`,
		`polaris_scoring_field_evaluations_total{qualified="true"} 1`,
		`polaris_scoring_field_evaluations_total{qualified="false"} 1`,
		`polaris_scoring_expression_failures_total 1`,
		`polaris_scoring_capping_events_total{category="Skill Transferability",kind="group"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected metric output to contain %q", want)
		}
	}
}

func TestCollectorDisabledRecordsNothing(t *testing.T) {
	c := newTestCollector(false)

	c.RecordEvaluation("COMPREHENSIVE_RANKING", "completed", time.Millisecond)
	c.RecordFieldEvaluation(true)
	c.RecordCappingEvent("Core", "category")

	body := scrape(t, c)
	if strings.Contains(body, `status="completed"} 1`) {
		t.Error("disabled collector must not record evaluations")
	}
}
