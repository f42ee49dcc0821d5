package scoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"immimate-hq/polaris/pkg/config"
	"immimate-hq/polaris/pkg/evaluation"
	"immimate-hq/polaris/pkg/grid"
	"immimate-hq/polaris/pkg/profile"
	"immimate-hq/polaris/pkg/scoring/expr"
	"immimate-hq/polaris/pkg/telemetry/metrics"
)

// skillTransferabilityMarker selects the capping strategy: categories whose
// name contains it use the combination group rules instead of per-subcategory
// caps.
const skillTransferabilityMarker = "Skill Transferability"

// Evaluation run statuses as recorded in metrics.
const (
	statusCompleted = "completed"
	statusError     = "error"
)

// EngineConfig wires the engine's collaborators. Grids, Profiles, and
// Evaluations are required; Logger and Metrics fall back to slog's default
// logger and a disabled collector.
type EngineConfig struct {
	Grids       grid.Store
	Profiles    profile.Store
	Evaluations evaluation.Store
	Logger      *slog.Logger
	Metrics     *metrics.Collector
}

// Engine runs one grid against one profile and persists the scored result
// tree. It holds no per-run state; a single Engine is safe for concurrent
// evaluations as long as its stores are.
type Engine struct {
	grids       grid.Store
	profiles    profile.Store
	evaluations evaluation.Store
	logger      *slog.Logger
	metrics     *metrics.Collector
}

// NewEngine creates a scoring engine from its collaborators.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Grids == nil {
		return nil, errors.New("scoring: grid store is required")
	}
	if cfg.Profiles == nil {
		return nil, errors.New("scoring: profile store is required")
	}
	if cfg.Evaluations == nil {
		return nil, errors.New("scoring: evaluation store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default().With("component", "scoring")
	}
	collector := cfg.Metrics
	if collector == nil {
		collector = metrics.NewCollector(&config.MetricsConfig{}, nil)
	}

	return &Engine{
		grids:       cfg.Grids,
		profiles:    cfg.Profiles,
		evaluations: cfg.Evaluations,
		logger:      logger,
		metrics:     collector,
	}, nil
}

// Evaluate scores one application against the named grid and returns the
// persisted evaluation with its full result tree attached.
//
// The run is containment-oriented: an individual field expression failing to
// parse makes that field not qualify and the run continues. Storage errors
// and capping invariant violations abort the run; the partially written tree
// is discarded.
func (e *Engine) Evaluate(ctx context.Context, applicationID uuid.UUID, gridName string) (*evaluation.Evaluation, error) {
	start := time.Now()

	g, err := e.grids.FindGridByName(ctx, gridName)
	if err != nil {
		e.metrics.RecordEvaluation(gridName, statusError, time.Since(start))
		return nil, err
	}

	p, err := e.profiles.FindByApplicationID(ctx, applicationID)
	if err != nil {
		e.metrics.RecordEvaluation(g.Name, statusError, time.Since(start))
		return nil, err
	}

	vars := expr.Variables(profile.Variables(p))
	hasSpouse := p.HasSpouse()

	e.logger.Info("starting evaluation",
		"application_id", applicationID,
		"grid", g.Name,
		"grid_version", g.Version,
		"has_spouse", hasSpouse,
	)

	in := newInsights()
	in.recordProfileInsights(vars, hasSpouse)

	now := time.Now().UTC()
	eval := &evaluation.Evaluation{
		ID:            uuid.New(),
		ApplicationID: applicationID,
		GridID:        g.ID,
		GridName:      g.Name,
		EvaluatedAt:   now,
		Status:        evaluation.StatusCompleted,
		Version:       evaluation.InitialVersion,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := e.evaluations.CreateEvaluation(ctx, eval); err != nil {
		e.metrics.RecordEvaluation(g.Name, statusError, time.Since(start))
		return nil, err
	}

	categories, err := e.grids.ListCategories(ctx, g.ID)
	if err != nil {
		return nil, e.abortRun(ctx, eval, g.Name, start, err)
	}

	total := 0
	for _, gc := range categories {
		ec, err := e.processCategory(ctx, eval, gc, vars, hasSpouse, in)
		if err != nil {
			return nil, e.abortRun(ctx, eval, g.Name, start, err)
		}
		total += ec.UserScore
		eval.Categories = append(eval.Categories, ec)
	}

	eval.TotalScore = total
	eval.Notes = in.summaryNotes()
	eval.Details = in.detailedReport()
	eval.UpdatedAt = time.Now().UTC()
	if err := e.evaluations.UpdateEvaluation(ctx, eval); err != nil {
		return nil, e.abortRun(ctx, eval, g.Name, start, err)
	}

	e.logger.Info("evaluation completed",
		"application_id", applicationID,
		"evaluation_id", eval.ID,
		"grid", g.Name,
		"total_score", total,
		"duration", time.Since(start),
	)
	e.metrics.RecordEvaluation(g.Name, statusCompleted, time.Since(start))

	return eval, nil
}

// abortRun discards the partially written result tree and returns the cause.
func (e *Engine) abortRun(ctx context.Context, eval *evaluation.Evaluation, gridName string, start time.Time, cause error) error {
	if err := e.evaluations.DeleteEvaluation(ctx, eval.ID); err != nil {
		e.logger.Error("failed to discard aborted evaluation",
			"evaluation_id", eval.ID,
			"error", err,
		)
	}
	e.metrics.RecordEvaluation(gridName, statusError, time.Since(start))
	return cause
}

// processCategory scores one category: walk its subcategories, apply the
// applicable capping strategy over the snapshot, clamp at the category
// ceiling, and persist the final score.
func (e *Engine) processCategory(ctx context.Context, eval *evaluation.Evaluation, gc *grid.Category, vars expr.Variables, hasSpouse bool, in *insights) (*evaluation.Category, error) {
	e.logger.Debug("processing category", "category", gc.Name)
	in.detailf("\nPROCESSING CATEGORY: %s\n", gc.Name)
	in.detailf("-------------------------------------------\n")

	now := time.Now().UTC()
	ec := &evaluation.Category{
		ID:               uuid.New(),
		EvaluationID:     eval.ID,
		CategoryID:       gc.ID,
		CategoryName:     gc.Name,
		MaxPossibleScore: gc.MaxScore(hasSpouse),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := e.evaluations.CreateCategory(ctx, ec); err != nil {
		return nil, err
	}

	gridSubs, err := e.grids.ListSubcategories(ctx, gc.ID)
	if err != nil {
		return nil, err
	}

	maxByID := make(map[uuid.UUID]int, len(gridSubs))
	var snapshot []*evaluation.Subcategory
	score := 0
	for _, gs := range gridSubs {
		maxByID[gs.ID] = gs.MaxScore(hasSpouse)

		es, err := e.processSubcategory(ctx, eval, ec, gs, vars, hasSpouse, in)
		if err != nil {
			return nil, err
		}
		score += es.UserScore
		snapshot = append(snapshot, es)

		if es.UserScore > 0 {
			in.addCategoryHighlight(gc.Name,
				fmt.Sprintf("Subcategory '%s' contributed %d points", gs.Name, es.UserScore))
		}
	}

	before := make(map[uuid.UUID]int, len(snapshot))
	for _, es := range snapshot {
		before[es.ID] = es.UserScore
	}

	original := score
	if strings.Contains(gc.Name, skillTransferabilityMarker) {
		score, _, err = applyTransferabilityCaps(snapshot, in)
		if err != nil {
			return nil, err
		}
		if original > score {
			in.addCappingEvent(fmt.Sprintf(
				"Skill Transferability: Points reduced from %d to %d due to group/category caps",
				original, score))
			e.metrics.RecordCappingEvent(gc.Name, "group")
		}
	} else {
		score, _, err = applySubcategoryCaps(snapshot, func(id uuid.UUID) int { return maxByID[id] })
		if err != nil {
			return nil, err
		}
		if original > score {
			in.detailf("\nCAPPING APPLIED to %s: Score reduced from %d to %d\n", gc.Name, original, score)
			in.addCappingEvent(fmt.Sprintf(
				"%s: Points reduced from %d to %d due to subcategory caps",
				gc.Name, original, score))
			e.metrics.RecordCappingEvent(gc.Name, "subcategory")
		}
	}

	// Persist the rows capping adjusted.
	for _, es := range snapshot {
		if es.UserScore == before[es.ID] {
			continue
		}
		es.UpdatedAt = time.Now().UTC()
		if err := e.evaluations.UpdateSubcategory(ctx, es); err != nil {
			return nil, err
		}
	}

	if score > ec.MaxPossibleScore {
		in.detailf("\nCATEGORY CAP APPLIED: %s score reduced from %d to %d (category maximum)\n",
			gc.Name, score, ec.MaxPossibleScore)
		in.addCappingEvent(fmt.Sprintf("%s: Points reduced from %d to %d (category maximum)",
			gc.Name, score, ec.MaxPossibleScore))
		e.metrics.RecordCappingEvent(gc.Name, "category")
		score = ec.MaxPossibleScore
	}

	ec.UserScore = score
	ec.UpdatedAt = time.Now().UTC()
	if err := e.evaluations.UpdateCategory(ctx, ec); err != nil {
		return nil, err
	}

	e.logger.Debug("category scored", "category", gc.Name, "score", score)
	in.detailf("\nFinal score for %s: %d out of %d points\n", gc.Name, score, ec.MaxPossibleScore)

	ec.Subcategories = snapshot
	return ec, nil
}

// processSubcategory scores one subcategory. Fields with the same name form a
// mutually exclusive group; each group contributes its highest qualifying
// award, and the subcategory sum is clamped at its ceiling.
func (e *Engine) processSubcategory(ctx context.Context, eval *evaluation.Evaluation, ec *evaluation.Category, gs *grid.Subcategory, vars expr.Variables, hasSpouse bool, in *insights) (*evaluation.Subcategory, error) {
	e.logger.Debug("processing subcategory", "subcategory", gs.Name)
	in.detailf("\nSubcategory: %s\n", gs.Name)

	now := time.Now().UTC()
	es := &evaluation.Subcategory{
		ID:               uuid.New(),
		CategoryEvalID:   ec.ID,
		SubcategoryID:    gs.ID,
		SubcategoryName:  gs.Name,
		MaxPossibleScore: gs.MaxScore(hasSpouse),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := e.evaluations.CreateSubcategory(ctx, es); err != nil {
		return nil, err
	}

	fields, err := e.grids.ListFields(ctx, gs.ID)
	if err != nil {
		return nil, err
	}

	var groupOrder []string
	groupsByName := make(map[string][]*grid.Field)
	for _, f := range fields {
		if _, seen := groupsByName[f.Name]; !seen {
			groupOrder = append(groupOrder, f.Name)
		}
		groupsByName[f.Name] = append(groupsByName[f.Name], f)
	}

	score, fieldCount := 0, 0
	for _, name := range groupOrder {
		in.detailf("  Field group: %s\n", name)

		best, qualifying := 0, 0
		for _, f := range groupsByName[name] {
			ef, err := e.processField(ctx, eval, es, f, vars, hasSpouse, in)
			if err != nil {
				return nil, err
			}
			es.Fields = append(es.Fields, ef)

			if !ef.Qualifies {
				continue
			}
			qualifying++
			in.detailf("    - Qualified for: %s, earned %d points\n", f.Name, ef.PointsEarned)
			if ef.PointsEarned > best {
				best = ef.PointsEarned
			}
		}

		score += best
		if qualifying > 0 {
			fieldCount++
		}
		if best > 0 {
			in.detailf("    → Field group contributed %d points\n", best)
		} else {
			in.detailf("    → No qualifying fields in this group\n")
		}
	}

	if score > es.MaxPossibleScore {
		in.detailf("  SUBCATEGORY CAP APPLIED: Score reduced from %d to %d\n", score, es.MaxPossibleScore)
		score = es.MaxPossibleScore
	}

	es.UserScore = score
	es.FieldCount = fieldCount
	es.UpdatedAt = time.Now().UTC()
	if err := e.evaluations.UpdateSubcategory(ctx, es); err != nil {
		return nil, err
	}

	in.detailf("  Final subcategory score: %d out of %d points\n", score, es.MaxPossibleScore)
	return es, nil
}

// processField evaluates one field expression and persists the decision.
// Parse failures are contained: the field does not qualify and the failure is
// recorded in the report and in metrics.
func (e *Engine) processField(ctx context.Context, eval *evaluation.Evaluation, es *evaluation.Subcategory, f *grid.Field, vars expr.Variables, hasSpouse bool, in *insights) (*evaluation.Field, error) {
	qualifies := false
	actualValue := ""

	if expression := strings.TrimSpace(f.Expression); expression != "" {
		parsed, err := expr.Parse(expression)
		if err != nil {
			e.logger.Error("field expression failed to parse",
				"field", f.Name,
				"expression", f.Expression,
				"error", err,
			)
			in.detailf("    Error evaluating field '%s': %v\n", f.Name, err)
			e.metrics.RecordExpressionFailure()
		} else {
			actualValue = actualValues(parsed, vars)
			result := expr.EvaluateExpr(parsed, vars, f.CombineOperator)
			qualifies = result.Value
			e.logger.Debug("field evaluated",
				"field", f.Name,
				"qualifies", qualifies,
				"explanation", result.Explanation,
			)
		}
	}

	points := 0
	if qualifies {
		points = f.Points(hasSpouse)
	}

	now := time.Now().UTC()
	ef := &evaluation.Field{
		ID:                uuid.New(),
		SubcategoryEvalID: es.ID,
		FieldID:           f.ID,
		ApplicationID:     eval.ApplicationID,
		FieldName:         f.Name,
		Expression:        f.Expression,
		Qualifies:         qualifies,
		PointsEarned:      points,
		ActualValue:       actualValue,
		EvaluatedAt:       now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := e.evaluations.CreateField(ctx, ef); err != nil {
		return nil, err
	}

	e.metrics.RecordFieldEvaluation(qualifies)
	return ef, nil
}

// actualValues renders the left-hand variable values an expression was
// decided on, for the audit trail. A missing variable renders as "null" and
// an empty string as "EMPTY"; values are joined with "; ".
func actualValues(parsed *expr.Expr, vars expr.Variables) string {
	var parts []string
	for _, chain := range parsed.Alternatives {
		for _, clause := range chain.Clauses {
			var operand expr.Operand
			switch c := clause.(type) {
			case *expr.Comparison:
				operand = c.Left
			case *expr.Membership:
				operand = c.Left
			case *expr.Truthy:
				operand = c.Operand
			}
			if operand.Kind != expr.OperandVariable {
				continue
			}

			v, ok := vars[operand.Name]
			switch {
			case !ok || v == nil:
				parts = append(parts, "null")
			case v == "":
				parts = append(parts, "EMPTY")
			default:
				parts = append(parts, fmt.Sprintf("%v", v))
			}
		}
	}
	return strings.Join(parts, "; ")
}
