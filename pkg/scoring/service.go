package scoring

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"immimate-hq/polaris/pkg/evaluation"
)

// Service is the call surface for creating and reading evaluations. Reads go
// straight to the evaluation store; creation delegates to the engine.
type Service struct {
	engine *Engine
	store  evaluation.Store
	logger *slog.Logger
}

// NewService creates the evaluation service.
func NewService(engine *Engine, store evaluation.Store) (*Service, error) {
	if engine == nil {
		return nil, errors.New("scoring: engine is required")
	}
	if store == nil {
		return nil, errors.New("scoring: evaluation store is required")
	}
	return &Service{
		engine: engine,
		store:  store,
		logger: slog.Default().With("component", "scoring"),
	}, nil
}

// CreateEvaluation runs a new evaluation of an application against the named
// grid and returns the persisted result tree.
func (s *Service) CreateEvaluation(ctx context.Context, applicationID uuid.UUID, gridName string) (*evaluation.Evaluation, error) {
	return s.engine.Evaluate(ctx, applicationID, gridName)
}

// EvaluationByID returns one evaluation with its full result tree.
func (s *Service) EvaluationByID(ctx context.Context, id uuid.UUID) (*evaluation.Evaluation, error) {
	return s.store.FindByID(ctx, id)
}

// EvaluationsByApplication returns all evaluations for an application, newest
// first, without child trees.
func (s *Service) EvaluationsByApplication(ctx context.Context, applicationID uuid.UUID) ([]*evaluation.Evaluation, error) {
	return s.store.ListByApplication(ctx, applicationID)
}

// LatestEvaluation returns the newest evaluation for an application.
func (s *Service) LatestEvaluation(ctx context.Context, applicationID uuid.UUID) (*evaluation.Evaluation, error) {
	return s.store.LatestByApplication(ctx, applicationID)
}
