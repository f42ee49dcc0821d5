package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// ApplicationIDKey is the context key for application identifiers.
	ApplicationIDKey contextKey = "application_id"

	// EvaluationIDKey is the context key for evaluation identifiers.
	EvaluationIDKey contextKey = "evaluation_id"

	// GridKey is the context key for grid names.
	GridKey contextKey = "grid"
)

// WithApplicationID adds an application ID to the context.
func WithApplicationID(ctx context.Context, applicationID string) context.Context {
	return context.WithValue(ctx, ApplicationIDKey, applicationID)
}

// GetApplicationID retrieves the application ID from the context.
func GetApplicationID(ctx context.Context) string {
	if applicationID, ok := ctx.Value(ApplicationIDKey).(string); ok {
		return applicationID
	}
	return ""
}

// WithEvaluationID adds an evaluation ID to the context.
func WithEvaluationID(ctx context.Context, evaluationID string) context.Context {
	return context.WithValue(ctx, EvaluationIDKey, evaluationID)
}

// GetEvaluationID retrieves the evaluation ID from the context.
func GetEvaluationID(ctx context.Context) string {
	if evaluationID, ok := ctx.Value(EvaluationIDKey).(string); ok {
		return evaluationID
	}
	return ""
}

// WithGrid adds a grid name to the context.
func WithGrid(ctx context.Context, grid string) context.Context {
	return context.WithValue(ctx, GridKey, grid)
}

// GetGrid retrieves the grid name from the context.
func GetGrid(ctx context.Context) string {
	if grid, ok := ctx.Value(GridKey).(string); ok {
		return grid
	}
	return ""
}

// extractContextFields extracts common fields from context for logging.
// Returns a slice of key-value pairs suitable for logger.With().
func extractContextFields(ctx context.Context) []any {
	var fields []any

	if applicationID := GetApplicationID(ctx); applicationID != "" {
		fields = append(fields, "application_id", applicationID)
	}
	if evaluationID := GetEvaluationID(ctx); evaluationID != "" {
		fields = append(fields, "evaluation_id", evaluationID)
	}
	if grid := GetGrid(ctx); grid != "" {
		fields = append(fields, "grid", grid)
	}

	return fields
}
