package evaluation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the result-writer contract consumed by the scoring engine and the
// read accessors exposed to callers.
//
// The engine persists the evaluation shell first so child records can
// reference a stable parent ID, then creates category/subcategory/field
// records as it walks the grid, and finally updates the evaluation with the
// total score and insights. If the backend aborts mid-run the whole tree for
// that run must be discarded; DeleteEvaluation supports that and retention.
type Store interface {
	// CreateEvaluation persists a new evaluation shell.
	CreateEvaluation(ctx context.Context, e *Evaluation) error

	// UpdateEvaluation persists the final total score, status, and insights.
	UpdateEvaluation(ctx context.Context, e *Evaluation) error

	// CreateCategory persists one category result.
	CreateCategory(ctx context.Context, c *Category) error

	// UpdateCategory persists a category's final (post-capping) score.
	UpdateCategory(ctx context.Context, c *Category) error

	// CreateSubcategory persists one subcategory result.
	CreateSubcategory(ctx context.Context, s *Subcategory) error

	// UpdateSubcategory persists a subcategory's adjusted score.
	UpdateSubcategory(ctx context.Context, s *Subcategory) error

	// CreateField persists one field result.
	CreateField(ctx context.Context, f *Field) error

	// FindByID returns one evaluation with its full result tree, or a
	// *NotFoundError.
	FindByID(ctx context.Context, id uuid.UUID) (*Evaluation, error)

	// ListByApplication returns all evaluations for an application, newest
	// first, without child trees.
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*Evaluation, error)

	// LatestByApplication returns the newest evaluation for an application,
	// or a *NotFoundError.
	LatestByApplication(ctx context.Context, applicationID uuid.UUID) (*Evaluation, error)

	// ListCategories returns the category results of an evaluation.
	ListCategories(ctx context.Context, evaluationID uuid.UUID) ([]*Category, error)

	// ListSubcategories returns the subcategory results of a category
	// evaluation; used by the capping resolvers.
	ListSubcategories(ctx context.Context, categoryEvalID uuid.UUID) ([]*Subcategory, error)

	// DeleteEvaluation removes an evaluation and its whole result tree.
	DeleteEvaluation(ctx context.Context, id uuid.UUID) error

	// ListOlderThan returns evaluations created before the given cutoff,
	// without child trees; used by retention pruning.
	ListOlderThan(ctx context.Context, cutoff time.Time) ([]*Evaluation, error)

	// ListApplicationIDs returns the distinct application IDs that have at
	// least one evaluation; used by count-based retention pruning.
	ListApplicationIDs(ctx context.Context) ([]uuid.UUID, error)

	// Close releases resources held by the store.
	Close() error
}
