package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"immimate-hq/polaris/pkg/evaluation"
)

// SQLiteConfig contains configuration for the SQLite evaluation store.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:        "data/evaluations.db",
		BusyTimeout: 5 * time.Second,
	}
}

// SQLiteStore implements evaluation.Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite evaluation store. It opens the database
// in WAL mode and initializes the schema.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.BusyTimeout == 0 {
		config.BusyTimeout = 5 * time.Second
	}

	logger := slog.Default().With("component", "evaluation.storage.sqlite")

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		config.Path, int(config.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, evaluation.NewStorageError("sqlite", "open", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLiteStore{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite evaluation store initialized", "path", config.Path)

	return s, nil
}

// initialize sets up the database schema.
func (s *SQLiteStore) initialize() error {
	if _, err := s.db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		return evaluation.NewStorageError("sqlite", "enable_foreign_keys", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return evaluation.NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return evaluation.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return evaluation.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return evaluation.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// CreateEvaluation persists a new evaluation shell.
func (s *SQLiteStore) CreateEvaluation(ctx context.Context, e *evaluation.Evaluation) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO evaluations (id, application_id, grid_id, grid_name, evaluated_at,
		                         total_score, status, version, notes, details, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID.String(), e.ApplicationID.String(), e.GridID.String(), e.GridName, e.EvaluatedAt,
		e.TotalScore, e.Status, e.Version, e.Notes, e.Details, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return evaluation.NewStorageError("sqlite", "create_evaluation", err)
	}
	return nil
}

// UpdateEvaluation persists the final total score, status, and insights.
func (s *SQLiteStore) UpdateEvaluation(ctx context.Context, e *evaluation.Evaluation) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE evaluations
		SET total_score = ?, status = ?, version = ?, notes = ?, details = ?, updated_at = ?
		WHERE id = ?
	`, e.TotalScore, e.Status, e.Version, e.Notes, e.Details, e.UpdatedAt, e.ID.String())
	if err != nil {
		return evaluation.NewStorageError("sqlite", "update_evaluation", err)
	}
	return nil
}

// CreateCategory persists one category result.
func (s *SQLiteStore) CreateCategory(ctx context.Context, c *evaluation.Category) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO evaluation_categories (id, evaluation_id, category_id, category_name,
		                                   user_score, max_possible_score, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID.String(), c.EvaluationID.String(), c.CategoryID.String(), c.CategoryName,
		c.UserScore, c.MaxPossibleScore, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return evaluation.NewStorageError("sqlite", "create_category", err)
	}
	return nil
}

// UpdateCategory persists a category's final score.
func (s *SQLiteStore) UpdateCategory(ctx context.Context, c *evaluation.Category) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE evaluation_categories
		SET user_score = ?, updated_at = ?
		WHERE id = ?
	`, c.UserScore, c.UpdatedAt, c.ID.String())
	if err != nil {
		return evaluation.NewStorageError("sqlite", "update_category", err)
	}
	return nil
}

// CreateSubcategory persists one subcategory result.
func (s *SQLiteStore) CreateSubcategory(ctx context.Context, sc *evaluation.Subcategory) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO evaluation_subcategories (id, category_eval_id, subcategory_id, subcategory_name,
		                                      user_score, max_possible_score, field_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sc.ID.String(), sc.CategoryEvalID.String(), sc.SubcategoryID.String(), sc.SubcategoryName,
		sc.UserScore, sc.MaxPossibleScore, sc.FieldCount, sc.CreatedAt, sc.UpdatedAt)
	if err != nil {
		return evaluation.NewStorageError("sqlite", "create_subcategory", err)
	}
	return nil
}

// UpdateSubcategory persists a subcategory's adjusted score.
func (s *SQLiteStore) UpdateSubcategory(ctx context.Context, sc *evaluation.Subcategory) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE evaluation_subcategories
		SET user_score = ?, updated_at = ?
		WHERE id = ?
	`, sc.UserScore, sc.UpdatedAt, sc.ID.String())
	if err != nil {
		return evaluation.NewStorageError("sqlite", "update_subcategory", err)
	}
	return nil
}

// CreateField persists one field result.
func (s *SQLiteStore) CreateField(ctx context.Context, f *evaluation.Field) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO evaluation_fields (id, subcategory_eval_id, field_id, application_id, field_name,
		                               expression, qualifies, points_earned, actual_value,
		                               evaluated_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, f.ID.String(), f.SubcategoryEvalID.String(), f.FieldID.String(), f.ApplicationID.String(),
		f.FieldName, f.Expression, f.Qualifies, f.PointsEarned, f.ActualValue,
		f.EvaluatedAt, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return evaluation.NewStorageError("sqlite", "create_field", err)
	}
	return nil
}

// FindByID returns one evaluation with its full result tree.
func (s *SQLiteStore) FindByID(ctx context.Context, id uuid.UUID) (*evaluation.Evaluation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, application_id, grid_id, grid_name, evaluated_at,
		       total_score, status, version, notes, details, created_at, updated_at
		FROM evaluations WHERE id = ?
	`, id.String())

	e, err := scanEvaluation(row)
	if err == sql.ErrNoRows {
		return nil, evaluation.NewNotFoundError(id)
	}
	if err != nil {
		return nil, evaluation.NewStorageError("sqlite", "find_evaluation", err)
	}

	categories, err := s.ListCategories(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		subcategories, err := s.ListSubcategories(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		for _, sc := range subcategories {
			fields, err := s.listFields(ctx, sc.ID)
			if err != nil {
				return nil, err
			}
			sc.Fields = fields
		}
		c.Subcategories = subcategories
	}
	e.Categories = categories

	return e, nil
}

// ListByApplication returns all evaluations for an application, newest first.
func (s *SQLiteStore) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*evaluation.Evaluation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, application_id, grid_id, grid_name, evaluated_at,
		       total_score, status, version, notes, details, created_at, updated_at
		FROM evaluations WHERE application_id = ?
		ORDER BY created_at DESC
	`, applicationID.String())
	if err != nil {
		return nil, evaluation.NewStorageError("sqlite", "list_by_application", err)
	}
	defer rows.Close()

	return collectEvaluations(rows, "list_by_application")
}

// LatestByApplication returns the newest evaluation for an application.
func (s *SQLiteStore) LatestByApplication(ctx context.Context, applicationID uuid.UUID) (*evaluation.Evaluation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, application_id, grid_id, grid_name, evaluated_at,
		       total_score, status, version, notes, details, created_at, updated_at
		FROM evaluations WHERE application_id = ?
		ORDER BY created_at DESC LIMIT 1
	`, applicationID.String())

	e, err := scanEvaluation(row)
	if err == sql.ErrNoRows {
		return nil, evaluation.NewNotFoundError(applicationID)
	}
	if err != nil {
		return nil, evaluation.NewStorageError("sqlite", "latest_by_application", err)
	}
	return e, nil
}

// ListCategories returns the category results of an evaluation.
func (s *SQLiteStore) ListCategories(ctx context.Context, evaluationID uuid.UUID) ([]*evaluation.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, evaluation_id, category_id, category_name,
		       user_score, max_possible_score, created_at, updated_at
		FROM evaluation_categories WHERE evaluation_id = ?
		ORDER BY created_at
	`, evaluationID.String())
	if err != nil {
		return nil, evaluation.NewStorageError("sqlite", "list_categories", err)
	}
	defer rows.Close()

	categories := []*evaluation.Category{}
	for rows.Next() {
		var c evaluation.Category
		var id, evalID, catID string
		if err := rows.Scan(&id, &evalID, &catID, &c.CategoryName,
			&c.UserScore, &c.MaxPossibleScore, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, evaluation.NewStorageError("sqlite", "scan", err)
		}
		if c.ID, err = uuid.Parse(id); err != nil {
			return nil, evaluation.NewStorageError("sqlite", "scan", err)
		}
		if c.EvaluationID, err = uuid.Parse(evalID); err != nil {
			return nil, evaluation.NewStorageError("sqlite", "scan", err)
		}
		if c.CategoryID, err = uuid.Parse(catID); err != nil {
			return nil, evaluation.NewStorageError("sqlite", "scan", err)
		}
		categories = append(categories, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, evaluation.NewStorageError("sqlite", "list_categories", err)
	}
	return categories, nil
}

// ListSubcategories returns the subcategory results of a category evaluation.
func (s *SQLiteStore) ListSubcategories(ctx context.Context, categoryEvalID uuid.UUID) ([]*evaluation.Subcategory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category_eval_id, subcategory_id, subcategory_name,
		       user_score, max_possible_score, field_count, created_at, updated_at
		FROM evaluation_subcategories WHERE category_eval_id = ?
		ORDER BY created_at
	`, categoryEvalID.String())
	if err != nil {
		return nil, evaluation.NewStorageError("sqlite", "list_subcategories", err)
	}
	defer rows.Close()

	subcategories := []*evaluation.Subcategory{}
	for rows.Next() {
		var sc evaluation.Subcategory
		var id, catEvalID, subID string
		if err := rows.Scan(&id, &catEvalID, &subID, &sc.SubcategoryName,
			&sc.UserScore, &sc.MaxPossibleScore, &sc.FieldCount, &sc.CreatedAt, &sc.UpdatedAt); err != nil {
			return nil, evaluation.NewStorageError("sqlite", "scan", err)
		}
		if sc.ID, err = uuid.Parse(id); err != nil {
			return nil, evaluation.NewStorageError("sqlite", "scan", err)
		}
		if sc.CategoryEvalID, err = uuid.Parse(catEvalID); err != nil {
			return nil, evaluation.NewStorageError("sqlite", "scan", err)
		}
		if sc.SubcategoryID, err = uuid.Parse(subID); err != nil {
			return nil, evaluation.NewStorageError("sqlite", "scan", err)
		}
		subcategories = append(subcategories, &sc)
	}
	if err := rows.Err(); err != nil {
		return nil, evaluation.NewStorageError("sqlite", "list_subcategories", err)
	}
	return subcategories, nil
}

// listFields returns the field results of a subcategory evaluation.
func (s *SQLiteStore) listFields(ctx context.Context, subcategoryEvalID uuid.UUID) ([]*evaluation.Field, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, subcategory_eval_id, field_id, application_id, field_name,
		       expression, qualifies, points_earned, actual_value,
		       evaluated_at, created_at, updated_at
		FROM evaluation_fields WHERE subcategory_eval_id = ?
		ORDER BY created_at
	`, subcategoryEvalID.String())
	if err != nil {
		return nil, evaluation.NewStorageError("sqlite", "list_fields", err)
	}
	defer rows.Close()

	fields := []*evaluation.Field{}
	for rows.Next() {
		var f evaluation.Field
		var id, subEvalID, fieldID, appID string
		var actualValue sql.NullString
		if err := rows.Scan(&id, &subEvalID, &fieldID, &appID, &f.FieldName,
			&f.Expression, &f.Qualifies, &f.PointsEarned, &actualValue,
			&f.EvaluatedAt, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, evaluation.NewStorageError("sqlite", "scan", err)
		}
		if f.ID, err = uuid.Parse(id); err != nil {
			return nil, evaluation.NewStorageError("sqlite", "scan", err)
		}
		if f.SubcategoryEvalID, err = uuid.Parse(subEvalID); err != nil {
			return nil, evaluation.NewStorageError("sqlite", "scan", err)
		}
		if f.FieldID, err = uuid.Parse(fieldID); err != nil {
			return nil, evaluation.NewStorageError("sqlite", "scan", err)
		}
		if f.ApplicationID, err = uuid.Parse(appID); err != nil {
			return nil, evaluation.NewStorageError("sqlite", "scan", err)
		}
		f.ActualValue = actualValue.String
		fields = append(fields, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, evaluation.NewStorageError("sqlite", "list_fields", err)
	}
	return fields, nil
}

// DeleteEvaluation removes an evaluation and its whole result tree.
func (s *SQLiteStore) DeleteEvaluation(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM evaluations WHERE id = ?`, id.String())
	if err != nil {
		return evaluation.NewStorageError("sqlite", "delete_evaluation", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return evaluation.NewStorageError("sqlite", "delete_evaluation", err)
	}
	if affected == 0 {
		return evaluation.NewNotFoundError(id)
	}
	return nil
}

// ListOlderThan returns evaluations created before the given cutoff.
func (s *SQLiteStore) ListOlderThan(ctx context.Context, cutoff time.Time) ([]*evaluation.Evaluation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, application_id, grid_id, grid_name, evaluated_at,
		       total_score, status, version, notes, details, created_at, updated_at
		FROM evaluations WHERE created_at < ?
		ORDER BY created_at
	`, cutoff)
	if err != nil {
		return nil, evaluation.NewStorageError("sqlite", "list_older_than", err)
	}
	defer rows.Close()

	return collectEvaluations(rows, "list_older_than")
}

// ListApplicationIDs returns the distinct application IDs with evaluations.
func (s *SQLiteStore) ListApplicationIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT application_id FROM evaluations ORDER BY application_id
	`)
	if err != nil {
		return nil, evaluation.NewStorageError("sqlite", "list_application_ids", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, evaluation.NewStorageError("sqlite", "scan", err)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, evaluation.NewStorageError("sqlite", "scan", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, evaluation.NewStorageError("sqlite", "list_application_ids", err)
	}
	return ids, nil
}

// Close releases resources held by the store.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return evaluation.NewStorageError("sqlite", "close", err)
	}
	return nil
}

// rowScanner abstracts sql.Row and sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanEvaluation scans an evaluation row.
func scanEvaluation(row rowScanner) (*evaluation.Evaluation, error) {
	var e evaluation.Evaluation
	var id, appID, gridID string
	var notes, details sql.NullString
	err := row.Scan(&id, &appID, &gridID, &e.GridName, &e.EvaluatedAt,
		&e.TotalScore, &e.Status, &e.Version, &notes, &details, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if e.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if e.ApplicationID, err = uuid.Parse(appID); err != nil {
		return nil, err
	}
	if e.GridID, err = uuid.Parse(gridID); err != nil {
		return nil, err
	}
	e.Notes = notes.String
	e.Details = details.String
	return &e, nil
}

// collectEvaluations drains a result set of evaluation rows.
func collectEvaluations(rows *sql.Rows, operation string) ([]*evaluation.Evaluation, error) {
	evaluations := []*evaluation.Evaluation{}
	for rows.Next() {
		e, err := scanEvaluation(rows)
		if err != nil {
			return nil, evaluation.NewStorageError("sqlite", "scan", err)
		}
		evaluations = append(evaluations, e)
	}
	if err := rows.Err(); err != nil {
		return nil, evaluation.NewStorageError("sqlite", operation, err)
	}
	return evaluations, nil
}
