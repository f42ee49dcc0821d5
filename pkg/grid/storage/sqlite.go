package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"immimate-hq/polaris/pkg/grid"
)

// SQLiteConfig contains configuration for the SQLite grid store.
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
		Path:        "data/grids.db",
		BusyTimeout: 5 * time.Second,
	}
}

// SQLiteStore implements grid.Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite grid store. It opens the database in
// WAL mode and initializes the schema.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.BusyTimeout == 0 {
		config.BusyTimeout = 5 * time.Second
	}

	logger := slog.Default().With("component", "grid.storage.sqlite")

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		config.Path, int(config.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, grid.NewStorageError("sqlite", "open", err)
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

	logger.Info("SQLite grid store initialized", "path", config.Path)

	return s, nil
}

// initialize sets up the database schema.
func (s *SQLiteStore) initialize() error {
	if _, err := s.db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		return grid.NewStorageError("sqlite", "enable_foreign_keys", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return grid.NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return grid.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return grid.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return grid.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// FindGridByName returns the most recently effective grid with the given name.
func (s *SQLiteStore) FindGridByName(ctx context.Context, name string) (*grid.Grid, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, version, coverage, max_total_score, effective_date, created_at, updated_at
		FROM grids WHERE name = ?
		ORDER BY effective_date DESC, created_at DESC LIMIT 1
	`, name)

	g, err := scanGrid(row)
	if err == sql.ErrNoRows {
		return nil, grid.NewNotFoundError(name)
	}
	if err != nil {
		return nil, grid.NewStorageError("sqlite", "find_grid", err)
	}
	return g, nil
}

// ListGrids returns all grids, newest first.
func (s *SQLiteStore) ListGrids(ctx context.Context) ([]*grid.Grid, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, version, coverage, max_total_score, effective_date, created_at, updated_at
		FROM grids ORDER BY effective_date DESC, created_at DESC
	`)
	if err != nil {
		return nil, grid.NewStorageError("sqlite", "list_grids", err)
	}
	defer rows.Close()

	grids := []*grid.Grid{}
	for rows.Next() {
		g, err := scanGrid(rows)
		if err != nil {
			return nil, grid.NewStorageError("sqlite", "scan", err)
		}
		grids = append(grids, g)
	}
	if err := rows.Err(); err != nil {
		return nil, grid.NewStorageError("sqlite", "list_grids", err)
	}
	return grids, nil
}

// ListCategories returns the categories of a grid in declared order.
func (s *SQLiteStore) ListCategories(ctx context.Context, gridID uuid.UUID) ([]*grid.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, grid_id, name, description, max_score_spouse, max_score_no_spouse, sort_order, created_at
		FROM grid_categories WHERE grid_id = ? ORDER BY sort_order
	`, gridID.String())
	if err != nil {
		return nil, grid.NewStorageError("sqlite", "list_categories", err)
	}
	defer rows.Close()

	categories := []*grid.Category{}
	for rows.Next() {
		var c grid.Category
		var id, parentID string
		var description sql.NullString
		if err := rows.Scan(&id, &parentID, &c.Name, &description,
			&c.MaxScoreSpouse, &c.MaxScoreNoSpouse, &c.SortOrder, &c.CreatedAt); err != nil {
			return nil, grid.NewStorageError("sqlite", "scan", err)
		}
		if c.ID, err = uuid.Parse(id); err != nil {
			return nil, grid.NewStorageError("sqlite", "scan", err)
		}
		if c.GridID, err = uuid.Parse(parentID); err != nil {
			return nil, grid.NewStorageError("sqlite", "scan", err)
		}
		c.Description = description.String
		categories = append(categories, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, grid.NewStorageError("sqlite", "list_categories", err)
	}
	return categories, nil
}

// ListSubcategories returns the subcategories of a category in declared order.
func (s *SQLiteStore) ListSubcategories(ctx context.Context, categoryID uuid.UUID) ([]*grid.Subcategory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category_id, name, description, max_score_spouse, max_score_no_spouse, sort_order, created_at
		FROM grid_subcategories WHERE category_id = ? ORDER BY sort_order
	`, categoryID.String())
	if err != nil {
		return nil, grid.NewStorageError("sqlite", "list_subcategories", err)
	}
	defer rows.Close()

	subcategories := []*grid.Subcategory{}
	for rows.Next() {
		var sc grid.Subcategory
		var id, parentID string
		var description sql.NullString
		if err := rows.Scan(&id, &parentID, &sc.Name, &description,
			&sc.MaxScoreSpouse, &sc.MaxScoreNoSpouse, &sc.SortOrder, &sc.CreatedAt); err != nil {
			return nil, grid.NewStorageError("sqlite", "scan", err)
		}
		if sc.ID, err = uuid.Parse(id); err != nil {
			return nil, grid.NewStorageError("sqlite", "scan", err)
		}
		if sc.CategoryID, err = uuid.Parse(parentID); err != nil {
			return nil, grid.NewStorageError("sqlite", "scan", err)
		}
		sc.Description = description.String
		subcategories = append(subcategories, &sc)
	}
	if err := rows.Err(); err != nil {
		return nil, grid.NewStorageError("sqlite", "list_subcategories", err)
	}
	return subcategories, nil
}

// ListFields returns the fields of a subcategory in declared order.
func (s *SQLiteStore) ListFields(ctx context.Context, subcategoryID uuid.UUID) ([]*grid.Field, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, subcategory_id, name, description, expression, combine_operator,
		       points_spouse, points_no_spouse, sort_order, created_at
		FROM grid_fields WHERE subcategory_id = ? ORDER BY sort_order
	`, subcategoryID.String())
	if err != nil {
		return nil, grid.NewStorageError("sqlite", "list_fields", err)
	}
	defer rows.Close()

	fields := []*grid.Field{}
	for rows.Next() {
		var f grid.Field
		var id, parentID string
		var description, combineOperator sql.NullString
		if err := rows.Scan(&id, &parentID, &f.Name, &description, &f.Expression, &combineOperator,
			&f.PointsSpouse, &f.PointsNoSpouse, &f.SortOrder, &f.CreatedAt); err != nil {
			return nil, grid.NewStorageError("sqlite", "scan", err)
		}
		if f.ID, err = uuid.Parse(id); err != nil {
			return nil, grid.NewStorageError("sqlite", "scan", err)
		}
		if f.SubcategoryID, err = uuid.Parse(parentID); err != nil {
			return nil, grid.NewStorageError("sqlite", "scan", err)
		}
		f.Description = description.String
		f.CombineOperator = combineOperator.String
		fields = append(fields, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, grid.NewStorageError("sqlite", "list_fields", err)
	}
	return fields, nil
}

// ImportGrid atomically stores a full grid tree, replacing any existing grid
// with the same name and version.
func (s *SQLiteStore) ImportGrid(ctx context.Context, def *grid.Definition) (*grid.Grid, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, grid.NewStorageError("sqlite", "import_begin", err)
	}
	defer tx.Rollback()

	// Replace an existing grid with the same name+version. Cascading deletes
	// remove its categories, subcategories, and fields.
	if _, err := tx.ExecContext(ctx, `DELETE FROM grids WHERE name = ? AND version = ?`,
		def.Grid.Name, def.Grid.Version); err != nil {
		return nil, grid.NewStorageError("sqlite", "import_replace", err)
	}

	g := def.Grid
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO grids (id, name, version, coverage, max_total_score, effective_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, g.ID.String(), g.Name, g.Version, g.Coverage, g.MaxTotalScore,
		g.EffectiveDate, g.CreatedAt, g.UpdatedAt); err != nil {
		return nil, grid.NewStorageError("sqlite", "import_grid", err)
	}

	for _, cd := range def.Categories {
		c := cd.Category
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO grid_categories (id, grid_id, name, description, max_score_spouse, max_score_no_spouse, sort_order, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, c.ID.String(), c.GridID.String(), c.Name, c.Description,
			c.MaxScoreSpouse, c.MaxScoreNoSpouse, c.SortOrder, c.CreatedAt); err != nil {
			return nil, grid.NewStorageError("sqlite", "import_category", err)
		}

		for _, sd := range cd.Subcategories {
			sc := sd.Subcategory
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO grid_subcategories (id, category_id, name, description, max_score_spouse, max_score_no_spouse, sort_order, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, sc.ID.String(), sc.CategoryID.String(), sc.Name, sc.Description,
				sc.MaxScoreSpouse, sc.MaxScoreNoSpouse, sc.SortOrder, sc.CreatedAt); err != nil {
				return nil, grid.NewStorageError("sqlite", "import_subcategory", err)
			}

			for _, f := range sd.Fields {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO grid_fields (id, subcategory_id, name, description, expression, combine_operator,
					                         points_spouse, points_no_spouse, sort_order, created_at)
					VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				`, f.ID.String(), f.SubcategoryID.String(), f.Name, f.Description, f.Expression, f.CombineOperator,
					f.PointsSpouse, f.PointsNoSpouse, f.SortOrder, f.CreatedAt); err != nil {
					return nil, grid.NewStorageError("sqlite", "import_field", err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, grid.NewStorageError("sqlite", "import_commit", err)
	}

	s.logger.Info("grid imported",
		"grid", g.Name,
		"version", g.Version,
		"categories", len(def.Categories),
	)

	imported := g
	return &imported, nil
}

// Close releases resources held by the store.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return grid.NewStorageError("sqlite", "close", err)
	}
	return nil
}

// rowScanner abstracts sql.Row and sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanGrid scans a grid row.
func scanGrid(row rowScanner) (*grid.Grid, error) {
	var g grid.Grid
	var id string
	var coverage sql.NullString
	err := row.Scan(&id, &g.Name, &g.Version, &coverage, &g.MaxTotalScore,
		&g.EffectiveDate, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if g.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	g.Coverage = coverage.String
	return &g, nil
}
