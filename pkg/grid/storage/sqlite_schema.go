package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the grid database schema.
const Schema = `
-- Grid rulesets
CREATE TABLE IF NOT EXISTS grids (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    version TEXT NOT NULL,
    coverage TEXT,
    max_total_score INTEGER NOT NULL,
    effective_date TIMESTAMP NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    UNIQUE(name, version)
);

CREATE TABLE IF NOT EXISTS grid_categories (
    id TEXT PRIMARY KEY,
    grid_id TEXT NOT NULL REFERENCES grids(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    description TEXT,
    max_score_spouse INTEGER NOT NULL,
    max_score_no_spouse INTEGER NOT NULL,
    sort_order INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS grid_subcategories (
    id TEXT PRIMARY KEY,
    category_id TEXT NOT NULL REFERENCES grid_categories(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    description TEXT,
    max_score_spouse INTEGER NOT NULL,
    max_score_no_spouse INTEGER NOT NULL,
    sort_order INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS grid_fields (
    id TEXT PRIMARY KEY,
    subcategory_id TEXT NOT NULL REFERENCES grid_subcategories(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    description TEXT,
    expression TEXT NOT NULL,
    combine_operator TEXT,
    points_spouse INTEGER NOT NULL,
    points_no_spouse INTEGER NOT NULL,
    sort_order INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for the evaluation read path
CREATE INDEX IF NOT EXISTS idx_grids_name ON grids(name);
CREATE INDEX IF NOT EXISTS idx_grid_categories_grid_id ON grid_categories(grid_id);
CREATE INDEX IF NOT EXISTS idx_grid_subcategories_category_id ON grid_subcategories(category_id);
CREATE INDEX IF NOT EXISTS idx_grid_fields_subcategory_id ON grid_fields(subcategory_id);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
