package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the evaluation database schema.
const Schema = `
-- Evaluation roots, one per scoring run
CREATE TABLE IF NOT EXISTS evaluations (
    id TEXT PRIMARY KEY,
    application_id TEXT NOT NULL,
    grid_id TEXT NOT NULL,
    grid_name TEXT NOT NULL,
    evaluated_at TIMESTAMP NOT NULL,
    total_score INTEGER NOT NULL,
    status TEXT NOT NULL,
    version INTEGER NOT NULL,
    notes TEXT,
    details TEXT,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS evaluation_categories (
    id TEXT PRIMARY KEY,
    evaluation_id TEXT NOT NULL REFERENCES evaluations(id) ON DELETE CASCADE,
    category_id TEXT NOT NULL,
    category_name TEXT NOT NULL,
    user_score INTEGER NOT NULL,
    max_possible_score INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS evaluation_subcategories (
    id TEXT PRIMARY KEY,
    category_eval_id TEXT NOT NULL REFERENCES evaluation_categories(id) ON DELETE CASCADE,
    subcategory_id TEXT NOT NULL,
    subcategory_name TEXT NOT NULL,
    user_score INTEGER NOT NULL,
    max_possible_score INTEGER NOT NULL,
    field_count INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS evaluation_fields (
    id TEXT PRIMARY KEY,
    subcategory_eval_id TEXT NOT NULL REFERENCES evaluation_subcategories(id) ON DELETE CASCADE,
    field_id TEXT NOT NULL,
    application_id TEXT NOT NULL,
    field_name TEXT NOT NULL,
    expression TEXT NOT NULL,
    qualifies INTEGER NOT NULL,
    points_earned INTEGER NOT NULL,
    actual_value TEXT,
    evaluated_at TIMESTAMP NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for the per-application read path and capping lookups
CREATE INDEX IF NOT EXISTS idx_evaluations_application_id ON evaluations(application_id);
CREATE INDEX IF NOT EXISTS idx_evaluations_created_at ON evaluations(created_at);
CREATE INDEX IF NOT EXISTS idx_evaluation_categories_evaluation_id ON evaluation_categories(evaluation_id);
CREATE INDEX IF NOT EXISTS idx_evaluation_subcategories_category_eval_id ON evaluation_subcategories(category_eval_id);
CREATE INDEX IF NOT EXISTS idx_evaluation_fields_subcategory_eval_id ON evaluation_fields(subcategory_eval_id);
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
