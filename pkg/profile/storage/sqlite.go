package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"immimate-hq/polaris/pkg/profile"
)

// Schema contains the SQL statements to create the profile database schema.
const Schema = `
CREATE TABLE IF NOT EXISTS profiles (
    application_id TEXT PRIMARY KEY,
    user_email TEXT,
    snapshot TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    last_modified_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_profiles_user_email ON profiles(user_email);
`

// SQLiteConfig contains configuration for the SQLite profile store.
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
		Path:        "data/profiles.db",
		BusyTimeout: 5 * time.Second,
	}
}

// SQLiteStore implements profile.Store using SQLite. Profile snapshots are
// persisted as JSON documents.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite profile store.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.BusyTimeout == 0 {
		config.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		config.Path, int(config.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, profile.NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, profile.NewStorageError("sqlite", "create_schema", err)
	}

	logger := slog.Default().With("component", "profile.storage.sqlite")
	logger.Info("SQLite profile store initialized", "path", config.Path)

	return &SQLiteStore{db: db, config: config, logger: logger}, nil
}

// FindByApplicationID returns the profile for an application.
func (s *SQLiteStore) FindByApplicationID(ctx context.Context, applicationID uuid.UUID) (*profile.Profile, error) {
	var snapshot string
	err := s.db.QueryRowContext(ctx,
		`SELECT snapshot FROM profiles WHERE application_id = ?`,
		applicationID.String(),
	).Scan(&snapshot)
	if err == sql.ErrNoRows {
		return nil, profile.NewNotFoundError(applicationID)
	}
	if err != nil {
		return nil, profile.NewStorageError("sqlite", "find", err)
	}

	var p profile.Profile
	if err := json.Unmarshal([]byte(snapshot), &p); err != nil {
		return nil, profile.NewStorageError("sqlite", "decode", err)
	}
	return &p, nil
}

// Save inserts or replaces a profile snapshot.
func (s *SQLiteStore) Save(ctx context.Context, p *profile.Profile) error {
	snapshot, err := json.Marshal(p)
	if err != nil {
		return profile.NewStorageError("sqlite", "encode", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profiles (application_id, user_email, snapshot, created_at, last_modified_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(application_id) DO UPDATE SET
		    user_email = excluded.user_email,
		    snapshot = excluded.snapshot,
		    last_modified_at = excluded.last_modified_at
	`, p.ApplicationID.String(), p.UserEmail, string(snapshot), p.CreatedAt, p.LastModifiedAt)
	if err != nil {
		return profile.NewStorageError("sqlite", "save", err)
	}
	return nil
}

// Close releases resources held by the store.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return profile.NewStorageError("sqlite", "close", err)
	}
	return nil
}
