package catalog

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite connection backing the build-run catalog
type DB struct {
	*sql.DB
}

// New opens the catalog database
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &DB{db}, nil
}

// Migrate creates the catalog schema if missing
func (db *DB) Migrate() error {
	migration := `
-- One row per builder execution
CREATE TABLE IF NOT EXISTS build_runs (
    id TEXT PRIMARY KEY,
    dataset TEXT NOT NULL,
    source TEXT NOT NULL,
    raw_records INTEGER NOT NULL,
    dropped_records INTEGER NOT NULL,
    interactions INTEGER NOT NULL,
    users INTEGER NOT NULL,
    items INTEGER NOT NULL,
    duration_ms INTEGER NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_build_runs_dataset ON build_runs(dataset);
CREATE INDEX IF NOT EXISTS idx_build_runs_created_at ON build_runs(created_at);
`

	if _, err := db.Exec(migration); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
