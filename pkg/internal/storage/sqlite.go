// Package storage keeps the discovered job inventory in a local SQLite
// database, so the build collector works from a stable list instead of
// walking the controller on every scrape.
package storage

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite" // SQLite driver
)

// NewSQLite opens the SQLite database at the given path and prepares the
// schema. SQLite wants a single writing connection.
func NewSQLite(path string, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)

	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("failed to set %s: %w", pragma, err)
		}
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Debug("database initialized",
		"path", path,
	)

	return db, nil
}

func createTables(db *sql.DB) error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			full_name       TEXT PRIMARY KEY,
			class           TEXT NOT NULL DEFAULT '',
			enabled         INTEGER NOT NULL DEFAULT 1,
			last_seen_build INTEGER NOT NULL DEFAULT 0,
			last_sync_time  INTEGER,
			created_at      INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS job_changes (
			full_name  TEXT,
			action     TEXT,
			event_time INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_enabled ON jobs(enabled)`,
		`CREATE INDEX IF NOT EXISTS idx_job_changes_time ON job_changes(event_time)`,
	}

	for _, table := range tables {
		if _, err := db.Exec(table); err != nil {
			return err
		}
	}

	return nil
}
