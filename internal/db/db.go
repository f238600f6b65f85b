// Package db provides the SQLite connection and schema for bridge snapshots.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQLite database connection
type DB struct {
	*sql.DB
}

// Open opens the database and initializes the schema
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &DB{db}, nil
}

// initSchema creates all required tables
func initSchema(db *sql.DB) error {
	// One row per captured bridge state
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshot (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL,
			bridge TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_snapshot_created ON snapshot(created_at);
	`)
	if err != nil {
		return fmt.Errorf("failed to create snapshot table: %w", err)
	}

	// Persisted entity documents; entity_id is empty for bridge-wide resources
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshot_entity (
			snapshot_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			type TEXT NOT NULL,
			payload TEXT NOT NULL,
			PRIMARY KEY (snapshot_id, kind, entity_id)
		);
		CREATE INDEX IF NOT EXISTS idx_snapshot_entity_type ON snapshot_entity(snapshot_id, type);
	`)
	if err != nil {
		return fmt.Errorf("failed to create snapshot_entity table: %w", err)
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
