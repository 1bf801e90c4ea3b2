// Package cache keeps a local SQLite index of reference ids already written
// to the ledger, so repeat slips are rejected without rescanning the
// spreadsheet.
package cache

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// Open opens the cache database and applies its schema.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		PRAGMA foreign_keys = ON;
		PRAGMA journal_mode = WAL;
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS seen_refs (
		ref_id TEXT PRIMARY KEY,
		sheet_row INTEGER NOT NULL,
		source_id TEXT,
		recorded_at TEXT NOT NULL DEFAULT (datetime('now'))
	);

	CREATE INDEX IF NOT EXISTS idx_seen_refs_source ON seen_refs(source_id);
	`

	_, err := db.Exec(schema)
	return err
}
