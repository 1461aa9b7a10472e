package storage

import (
	"database/sql"
	"fmt"
)

const createRunsTable = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	source      TEXT NOT NULL,
	created_at  TEXT NOT NULL
)`

const createDocumentsTable = `
CREATE TABLE IF NOT EXISTS documents (
	run_id   TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
	path     TEXT NOT NULL,
	hash     TEXT NOT NULL,
	position INTEGER NOT NULL,
	PRIMARY KEY (run_id, path)
)`

const createHeadersTable = `
CREATE TABLE IF NOT EXISTS headers (
	run_id      TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
	name        TEXT NOT NULL,
	description TEXT NOT NULL,
	generated   INTEGER NOT NULL,
	globals     TEXT NOT NULL,
	PRIMARY KEY (run_id, name)
)`

const createElementsTable = `
CREATE TABLE IF NOT EXISTS elements (
	run_id   TEXT NOT NULL,
	header   TEXT NOT NULL,
	kind     TEXT NOT NULL,
	name     TEXT NOT NULL,
	private  INTEGER NOT NULL,
	position INTEGER NOT NULL,
	payload  TEXT NOT NULL,
	FOREIGN KEY (run_id, header) REFERENCES headers(run_id, name) ON DELETE CASCADE
)`

const createIncludesTable = `
CREATE TABLE IF NOT EXISTS includes (
	run_id   TEXT NOT NULL,
	header   TEXT NOT NULL,
	target   TEXT NOT NULL,
	position INTEGER NOT NULL,
	FOREIGN KEY (run_id, header) REFERENCES headers(run_id, name) ON DELETE CASCADE
)`

// CreateSchema creates the export tables if they do not exist.
func CreateSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	tables := []struct {
		name string
		ddl  string
	}{
		{"runs", createRunsTable},
		{"documents", createDocumentsTable},
		{"headers", createHeadersTable},
		{"elements", createElementsTable},
		{"includes", createIncludesTable},
	}
	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_elements_header ON elements(run_id, header)",
		"CREATE INDEX IF NOT EXISTS idx_includes_header ON includes(run_id, header)",
	}
	for i, idx := range indexes {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}
	return nil
}
