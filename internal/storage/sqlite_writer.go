package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/mvp-joe/restuml2code/internal/model"
)

// Element kinds stored in the elements table.
const (
	ElementFunction      = "function"
	ElementType          = "type"
	ElementMacroConstant = "macro-constants"
	ElementMacroFunction = "macro-function"
	ElementVariable      = "variables"
)

// Document is a source document recorded with a run.
type Document struct {
	Path string
	Hash string
}

// SQLiteWriter exports extraction runs into a SQLite database.
type SQLiteWriter struct {
	db     *sql.DB
	ownsDB bool
	now    func() time.Time
}

// OpenSQLiteWriter opens (creating if needed) the database at path and ensures the schema.
func OpenSQLiteWriter(path string) (*SQLiteWriter, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteWriter{db: db, ownsDB: true, now: time.Now}, nil
}

// NewSQLiteWriterWithDB creates a writer on an existing connection whose schema
// was created with CreateSchema. The caller owns the connection.
func NewSQLiteWriterWithDB(db *sql.DB) *SQLiteWriter {
	return &SQLiteWriter{db: db, now: time.Now}
}

// Close closes the database if the writer opened it.
func (w *SQLiteWriter) Close() error {
	if !w.ownsDB {
		return nil
	}
	return w.db.Close()
}

// WriteRun stores the registry as a new run for source, together with the
// documents it was extracted from, and returns the run ID.
func (w *SQLiteWriter) WriteRun(source string, reg *model.Registry, docs ...Document) (string, error) {
	runID := uuid.New().String()

	tx, err := w.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	_, err = sq.Insert("runs").
		Columns("run_id", "source", "created_at").
		Values(runID, source, w.now().UTC().Format(time.RFC3339)).
		RunWith(tx).
		Exec()
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	for i, d := range docs {
		_, err := sq.Insert("documents").
			Columns("run_id", "path", "hash", "position").
			Values(runID, d.Path, d.Hash, i).
			RunWith(tx).
			Exec()
		if err != nil {
			return "", fmt.Errorf("failed to insert document %s: %w", d.Path, err)
		}
	}

	for _, h := range reg.Headers() {
		if err := writeHeader(tx, runID, h); err != nil {
			return "", fmt.Errorf("failed to write header %s: %w", h.FileName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return runID, nil
}

func writeHeader(tx *sql.Tx, runID string, h *model.HeaderRecord) error {
	globals, err := json.Marshal(h.Globals)
	if err != nil {
		return err
	}
	_, err = sq.Insert("headers").
		Columns("run_id", "name", "description", "generated", "globals").
		Values(runID, h.FileName, h.Description, boolToInt(h.Generated), string(globals)).
		RunWith(tx).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to insert header: %w", err)
	}

	for i, target := range h.Includes {
		_, err := sq.Insert("includes").
			Columns("run_id", "header", "target", "position").
			Values(runID, h.FileName, target, i).
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("failed to insert include %s: %w", target, err)
		}
	}

	return writeElements(tx, runID, h)
}

type elementRow struct {
	kind    string
	name    string
	private bool
	payload any
}

func writeElements(tx *sql.Tx, runID string, h *model.HeaderRecord) error {
	var rows []elementRow
	for _, f := range h.Functions {
		rows = append(rows, elementRow{ElementFunction, f.Name, f.Private, f})
	}
	for _, t := range h.Types {
		rows = append(rows, elementRow{ElementType, t.Name, t.Private, t})
	}
	for _, c := range h.MacroConstants {
		rows = append(rows, elementRow{ElementMacroConstant, c.Group, c.Private, c})
	}
	for _, m := range h.MacroFunctions {
		rows = append(rows, elementRow{ElementMacroFunction, m.Name, m.Private, m})
	}
	for _, v := range h.Variables {
		rows = append(rows, elementRow{ElementVariable, v.Group, v.Private, v})
	}

	for i, r := range rows {
		payload, err := json.Marshal(r.payload)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s: %w", r.kind, r.name, err)
		}
		_, err = sq.Insert("elements").
			Columns("run_id", "header", "kind", "name", "private", "position", "payload").
			Values(runID, h.FileName, r.kind, r.name, boolToInt(r.private), i, string(payload)).
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("failed to insert %s %s: %w", r.kind, r.name, err)
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
