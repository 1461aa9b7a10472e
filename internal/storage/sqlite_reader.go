package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"github.com/mvp-joe/restuml2code/internal/model"
)

// ErrRunNotFound is returned when no stored run matches a lookup.
var ErrRunNotFound = errors.New("run not found")

// SQLiteReader loads extraction runs back from a SQLite export.
type SQLiteReader struct {
	db     *sql.DB
	ownsDB bool
}

// OpenSQLiteReader opens the database at path read-only.
func OpenSQLiteReader(path string) (*SQLiteReader, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &SQLiteReader{db: db, ownsDB: true}, nil
}

// NewSQLiteReaderWithDB creates a reader on an existing connection. The caller owns the connection.
func NewSQLiteReaderWithDB(db *sql.DB) *SQLiteReader {
	return &SQLiteReader{db: db}
}

// Close closes the database if the reader opened it.
func (r *SQLiteReader) Close() error {
	if !r.ownsDB {
		return nil
	}
	return r.db.Close()
}

// LatestRun returns the ID of the most recent run. An empty source matches any run.
func (r *SQLiteReader) LatestRun(source string) (string, error) {
	q := sq.Select("run_id").
		From("runs").
		OrderBy("created_at DESC", "rowid DESC").
		Limit(1)
	if source != "" {
		q = q.Where(sq.Eq{"source": source})
	}

	var runID string
	err := q.RunWith(r.db).QueryRow().Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrRunNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query runs: %w", err)
	}
	return runID, nil
}

// Documents returns the documents recorded with runID in extraction order.
func (r *SQLiteReader) Documents(runID string) ([]Document, error) {
	rows, err := sq.Select("path", "hash").
		From("documents").
		Where(sq.Eq{"run_id": runID}).
		OrderBy("position").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.Path, &d.Hash); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// ReadRun rebuilds the registry stored under runID.
func (r *SQLiteReader) ReadRun(runID string) (*model.Registry, error) {
	rows, err := sq.Select("name", "description", "generated", "globals").
		From("headers").
		Where(sq.Eq{"run_id": runID}).
		OrderBy("rowid").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query headers: %w", err)
	}
	defer rows.Close()

	reg := model.NewRegistry()
	for rows.Next() {
		var (
			name, description, globals string
			generated                  int
		)
		if err := rows.Scan(&name, &description, &generated, &globals); err != nil {
			return nil, fmt.Errorf("failed to scan header: %w", err)
		}
		h := reg.AddHeader(name)
		h.Description = description
		h.Generated = generated != 0
		if err := json.Unmarshal([]byte(globals), &h.Globals); err != nil {
			return nil, fmt.Errorf("failed to decode globals of %s: %w", name, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if reg.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	if err := r.readIncludes(runID, reg); err != nil {
		return nil, err
	}
	if err := r.readElements(runID, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func (r *SQLiteReader) readIncludes(runID string, reg *model.Registry) error {
	rows, err := sq.Select("header", "target").
		From("includes").
		Where(sq.Eq{"run_id": runID}).
		OrderBy("header", "position").
		RunWith(r.db).
		Query()
	if err != nil {
		return fmt.Errorf("failed to query includes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var header, target string
		if err := rows.Scan(&header, &target); err != nil {
			return fmt.Errorf("failed to scan include: %w", err)
		}
		reg.AddIncludes(header, target)
	}
	return rows.Err()
}

func (r *SQLiteReader) readElements(runID string, reg *model.Registry) error {
	rows, err := sq.Select("header", "kind", "payload").
		From("elements").
		Where(sq.Eq{"run_id": runID}).
		OrderBy("header", "position").
		RunWith(r.db).
		Query()
	if err != nil {
		return fmt.Errorf("failed to query elements: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var header, kind, payload string
		if err := rows.Scan(&header, &kind, &payload); err != nil {
			return fmt.Errorf("failed to scan element: %w", err)
		}
		if err := decodeElement(reg.AddHeader(header), kind, []byte(payload)); err != nil {
			return fmt.Errorf("failed to decode %s in %s: %w", kind, header, err)
		}
	}
	return rows.Err()
}

func decodeElement(h *model.HeaderRecord, kind string, payload []byte) error {
	switch kind {
	case ElementFunction:
		var f model.FunctionRecord
		if err := json.Unmarshal(payload, &f); err != nil {
			return err
		}
		h.Functions = append(h.Functions, f)
	case ElementType:
		var t model.TypeRecord
		if err := json.Unmarshal(payload, &t); err != nil {
			return err
		}
		h.Types = append(h.Types, t)
	case ElementMacroConstant:
		var c model.MacroConstantGroup
		if err := json.Unmarshal(payload, &c); err != nil {
			return err
		}
		h.MacroConstants = append(h.MacroConstants, c)
	case ElementMacroFunction:
		var m model.MacroFunctionRecord
		if err := json.Unmarshal(payload, &m); err != nil {
			return err
		}
		h.MacroFunctions = append(h.MacroFunctions, m)
	case ElementVariable:
		var v model.VariableGroup
		if err := json.Unmarshal(payload, &v); err != nil {
			return err
		}
		h.Variables = append(h.Variables, v)
	default:
		return fmt.Errorf("unknown element kind %q", kind)
	}
	return nil
}
