// Package storage persists an extracted model: one JSON document per header,
// a combined JSON document, or a SQLite database.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mvp-joe/restuml2code/internal/model"
)

// ErrHeaderPath indicates a header name that cannot be used as a path below the output directory.
var ErrHeaderPath = errors.New("header name is not a relative path")

// JSONWriter writes header records as JSON.
type JSONWriter struct {
	indent string
}

// NewJSONWriter creates a writer indenting nested values by indent spaces.
func NewJSONWriter(indent int) *JSONWriter {
	return &JSONWriter{indent: strings.Repeat(" ", indent)}
}

// WriteCombined writes every header as one object keyed by header name.
func (w *JSONWriter) WriteCombined(out io.Writer, reg *model.Registry) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", w.indent)
	if err := enc.Encode(reg.Map()); err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	return nil
}

// WriteDir writes one <header>.json file per header into dir and returns the paths written.
// A header named with a directory ("drv/timer.h") keeps that directory below dir.
// Files are written to a temporary name and renamed so readers never see partial output.
func (w *JSONWriter) WriteDir(dir string, reg *model.Registry) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string
	for _, h := range reg.Headers() {
		data, err := w.marshal(h)
		if err != nil {
			return written, fmt.Errorf("failed to encode %s: %w", h.FileName, err)
		}

		path, err := headerPath(dir, h.FileName)
		if err != nil {
			return written, err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return written, fmt.Errorf("failed to create output directory: %w", err)
		}
		tmp := path + ".tmp"
		if err := os.WriteFile(tmp, data, 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", tmp, err)
		}
		if err := os.Rename(tmp, path); err != nil {
			os.Remove(tmp)
			return written, fmt.Errorf("failed to rename %s: %w", tmp, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// headerPath maps a header name to its JSON file below dir. Names that would leave
// dir are rejected.
func headerPath(dir, name string) (string, error) {
	rel := filepath.FromSlash(name)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: %q", ErrHeaderPath, name)
	}
	return filepath.Join(dir, rel+".json"), nil
}

func (w *JSONWriter) marshal(h *model.HeaderRecord) ([]byte, error) {
	if w.indent == "" {
		return json.Marshal(h)
	}
	data, err := json.MarshalIndent(h, "", w.indent)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
