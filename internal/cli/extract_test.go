package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mvp-joe/restuml2code/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for extract:
// - Discovered documents are extracted into one json file per header
// - --stdout writes one combined object and no status output
// - The sqlite format stores a run that deps can read back
// - Explicit documents bypass discovery; an empty project yields ErrNoDocuments
// - Quiet mode suppresses status output
// - A shared runner serves unchanged documents from its cache

// newProject creates a project directory containing the timer document.
func newProject(t *testing.T) (string, *config.Config) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "extract", "testdata", "timer.rst"))
	require.NoError(t, err)

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "timer.rst"), data, 0644))

	cfg := config.Default()
	cfg.Output.Dir = filepath.Join(root, "build", "model")
	cfg.Output.SQLitePath = filepath.Join(root, "build", "model.db")
	return root, cfg
}

func TestRunExtract_JSONDir(t *testing.T) {
	t.Parallel()
	root, cfg := newProject(t)
	var status bytes.Buffer

	res, err := runExtract(context.Background(), extractOptions{root: root, cfg: cfg, status: &status})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Stats.Headers)

	for _, name := range []string{"timer.h", "timer_cfg.h", "timer_int.h"} {
		data, err := os.ReadFile(filepath.Join(cfg.Output.Dir, name+".json"))
		require.NoError(t, err, name)

		var header map[string]any
		require.NoError(t, json.Unmarshal(data, &header))
		assert.Equal(t, name, header["file-name"])
		assert.Equal(t, "Jane Roe", header["author"])
	}

	assert.Contains(t, status.String(), "✓ Extraction complete: 3 headers")
	assert.Contains(t, status.String(), "Wrote 3 files to "+cfg.Output.Dir)
}

func TestRunExtract_Stdout(t *testing.T) {
	t.Parallel()
	root, cfg := newProject(t)
	var out, status bytes.Buffer

	_, err := runExtract(context.Background(), extractOptions{
		root:   root,
		docs:   []string{filepath.Join(root, "docs", "timer.rst")},
		cfg:    cfg,
		stdout: true,
		out:    &out,
		status: &status,
	})
	require.NoError(t, err)

	var combined map[string]map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &combined))
	assert.Len(t, combined, 3)
	assert.Equal(t, "Public timer interface.", combined["timer.h"]["description"])
	assert.Empty(t, status.String())

	_, err = os.Stat(cfg.Output.Dir)
	assert.True(t, os.IsNotExist(err))
}

func TestRunExtract_SQLite(t *testing.T) {
	t.Parallel()
	root, cfg := newProject(t)
	cfg.Output.Format = config.FormatSQLite
	var status bytes.Buffer

	_, err := runExtract(context.Background(), extractOptions{root: root, cfg: cfg, status: &status})
	require.NoError(t, err)
	assert.Contains(t, status.String(), "written to "+cfg.Output.SQLitePath)

	reg, err := loadStoredRun(cfg.Output.SQLitePath, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"timer.h", "timer_cfg.h", "timer_int.h"}, reg.Names())

	timer, _ := reg.Get("timer.h")
	assert.Len(t, timer.Functions, 2)
	assert.Equal(t, []string{"timer_cfg.h", "stdint.h"}, timer.Includes)
}

func TestRunExtract_Quiet(t *testing.T) {
	t.Parallel()
	root, cfg := newProject(t)
	var status bytes.Buffer

	_, err := runExtract(context.Background(), extractOptions{root: root, cfg: cfg, quiet: true, status: &status})
	require.NoError(t, err)
	assert.Empty(t, status.String())
}

func TestResolveDocuments(t *testing.T) {
	t.Parallel()

	t.Run("explicit documents", func(t *testing.T) {
		t.Parallel()
		docs, err := resolveDocuments(extractOptions{root: t.TempDir(), docs: []string{"a.rst"}, cfg: config.Default()})
		require.NoError(t, err)
		assert.Equal(t, []string{"a.rst"}, docs)
	})

	t.Run("discovered documents", func(t *testing.T) {
		t.Parallel()
		root, cfg := newProject(t)
		docs, err := resolveDocuments(extractOptions{root: root, cfg: cfg})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "timer.rst", filepath.Base(docs[0]))
	})

	t.Run("empty project", func(t *testing.T) {
		t.Parallel()
		_, err := resolveDocuments(extractOptions{root: t.TempDir(), cfg: config.Default()})
		assert.ErrorIs(t, err, ErrNoDocuments)
	})
}

func TestRunExtract_SharedRunner(t *testing.T) {
	t.Parallel()
	root, cfg := newProject(t)
	var status bytes.Buffer
	opts := extractOptions{root: root, cfg: cfg, quiet: true, status: &status}
	opts.runner = newRunner(opts)

	first, err := runExtract(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 0, first.Stats.Cached)

	second, err := runExtract(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Stats.Cached)
	assert.Equal(t, first.Registry.Names(), second.Registry.Names())
}
