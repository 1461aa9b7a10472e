package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mvp-joe/restuml2code/internal/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Runner:
// - Run merges every document into one registry in document order
// - Global fields stay with the headers of their own document
// - Warnings carry the path of their document
// - Stats and progress callbacks reflect the run
// - Extraction errors name the failing document and keep their sentinel
// - Unreadable documents and cancelled contexts abort the run
// - Header patterns are passed through to extraction
// - Unchanged documents are served from the cache without corrupting it

const fooDoc = `Foo
===

:version: 2.0

Functions
---------

+--------------------------+----------------+------------------------------+
| Function name:           | Foo_Init                                      |
+--------------------------+----------------+------------------------------+
| Description:             | Some description                              |
+--------------------------+----------------+------------------------------+
| Syntax:                  | void Foo_Init(void);                          |
+--------------------------+----------------+------------------------------+
| Declared in:             | foo.h                                         |
+--------------------------+----------------+------------------------------+
`

const fooStartDoc = `Functions
---------

+--------------------------+----------------+------------------------------+
| Function name:           | Foo_Start                                     |
+--------------------------+----------------+------------------------------+
| Description:             | Some description                              |
+--------------------------+----------------+------------------------------+
| Syntax:                  | void Foo_Start(void);                         |
+--------------------------+----------------+------------------------------+
| Declared in:             | foo.h                                         |
+--------------------------+----------------+------------------------------+
`

const noHeaderDoc = `Functions
---------

+--------------------------+----------------+------------------------------+
| Function name:           | Foo_Init                                      |
+--------------------------+----------------+------------------------------+
`

type recordingProgress struct {
	total     int
	processed []string
	stats     *Stats
}

func (r *recordingProgress) OnStart(total int) { r.total = total }
func (r *recordingProgress) OnDocumentProcessed(path string, _ int) {
	r.processed = append(r.processed, path)
}
func (r *recordingProgress) OnComplete(stats *Stats) { r.stats = stats }

func writeDoc(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	return path
}

func timerPath() string {
	return filepath.Join("..", "extract", "testdata", "timer.rst")
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()
	foo := writeDoc(t, t.TempDir(), "foo.rst", fooDoc)
	progress := &recordingProgress{}

	res, err := NewRunner(Options{Progress: progress}).Run(context.Background(), []string{timerPath(), foo})
	require.NoError(t, err)

	reg := res.Registry
	assert.Equal(t, []string{"timer.h", "timer_cfg.h", "timer_int.h", "foo.h"}, reg.Names())

	timer, _ := reg.Get("timer.h")
	assert.Equal(t, map[string]string{"version": "1.2", "author": "Jane Roe"}, timer.Globals)
	fooHeader, _ := reg.Get("foo.h")
	assert.Equal(t, map[string]string{"version": "2.0"}, fooHeader.Globals)

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, timerPath(), res.Warnings[0].Source)
	assert.Equal(t, 131, res.Warnings[0].Line)
	assert.Contains(t, res.Warnings[0].String(), timerPath()+":line 131:")

	assert.Equal(t, 2, res.Stats.Documents)
	assert.Equal(t, 4, res.Stats.Headers)
	assert.Equal(t, 10, res.Stats.Elements)
	assert.Equal(t, 1, res.Stats.Warnings)

	assert.Equal(t, 2, progress.total)
	assert.Equal(t, []string{timerPath(), foo}, progress.processed)
	require.NotNil(t, progress.stats)
	assert.Equal(t, res.Stats, *progress.stats)
}

func TestRunner_ExtractionError(t *testing.T) {
	t.Parallel()
	bad := writeDoc(t, t.TempDir(), "bad.rst", noHeaderDoc)

	_, err := NewRunner(Options{}).Run(context.Background(), []string{bad})
	require.Error(t, err)
	assert.ErrorIs(t, err, extract.ErrMissingHeader)
	assert.Contains(t, err.Error(), bad)
}

func TestRunner_Aborts(t *testing.T) {
	t.Parallel()

	t.Run("missing document", func(t *testing.T) {
		t.Parallel()
		_, err := NewRunner(Options{}).Run(context.Background(), []string{filepath.Join(t.TempDir(), "nope.rst")})
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewRunner(Options{}).Run(ctx, []string{timerPath()})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRunner_HeaderPatterns(t *testing.T) {
	t.Parallel()
	data, err := os.ReadFile(timerPath())
	require.NoError(t, err)

	res, err := NewRunner(Options{HeaderPatterns: []string{"*.c"}}).Document("timer.rst", string(data))
	require.NoError(t, err)
	impl, ok := res.Registry.Get("timer.c")
	require.True(t, ok)
	assert.Equal(t, "Implementation.", impl.Description)
}

func TestRunner_Cache(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	foo := writeDoc(t, dir, "foo.rst", fooDoc)
	start := writeDoc(t, dir, "start.rst", fooStartDoc)
	runner := NewRunner(Options{})
	ctx := context.Background()

	first, err := runner.Run(ctx, []string{foo, start})
	require.NoError(t, err)
	assert.Equal(t, 0, first.Stats.Cached)
	require.Len(t, first.Documents, 2)
	assert.Equal(t, ContentHash([]byte(fooDoc)), first.Documents[0].Hash)
	assert.False(t, first.Documents[0].Cached)

	second, err := runner.Run(ctx, []string{foo, start})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Stats.Cached)
	assert.True(t, second.Documents[1].Cached)

	h, ok := second.Registry.Get("foo.h")
	require.True(t, ok)
	require.Len(t, h.Functions, 2)
	assert.Equal(t, "Foo_Init", h.Functions[0].Name)
	assert.Equal(t, "Foo_Start", h.Functions[1].Name)

	require.NoError(t, os.WriteFile(start, []byte(strings.ReplaceAll(fooStartDoc, "Foo_Start", "Foo_Stop ")), 0644))
	third, err := runner.Run(ctx, []string{foo, start})
	require.NoError(t, err)
	assert.Equal(t, 1, third.Stats.Cached)
	h, _ = third.Registry.Get("foo.h")
	require.Len(t, h.Functions, 2)
	assert.Equal(t, "Foo_Stop", h.Functions[1].Name)
}

func TestContentHash(t *testing.T) {
	t.Parallel()
	a := ContentHash([]byte("abc"))
	assert.Len(t, a, 16)
	assert.Equal(t, a, ContentHash([]byte("abc")))
	assert.NotEqual(t, a, ContentHash([]byte("abd")))
}
