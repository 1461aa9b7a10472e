package cli

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mvp-joe/restuml2code/internal/pipeline"
	"github.com/stretchr/testify/assert"
)

// Test Plan for CLI output helpers:
// - formatNumber inserts thousand separators
// - The progress reporter prints a summary, warnings, and nothing when quiet
// - newLogger enables debug output only when verbose
// - version prints the build information

func TestFormatNumber(t *testing.T) {
	t.Parallel()
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatNumber(tt.n))
	}
}

func TestCLIProgressReporter(t *testing.T) {
	t.Parallel()
	stats := &pipeline.Stats{Documents: 2, Headers: 3, Elements: 1200, Warnings: 2, Duration: 1500 * time.Millisecond}

	t.Run("summary", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		r := NewCLIProgressReporter(&out, false)
		r.OnStart(2)
		r.OnDocumentProcessed("docs/a.rst", 1)
		r.OnDocumentProcessed("docs/b.rst", 2)
		r.OnComplete(stats)

		assert.Contains(t, out.String(), "✓ Extraction complete: 3 headers, 1,200 elements from 2 documents in 1.5s")
		assert.Contains(t, out.String(), "Warnings: 2")
	})

	t.Run("quiet", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		r := NewCLIProgressReporter(&out, true)
		r.OnStart(2)
		r.OnDocumentProcessed("docs/a.rst", 1)
		r.OnComplete(stats)
		assert.Empty(t, out.String())
	})
}

func TestNewLogger(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	newLogger(&out, false).Debug("hidden")
	assert.Empty(t, out.String())

	newLogger(&out, true).Debug("shown", "doc", "a.rst")
	assert.Contains(t, out.String(), "msg=shown")
	assert.Contains(t, out.String(), "doc=a.rst")

	assert.True(t, newLogger(&out, true).Enabled(context.Background(), slog.LevelDebug))
}

func TestVersionCommand(t *testing.T) {
	prev := slog.Default()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		slog.SetDefault(prev)
	})

	assert.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "restuml2code dev")
	assert.Contains(t, out.String(), "Git commit: none")
}
