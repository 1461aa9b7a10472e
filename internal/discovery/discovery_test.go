package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Discovery:
// - "**/*.rst" matches root-level and nested documents
// - Ignore patterns exclude files and whole directories
// - Non-matching extensions are skipped
// - Discover returns sorted paths joined to the root
// - NewMatcher rejects invalid patterns

func touch(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x\n"), 0644))
}

func TestMatcher(t *testing.T) {
	t.Parallel()

	m, err := NewMatcher([]string{"**/*.rst"}, []string{"build/**", "**/draft_*.rst"})
	require.NoError(t, err)

	assert.True(t, m.Match("index.rst"))
	assert.True(t, m.Match("docs/api/timer.rst"))
	assert.False(t, m.Match("docs/readme.md"))
	assert.False(t, m.Match("build/out.rst"))
	assert.False(t, m.Match("docs/draft_timer.rst"))

	assert.True(t, m.Ignored("build"))
	assert.False(t, m.Ignored("docs"))
}

func TestDiscover(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	touch(t, root, "b.rst")
	touch(t, root, "a/z.rst")
	touch(t, root, "a/notes.txt")
	touch(t, root, "build/gen.rst")

	m, err := NewMatcher([]string{"**/*.rst"}, []string{"build/**"})
	require.NoError(t, err)

	docs, err := Discover(root, m)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a", "z.rst"),
		filepath.Join(root, "b.rst"),
	}, docs)
}

func TestNewMatcher_InvalidPattern(t *testing.T) {
	t.Parallel()
	_, err := NewMatcher([]string{"[a-"}, nil)
	assert.Error(t, err)
}
