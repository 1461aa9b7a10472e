// Package discovery finds the reStructuredText documents to extract from.
package discovery

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Matcher decides which slash-separated relative paths are documents.
type Matcher struct {
	docs   []compiledPattern
	ignore []compiledPattern
}

// NewMatcher compiles the document and ignore patterns.
func NewMatcher(docPatterns, ignorePatterns []string) (*Matcher, error) {
	docs, err := compile(docPatterns)
	if err != nil {
		return nil, err
	}
	ignore, err := compile(ignorePatterns)
	if err != nil {
		return nil, err
	}
	return &Matcher{docs: docs, ignore: ignore}, nil
}

func compile(patterns []string) ([]compiledPattern, error) {
	out := make([]compiledPattern, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, err
		}
		out = append(out, compiledPattern{pattern: p, glob: g})
	}
	return out, nil
}

// Match reports whether relPath is a document that is not ignored.
func (m *Matcher) Match(relPath string) bool {
	return !m.Ignored(relPath) && matchesAny(relPath, m.docs)
}

// Ignored reports whether relPath, or the directory it names, is excluded.
func (m *Matcher) Ignored(relPath string) bool {
	if matchesAny(relPath, m.ignore) {
		return true
	}
	// "build" should be caught by "build/**"
	return matchesAny(relPath+"/**", m.ignore)
}

// matchesAny lets "**/*.rst" also match files at the root.
func matchesAny(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	if !strings.Contains(path, "/") {
		for _, cp := range patterns {
			simplified, ok := strings.CutPrefix(cp.pattern, "**/")
			if !ok {
				continue
			}
			if g, err := glob.Compile(simplified, '/'); err == nil && g.Match(path) {
				return true
			}
		}
	}
	return false
}

// Discover walks root and returns the matching documents, joined to root and sorted.
func Discover(root string, m *Matcher) ([]string, error) {
	var docs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel != "." && m.Ignored(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if m.Match(rel) {
			docs = append(docs, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(docs)
	return docs, nil
}
