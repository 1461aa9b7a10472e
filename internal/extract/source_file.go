package extract

import (
	"strings"

	"github.com/gobwas/glob"
	"github.com/mvp-joe/restuml2code/internal/model"
)

// sourceFileRow collects one row of a source file description table:
// file name, generated flag and description.
type sourceFileRow struct {
	name        string
	generated   string
	description string
}

func (r *sourceFileRow) add(c cell) error {
	if c.code {
		return lineErr(c.line, ErrSyntax, "source file description does not accept a code block")
	}
	switch c.column {
	case 1:
		r.name = strings.TrimSpace(c.text)
	case 2:
		r.generated = c.text
	case 3:
		r.description = appendDescription(r.description, c.text)
	default:
		return lineErr(c.line, ErrSyntax, "source file description in column %d", c.column)
	}
	return nil
}

// commit registers the row's file if it is a header.
func (r *sourceFileRow) commit(reg *model.Registry, headers []glob.Glob) bool {
	if r.name == "" || !matchesAny(headers, r.name) {
		return false
	}
	h := reg.AddHeader(r.name)
	h.Description = r.description
	h.Generated = containsYes(r.generated)
	return true
}

func matchesAny(patterns []glob.Glob, name string) bool {
	for _, g := range patterns {
		if g.Match(name) {
			return true
		}
	}
	return false
}
