// Package doctree defines the parsed document tree consumed by the extraction engine.
//
// The tree mirrors the structure a reStructuredText parser produces: nested sections,
// grid tables made of rows and entries, paragraphs, literal blocks, field lists and
// embedded diagram blocks. Paragraphs and code blocks carry the 1-based source line of
// their first text line so callers can reason about the raw table layout.
package doctree

import "github.com/mvp-joe/restuml2code/internal/uml"

// Node is any element of a document tree.
type Node interface {
	// Children returns the node's children in document order.
	Children() []Node
}

// Document is the root of a parsed document.
type Document struct {
	Source string
	Body   []Node

	lines []string
}

// NewDocument creates a document over the given raw source lines.
func NewDocument(source string, lines []string, body []Node) *Document {
	return &Document{Source: source, Body: body, lines: lines}
}

func (d *Document) Children() []Node { return d.Body }

// Lines returns the raw source lines of the document.
func (d *Document) Lines() []string { return d.lines }

// Line returns the 1-based source line n, or false if out of range.
func (d *Document) Line(n int) (string, bool) {
	if n < 1 || n > len(d.lines) {
		return "", false
	}
	return d.lines[n-1], true
}

// Section is a titled document section. Sections nest.
type Section struct {
	Title string
	Line  int
	Body  []Node
}

func (s *Section) Children() []Node { return s.Body }

// Paragraph is a block of running text. Text keeps embedded newlines.
type Paragraph struct {
	Text string
	Line int
}

func (p *Paragraph) Children() []Node { return nil }

// CodeBlock is a literal block. Raw starts with the literal marker line
// ("::" or a ".. code-block::" directive) followed by the verbatim content.
type CodeBlock struct {
	Raw  string
	Line int
}

func (c *CodeBlock) Children() []Node { return nil }

// Table is a grid table.
type Table struct {
	Rows []*Row
	Line int
}

func (t *Table) Children() []Node {
	nodes := make([]Node, len(t.Rows))
	for i, r := range t.Rows {
		nodes[i] = r
	}
	return nodes
}

// Row is one grid row. Cells spanning several rows appear only in the first row they occupy.
type Row struct {
	Entries []*Entry
	Header  bool
}

func (r *Row) Children() []Node {
	nodes := make([]Node, len(r.Entries))
	for i, e := range r.Entries {
		nodes[i] = e
	}
	return nodes
}

// Entry is a table cell.
type Entry struct {
	Body []Node
}

func (e *Entry) Children() []Node { return e.Body }

// FieldList is a run of ":name: value" fields.
type FieldList struct {
	Fields []*Field
}

func (f *FieldList) Children() []Node {
	nodes := make([]Node, len(f.Fields))
	for i, fd := range f.Fields {
		nodes[i] = fd
	}
	return nodes
}

// Field is a single named field.
type Field struct {
	Name string
	Body string
	Line int
}

func (f *Field) Children() []Node { return nil }

// Diagram is an embedded diagram block. Tree is nil when the diagram text
// could not be or was not parsed.
type Diagram struct {
	Text string
	Line int
	Tree *uml.Node
}

func (d *Diagram) Children() []Node { return nil }
