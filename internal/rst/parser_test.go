package rst

import (
	"testing"

	"github.com/mvp-joe/restuml2code/internal/doctree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Parser:
// - Section titles nest by adornment style in order of first appearance
// - Overlined titles are recognised
// - Paragraphs record the line of their first text line
// - "::" introduces a literal block; "text::" keeps a trailing colon
// - code-block directives produce code blocks whose raw text starts with the directive
// - Field lists collect name and body
// - Grid tables handle header rows, column spans and row spans
// - Grid table borders align by character, not byte, in non-ASCII cells
// - Cell paragraphs record their source line
// - Malformed tables are reported with their line
// - uml directives carry a parse tree; unparseable marked diagrams are fatal
// - Tabs and CRLF line endings are normalised

func parse(t *testing.T, text string) *doctree.Document {
	t.Helper()
	doc, err := NewParser().Parse("test.rst", text)
	require.NoError(t, err)
	return doc
}

func TestParse_SectionNesting(t *testing.T) {
	t.Parallel()
	doc := parse(t, `Title
=====

Intro text.

Child A
-------

Grandchild
~~~~~~~~~~

Child B
-------
`)
	require.Len(t, doc.Body, 1)
	root := doc.Body[0].(*doctree.Section)
	assert.Equal(t, "Title", root.Title)
	assert.Equal(t, 1, root.Line)
	require.Len(t, root.Body, 3)

	intro := root.Body[0].(*doctree.Paragraph)
	assert.Equal(t, "Intro text.", intro.Text)
	assert.Equal(t, 4, intro.Line)

	a := root.Body[1].(*doctree.Section)
	assert.Equal(t, "Child A", a.Title)
	require.Len(t, a.Body, 1)
	assert.Equal(t, "Grandchild", a.Body[0].(*doctree.Section).Title)

	assert.Equal(t, "Child B", root.Body[2].(*doctree.Section).Title)
}

func TestParse_OverlinedTitle(t *testing.T) {
	t.Parallel()
	doc := parse(t, "=======\n Title\n=======\n\nBody\n")
	require.Len(t, doc.Body, 1)
	s := doc.Body[0].(*doctree.Section)
	assert.Equal(t, "Title", s.Title)
	assert.Equal(t, 2, s.Line)
}

func TestParse_LiteralBlocks(t *testing.T) {
	t.Parallel()
	doc := parse(t, `Example::

   int x;
   int y;

::

   raw

.. code-block:: c

   void f(void);
`)
	require.Len(t, doc.Body, 4)

	assert.Equal(t, "Example:", doc.Body[0].(*doctree.Paragraph).Text)

	cb := doc.Body[1].(*doctree.CodeBlock)
	assert.Equal(t, "::\nint x;\nint y;", cb.Raw)
	assert.Equal(t, 3, cb.Line)

	assert.Equal(t, "::\nraw", doc.Body[2].(*doctree.CodeBlock).Raw)
	assert.Equal(t, ".. code-block:: c\nvoid f(void);", doc.Body[3].(*doctree.CodeBlock).Raw)
}

func TestParse_FieldList(t *testing.T) {
	t.Parallel()
	doc := parse(t, ":version: 1.2\n:author: Jane\n  Roe\n")
	require.Len(t, doc.Body, 1)
	fl := doc.Body[0].(*doctree.FieldList)
	require.Len(t, fl.Fields, 2)
	assert.Equal(t, "version", fl.Fields[0].Name)
	assert.Equal(t, "1.2", fl.Fields[0].Body)
	assert.Equal(t, 1, fl.Fields[0].Line)
	assert.Equal(t, "author", fl.Fields[1].Name)
	assert.Equal(t, "Jane\nRoe", fl.Fields[1].Body)
}

func cellText(e *doctree.Entry) string {
	if len(e.Body) == 0 {
		return ""
	}
	if p, ok := e.Body[0].(*doctree.Paragraph); ok {
		return p.Text
	}
	return ""
}

func TestParse_GridTable(t *testing.T) {
	t.Parallel()
	doc := parse(t, `+--------+--------+--------+
| Name   | Kind   | Note   |
+========+========+========+
| a      | merged          |
+--------+--------+--------+
| b      | x      | y      |
|        +--------+--------+
|        | z      | w      |
+--------+--------+--------+
`)
	require.Len(t, doc.Body, 1)
	tbl := doc.Body[0].(*doctree.Table)
	assert.Equal(t, 1, tbl.Line)
	require.Len(t, tbl.Rows, 4)

	assert.True(t, tbl.Rows[0].Header)
	assert.False(t, tbl.Rows[1].Header)

	row1 := tbl.Rows[1].Entries
	require.Len(t, row1, 2)
	assert.Equal(t, "a", cellText(row1[0]))
	assert.Equal(t, "merged", cellText(row1[1]))

	row2 := tbl.Rows[2].Entries
	require.Len(t, row2, 3)
	assert.Equal(t, "b", cellText(row2[0]))
	assert.Equal(t, "x", cellText(row2[1]))
	assert.Equal(t, 6, row2[1].Body[0].(*doctree.Paragraph).Line)

	// The row-spanning cell appears only in its first row
	row3 := tbl.Rows[3].Entries
	require.Len(t, row3, 2)
	assert.Equal(t, "z", cellText(row3[0]))
	assert.Equal(t, 8, row3[0].Body[0].(*doctree.Paragraph).Line)
}

func TestParse_GridTableNonASCII(t *testing.T) {
	t.Parallel()
	doc := parse(t, `Intervall in µs
===============

+---------------+---------------------+
| Description:  | Converts µs to ticks|
+---------------+----------+----------+
| Range:        | ±10 °C   | ≤ 1 ms   |
+---------------+----------+----------+
`)
	sec := doc.Body[0].(*doctree.Section)
	assert.Equal(t, "Intervall in µs", sec.Title)

	tbl := sec.Body[0].(*doctree.Table)
	require.Len(t, tbl.Rows, 2)
	require.Len(t, tbl.Rows[0].Entries, 2)
	assert.Equal(t, "Converts µs to ticks", cellText(tbl.Rows[0].Entries[1]))

	row := tbl.Rows[1].Entries
	require.Len(t, row, 3)
	assert.Equal(t, "±10 °C", cellText(row[1]))
	assert.Equal(t, "≤ 1 ms", cellText(row[2]))
	assert.Equal(t, 7, row[2].Body[0].(*doctree.Paragraph).Line)
}

func TestParse_GridTableCellLiteral(t *testing.T) {
	t.Parallel()
	doc := parse(t, `+---------+-----------------+
| Syntax: | ::              |
|         |                 |
|         |    void f(void);|
+---------+-----------------+
`)
	tbl := doc.Body[0].(*doctree.Table)
	value := tbl.Rows[0].Entries[1]
	require.Len(t, value.Body, 1)
	cb := value.Body[0].(*doctree.CodeBlock)
	assert.Equal(t, "::\nvoid f(void);", cb.Raw)
	assert.Equal(t, 4, cb.Line)
}

func TestParse_MalformedTable(t *testing.T) {
	t.Parallel()
	_, err := NewParser().Parse("bad.rst", "Intro\n\n+-----+-----+\n| a   | b   |\n+-----+\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedTable)
	assert.Contains(t, err.Error(), "bad.rst")
	assert.Contains(t, err.Error(), "line 3")
}

func TestParse_UMLDirective(t *testing.T) {
	t.Parallel()
	doc := parse(t, `.. uml::

   @startuml
   artifact "a.h" <<header>>
   @enduml
`)
	require.Len(t, doc.Body, 1)
	d := doc.Body[0].(*doctree.Diagram)
	assert.Equal(t, 3, d.Line)
	require.NotNil(t, d.Tree)
	require.Len(t, d.Tree.Children, 1)
}

func TestParse_UMLDirectiveErrors(t *testing.T) {
	t.Parallel()

	t.Run("unmarked diagram keeps a nil tree", func(t *testing.T) {
		t.Parallel()
		doc := parse(t, ".. uml::\n\n   a ->\n")
		d := doc.Body[0].(*doctree.Diagram)
		assert.Nil(t, d.Tree)
	})

	t.Run("marked diagram fails", func(t *testing.T) {
		t.Parallel()
		_, err := NewParser().Parse("x.rst", ".. uml::\n\n   :restuml2code:\n   a ->\n")
		assert.Error(t, err)
	})

	t.Run("custom marker", func(t *testing.T) {
		t.Parallel()
		p := NewParser(WithDiagramMarker(":scan:"))
		_, err := p.Parse("x.rst", ".. uml::\n\n   :scan:\n   a ->\n")
		assert.Error(t, err)
	})
}

func TestParse_NormalisesWhitespace(t *testing.T) {
	t.Parallel()
	doc := parse(t, "Title\r\n=====\r\n\r\nText\r\n")
	s := doc.Body[0].(*doctree.Section)
	assert.Equal(t, "Title", s.Title)
	assert.Equal(t, "Text", s.Body[0].(*doctree.Paragraph).Text)

	line, ok := doc.Line(4)
	assert.True(t, ok)
	assert.Equal(t, "Text", line)
}
