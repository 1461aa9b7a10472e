// Package rst parses the subset of reStructuredText used by interface specification
// documents into a doctree.Document.
//
// Supported constructs: section titles (underline, optionally overline), grid tables
// with row and column spans, paragraphs, literal blocks introduced by "::", the
// code-block directive, field lists and the uml directive. Anything else is kept as
// plain paragraphs or skipped.
package rst

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mvp-joe/restuml2code/internal/doctree"
	"github.com/mvp-joe/restuml2code/internal/uml"
)

var (
	fieldRe     = regexp.MustCompile(`^:([^:\s][^:]*):(?:\s+(.*))?$`)
	directiveRe = regexp.MustCompile(`^\.\.\s+([A-Za-z][\w-]*)::\s*(.*)$`)
)

// Option configures a Parser.
type Option func(*Parser)

// WithDiagramMarker sets the marker text that makes diagram parse errors fatal.
func WithDiagramMarker(marker string) Option {
	return func(p *Parser) {
		p.marker = marker
	}
}

// Parser parses reStructuredText documents.
type Parser struct {
	marker string
}

// NewParser creates a parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{marker: uml.DefaultMarker}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses text into a document tree. source names the document in errors.
func (p *Parser) Parse(source, text string) (*doctree.Document, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\t", "        ")
	lines := strings.Split(text, "\n")

	b := &blockParser{parser: p, sections: true}
	items, err := b.parse(lines, 1)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return doctree.NewDocument(source, lines, nestSections(items)), nil
}

// title is a section title found while scanning; nestSections turns titles into sections.
type title struct {
	text  string
	style string
	line  int
}

func (t *title) Children() []doctree.Node { return nil }

type blockParser struct {
	parser   *Parser
	sections bool
}

// parse turns lines starting at source line first into nodes.
func (b *blockParser) parse(lines []string, first int) ([]doctree.Node, error) {
	var nodes []doctree.Node
	i := 0
	for i < len(lines) {
		line := lines[i]
		if isBlank(line) {
			i++
			continue
		}

		if indentOf(line) > 0 {
			end := indentedEnd(lines, i, 1)
			quote := &blockParser{parser: b.parser}
			sub, err := quote.parse(dedent(lines[i:end]), first+i)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, sub...)
			i = end
			continue
		}

		if b.sections {
			if t, n := b.sectionTitle(lines, i, first); t != nil {
				nodes = append(nodes, t)
				i += n
				continue
			}
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "+-") || strings.HasPrefix(trimmed, "+="):
			end := i
			for end < len(lines) && len(lines[end]) > 0 && (lines[end][0] == '+' || lines[end][0] == '|') {
				end++
			}
			t, err := b.table(lines[i:end], first+i)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", first+i, err)
			}
			nodes = append(nodes, t)
			i = end

		case fieldRe.MatchString(line):
			fl := &doctree.FieldList{}
			for i < len(lines) {
				m := fieldRe.FindStringSubmatch(lines[i])
				if m == nil {
					break
				}
				field := &doctree.Field{Name: strings.TrimSpace(m[1]), Line: first + i}
				end := indentedEnd(lines, i+1, 1)
				body := []string{m[2]}
				body = append(body, dedent(lines[i+1:end])...)
				field.Body = strings.TrimSpace(strings.Join(body, "\n"))
				fl.Fields = append(fl.Fields, field)
				i = end
				for i < len(lines) && isBlank(lines[i]) && i+1 < len(lines) && fieldRe.MatchString(lines[i+1]) {
					i++
				}
			}
			nodes = append(nodes, fl)

		case strings.HasPrefix(line, ".."):
			n, next, err := b.directive(lines, i, first)
			if err != nil {
				return nil, err
			}
			if n != nil {
				nodes = append(nodes, n)
			}
			i = next

		default:
			end := i
			for end < len(lines) && !isBlank(lines[end]) && indentOf(lines[end]) == 0 {
				end++
			}
			text := strings.Join(trimAll(lines[i:end]), "\n")
			literal := strings.HasSuffix(text, "::")
			switch {
			case text == "::":
			case strings.HasSuffix(text, " ::"):
				nodes = append(nodes, &doctree.Paragraph{Text: strings.TrimSuffix(text, " ::"), Line: first + i})
			case literal:
				nodes = append(nodes, &doctree.Paragraph{Text: strings.TrimSuffix(text, ":"), Line: first + i})
			default:
				nodes = append(nodes, &doctree.Paragraph{Text: text, Line: first + i})
			}
			i = end
			if literal {
				cb, next := literalBlock(lines, i, first, "::")
				if cb != nil {
					nodes = append(nodes, cb)
				}
				i = next
			}
		}
	}
	return nodes, nil
}

// sectionTitle recognises an underlined (optionally overlined) title at line i.
// It returns the title and the number of lines consumed.
func (b *blockParser) sectionTitle(lines []string, i, first int) (*title, int) {
	if isAdornment(lines[i]) && i+2 < len(lines) && !isBlank(lines[i+1]) &&
		strings.TrimRight(lines[i+2], " ") == strings.TrimRight(lines[i], " ") {
		text := strings.TrimSpace(lines[i+1])
		return &title{text: text, style: "over" + lines[i][:1], line: first + i + 1}, 3
	}
	if i+1 < len(lines) && !isAdornment(lines[i]) && isAdornment(lines[i+1]) {
		text := strings.TrimSpace(lines[i])
		if len(strings.TrimSpace(lines[i+1])) >= utf8.RuneCountInString(text) {
			return &title{text: text, style: lines[i+1][:1], line: first + i}, 2
		}
	}
	return nil, 0
}

func (b *blockParser) table(lines []string, first int) (*doctree.Table, error) {
	g, err := scanGrid(lines)
	if err != nil {
		return nil, err
	}

	cellParser := &blockParser{parser: b.parser}
	t := &doctree.Table{Line: first}
	for _, cells := range g.rows() {
		row := &doctree.Row{Header: g.headerBottom != -1 && cells[0].top < g.headerBottom}
		for _, c := range cells {
			body, err := cellParser.parse(dedent(g.content(c)), first+c.top+1)
			if err != nil {
				return nil, err
			}
			row.Entries = append(row.Entries, &doctree.Entry{Body: body})
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// directive handles ".. name:: args" blocks and comments starting at line i.
func (b *blockParser) directive(lines []string, i, first int) (doctree.Node, int, error) {
	m := directiveRe.FindStringSubmatch(lines[i])
	end := indentedEnd(lines, i+1, 1)
	if m == nil {
		return nil, end, nil
	}

	switch m[1] {
	case "code-block", "code", "sourcecode":
		cb, next := literalBlock(lines, i+1, first, strings.TrimSpace(lines[i]))
		return cb, next, nil

	case "uml":
		body := lines[i+1 : end]
		start := 0
		for start < len(body) && isBlank(body[start]) {
			start++
		}
		text := strings.Join(dedent(body[start:]), "\n")
		text = strings.TrimRight(text, "\n ")
		if arg := strings.TrimSpace(m[2]); arg != "" {
			text = arg + "\n" + text
		}
		d := &doctree.Diagram{Text: text, Line: first + i + 1 + start}
		tree, err := uml.Parse(text, d.Line)
		if err != nil {
			if strings.Contains(text, b.parser.marker) {
				return nil, 0, err
			}
		} else {
			d.Tree = tree
		}
		return d, end, nil
	}
	return nil, end, nil
}

// literalBlock collects the indented block following line i (skipping blank lines).
// The returned block's Raw text starts with the marker line.
func literalBlock(lines []string, i, first int, marker string) (*doctree.CodeBlock, int) {
	start := i
	for start < len(lines) && isBlank(lines[start]) {
		start++
	}
	if start >= len(lines) || indentOf(lines[start]) == 0 {
		return nil, start
	}
	end := indentedEnd(lines, start, 1)
	content := dedent(lines[start:end])
	for len(content) > 0 && isBlank(content[len(content)-1]) {
		content = content[:len(content)-1]
	}
	return &doctree.CodeBlock{
		Raw:  marker + "\n" + strings.Join(content, "\n"),
		Line: first + start,
	}, end
}

// nestSections converts a flat run of titles and nodes into nested sections.
// Title styles are ranked in order of first appearance.
func nestSections(items []doctree.Node) []doctree.Node {
	var (
		root   []doctree.Node
		levels []string
		stack  []*doctree.Section
	)
	for _, item := range items {
		t, ok := item.(*title)
		if !ok {
			if len(stack) == 0 {
				root = append(root, item)
			} else {
				top := stack[len(stack)-1]
				top.Body = append(top.Body, item)
			}
			continue
		}

		level := -1
		for l, s := range levels {
			if s == t.style {
				level = l
				break
			}
		}
		if level == -1 {
			levels = append(levels, t.style)
			level = len(levels) - 1
		}
		if level > len(stack) {
			level = len(stack)
		}

		stack = stack[:level]
		s := &doctree.Section{Title: t.text, Line: t.line}
		if len(stack) == 0 {
			root = append(root, s)
		} else {
			parent := stack[len(stack)-1]
			parent.Body = append(parent.Body, s)
		}
		stack = append(stack, s)
	}
	return root
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func indentOf(s string) int {
	return len(s) - len(strings.TrimLeft(s, " "))
}

// isAdornment reports whether s is a run of one repeated punctuation character.
func isAdornment(s string) bool {
	s = strings.TrimRight(s, " ")
	if len(s) < 3 {
		return false
	}
	c := rune(s[0])
	if !unicode.IsPunct(c) && !unicode.IsSymbol(c) {
		return false
	}
	return strings.Count(s, s[:1]) == len(s)
}

// indentedEnd returns the index of the first line at or after i that is not blank
// and indented less than min. Trailing blank lines are not included.
func indentedEnd(lines []string, i, min int) int {
	last := i
	for j := i; j < len(lines); j++ {
		if isBlank(lines[j]) {
			continue
		}
		if indentOf(lines[j]) < min {
			break
		}
		last = j + 1
	}
	return last
}

func dedent(lines []string) []string {
	common := -1
	for _, l := range lines {
		if isBlank(l) {
			continue
		}
		if ind := indentOf(l); common == -1 || ind < common {
			common = ind
		}
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		if isBlank(l) {
			out[i] = ""
			continue
		}
		out[i] = l[common:]
	}
	return out
}

func trimAll(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimSpace(l)
	}
	return out
}
