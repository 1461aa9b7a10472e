// Package extract walks a parsed interface specification document and assembles
// the API model it describes.
//
// Sections whose titles name an element category (Types, Functions, Constants,
// Variables, Function-like Macros, Source File Description, Source File
// Dependencies, Compile-time and Link-time Configuration) switch the processor
// into a table kind. Each grid table inside such a section describes one element:
// its first column holds row labels, the remaining columns hold values. Finished
// elements are stored per header file in a model.Registry.
//
// Processing stops at the first structural violation; the registry contents are
// not usable after an error.
package extract

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gobwas/glob"
	"github.com/mvp-joe/restuml2code/internal/depscan"
	"github.com/mvp-joe/restuml2code/internal/doctree"
	"github.com/mvp-joe/restuml2code/internal/model"
	"github.com/mvp-joe/restuml2code/internal/uml"
)

// DefaultHeaderPatterns selects which described source files are headers.
var DefaultHeaderPatterns = []string{"*.h"}

// Option configures a Processor.
type Option func(*Processor) error

// WithLogger sets the logger used for warnings and progress.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) error {
		p.logger = logger
		return nil
	}
}

// WithHeaderPatterns sets the glob patterns identifying header files in source
// file description tables.
func WithHeaderPatterns(patterns ...string) Option {
	return func(p *Processor) error {
		p.headerPatterns = p.headerPatterns[:0]
		for _, pattern := range patterns {
			g, err := glob.Compile(pattern)
			if err != nil {
				return fmt.Errorf("invalid header pattern %q: %w", pattern, err)
			}
			p.headerPatterns = append(p.headerPatterns, g)
		}
		return nil
	}
}

// WithDiagramMarker sets the marker that selects diagrams for dependency scanning
// outside a Source File Dependencies section.
func WithDiagramMarker(marker string) Option {
	return func(p *Processor) error {
		p.diagramMarker = marker
		return nil
	}
}

// WithRegistry stores results in reg instead of a new registry.
func WithRegistry(reg *model.Registry) Option {
	return func(p *Processor) error {
		p.registry = reg
		return nil
	}
}

// Result is the outcome of a successful extraction.
type Result struct {
	Registry *model.Registry
	Globals  map[string]string
	Warnings []Warning
}

// tableState is the accumulator of the table being read. It is created when the
// table is entered and dropped when it is left.
type tableState struct {
	kind TableKind
	row  int
	attr string
	asm  assembler
	file *sourceFileRow
}

// Processor is a doctree.Visitor that extracts elements from a document.
type Processor struct {
	registry       *model.Registry
	decoder        ColumnDecoder
	logger         *slog.Logger
	headerPatterns []glob.Glob
	diagramMarker  string

	scopes   scopeStack
	table    *tableState
	globals  map[string]string
	warnings []Warning
}

// NewProcessor creates a processor for a document whose raw lines are decoded by decoder.
func NewProcessor(decoder ColumnDecoder, opts ...Option) (*Processor, error) {
	p := &Processor{
		registry:      model.NewRegistry(),
		decoder:       decoder,
		logger:        slog.Default(),
		diagramMarker: uml.DefaultMarker,
		globals:       make(map[string]string),
	}
	if err := WithHeaderPatterns(DefaultHeaderPatterns...)(p); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Extract runs a processor over doc and broadcasts global fields onto the result.
func Extract(doc *doctree.Document, opts ...Option) (*Result, error) {
	p, err := NewProcessor(NewColumnDecoder(doc.Lines()), opts...)
	if err != nil {
		return nil, err
	}
	if err := doctree.Walk(doc, p); err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Source, err)
	}
	return p.Finish(), nil
}

// Finish copies global fields onto every registered header and returns the result.
func (p *Processor) Finish() *Result {
	p.registry.Broadcast(p.globals)
	return &Result{
		Registry: p.registry,
		Globals:  p.globals,
		Warnings: p.warnings,
	}
}

// Visit implements doctree.Visitor.
func (p *Processor) Visit(n doctree.Node) error {
	switch n := n.(type) {
	case *doctree.Section:
		if sc, ok := p.scopes.enter(n); ok {
			p.logger.Debug("entering section", "title", n.Title, "kind", sc.kind.String(), "private", sc.private)
		}
	case *doctree.Table:
		p.enterTable()
	case *doctree.Row:
		if p.table != nil {
			p.table.row++
			if p.table.kind == SourceFileTable {
				p.table.file = &sourceFileRow{}
			}
		}
	case *doctree.Paragraph:
		return p.paragraph(n)
	case *doctree.CodeBlock:
		return p.codeBlock(n)
	case *doctree.Field:
		return p.field(n)
	case *doctree.Diagram:
		p.diagram(n)
	}
	return nil
}

// Depart implements doctree.Visitor.
func (p *Processor) Depart(n doctree.Node) error {
	switch n := n.(type) {
	case *doctree.Section:
		p.scopes.leave(n)
	case *doctree.Table:
		return p.leaveTable(n)
	case *doctree.Row:
		if p.table != nil && p.table.file != nil {
			if p.table.file.commit(p.registry, p.headerPatterns) {
				p.logger.Debug("registered source file", "header", p.table.file.name)
			}
			p.table.file = nil
		}
	}
	return nil
}

func (p *Processor) enterTable() {
	kind := p.scopes.current().kind
	if kind == SourceFileTable {
		p.table = &tableState{kind: kind}
		return
	}
	asm, ok := newAssembler(kind)
	if !ok {
		p.table = nil
		return
	}
	p.table = &tableState{kind: kind, asm: asm}
}

func (p *Processor) leaveTable(t *doctree.Table) error {
	ts := p.table
	p.table = nil
	if ts == nil || ts.asm == nil {
		return nil
	}

	name, ok := ts.asm.header()
	if !ok {
		return lineErr(t.Line, ErrMissingHeader, "%s table", ts.kind)
	}
	ts.asm.commit(p.registry.AddHeader(name), p.scopes.current().private)
	return nil
}

func (p *Processor) paragraph(n *doctree.Paragraph) error {
	ts := p.table
	if ts == nil || ts.row == 0 {
		return nil
	}

	col, err := p.decoder.Column(n.Line, n.Text)
	if err != nil {
		return err
	}
	c := cell{column: col, line: n.Line, text: n.Text}

	if ts.kind == SourceFileTable {
		if ts.file == nil {
			return nil
		}
		return ts.file.add(c)
	}
	if col == 1 {
		return p.resolveLabel(ts, c)
	}
	if ts.attr == "" {
		return nil
	}
	return ts.asm.assign(ts.row, ts.attr, c)
}

func (p *Processor) codeBlock(n *doctree.CodeBlock) error {
	ts := p.table
	if ts == nil || ts.row == 0 || ts.asm == nil || ts.attr == "" {
		return nil
	}
	return ts.asm.assign(ts.row, ts.attr, cell{line: n.Line, text: n.Raw, code: true})
}

// resolveLabel matches a label cell against the row keys of the active table kind.
func (p *Processor) resolveLabel(ts *tableState, c cell) error {
	for _, key := range rowKeys {
		want, applies := key.rows[ts.kind]
		if !applies || !strings.Contains(c.text, key.label) {
			continue
		}
		if want != anyRow && ts.row != want {
			return lineErr(c.line, ErrRowOrder, "%s expected in row %d, found in row %d", key.attr, want, ts.row)
		}
		ts.attr = key.attr
		return nil
	}

	ts.attr = ""
	msg := fmt.Sprintf("unrecognized %s attribute %q", ts.kind, c.text)
	p.warnings = append(p.warnings, Warning{Line: c.line, Message: msg})
	p.logger.Warn("unrecognized attribute", "kind", ts.kind.String(), "attribute", c.text, "line", c.line)
	return nil
}

func (p *Processor) field(n *doctree.Field) error {
	if p.table != nil || p.scopes.current().kind != Pass {
		return nil
	}
	if model.IsReserved(n.Name) {
		return lineErr(n.Line, ErrGlobalFieldCollision, "%s", n.Name)
	}
	p.globals[n.Name] = n.Body
	return nil
}

func (p *Processor) diagram(n *doctree.Diagram) {
	inScope := p.scopes.current().kind == SourceFileDependencies
	marked := p.diagramMarker != "" && strings.Contains(n.Text, p.diagramMarker)
	if !inScope && !marked {
		return
	}
	if n.Tree == nil {
		msg := "diagram could not be parsed; no dependencies extracted"
		p.warnings = append(p.warnings, Warning{Line: n.Line, Message: msg})
		p.logger.Warn(msg, "line", n.Line)
		return
	}

	s := depscan.NewScanner()
	s.Scan(n.Tree)
	s.Merge(p.registry)
	p.logger.Debug("scanned diagram", "line", n.Line, "headers", len(s.Headers()))
}
