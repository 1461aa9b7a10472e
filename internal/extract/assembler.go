package extract

import (
	"slices"
	"strings"

	"github.com/mvp-joe/restuml2code/internal/model"
)

// cell is one value delivered to an assembler: a paragraph in a decoded column, or
// a code block, which carries no column and always holds a value.
type cell struct {
	column int
	line   int
	text   string
	code   bool
}

// value returns the cell text, with the literal marker stripped for code blocks.
func (c cell) value() string {
	if c.code {
		return stripCodeMarker(c.text)
	}
	return c.text
}

// expect fails unless the cell is a paragraph in one of the given columns.
func (c cell) expect(attr string, columns ...int) error {
	if c.code {
		return lineErr(c.line, ErrSyntax, "%s does not accept a code block", attr)
	}
	if !slices.Contains(columns, c.column) {
		return lineErr(c.line, ErrSyntax, "%s value in column %d", attr, c.column)
	}
	return nil
}

// expectValue fails unless the cell is a code block or a paragraph in column.
func (c cell) expectValue(attr string, column int) error {
	if c.code || c.column == column {
		return nil
	}
	return lineErr(c.line, ErrSyntax, "%s value in column %d", attr, c.column)
}

// assembler accumulates the attributes of one element while its table is parsed.
// A new assembler is created for every table.
type assembler interface {
	// assign applies a value cell of the given row to attribute attr.
	assign(row int, attr string, c cell) error

	// header returns the header attribute, if it was assigned.
	header() (string, bool)

	// commit appends the finished element to h.
	commit(h *model.HeaderRecord, private bool)
}

// newAssembler returns the assembler for a table kind. Kinds that do not assemble
// elements table by table return false.
func newAssembler(kind TableKind) (assembler, bool) {
	switch kind {
	case FunctionTable:
		return newFunctionAssembler(), true
	case MacroFunctionTable:
		return newMacroFunctionAssembler(), true
	case TypeTable:
		return newTypeAssembler(), true
	case MacroConstantsTable:
		return newMacroConstantsAssembler(), true
	case VariableTable:
		return newVariableAssembler(), true
	case Pass, SourceFileTable, SourceFileDependencies:
		return nil, false
	default:
		panic("extract: unhandled table kind " + kind.String())
	}
}

// scalars records which single-valued attributes have been written.
type scalars map[string]bool

// set writes v to dst unless attr was already written.
func (s scalars) set(attr string, c cell, dst *string, v string) error {
	if s[attr] {
		return lineErr(c.line, ErrDuplicateAttribute, "%s", attr)
	}
	s[attr] = true
	*dst = v
	return nil
}

// setBool writes v to dst unless attr was already written.
func (s scalars) setBool(attr string, c cell, dst *bool, v bool) error {
	if s[attr] {
		return lineErr(c.line, ErrDuplicateAttribute, "%s", attr)
	}
	s[attr] = true
	*dst = v
	return nil
}

// scalarText returns the value of a scalar cell, folding descriptions.
func scalarText(attr string, c cell) string {
	if attr == attrDescription {
		return foldDescription(c.value())
	}
	return c.value()
}

// appendParam applies a parameter-list cell: column 2 starts an entry, column 3
// describes the last one.
func appendParam(params []model.Param, attr string, c cell) ([]model.Param, error) {
	if err := c.expect(attr, 2, 3); err != nil {
		return nil, err
	}
	if c.column == 2 {
		return append(params, model.Param{Name: strings.ReplaceAll(c.text, "'...", "...")}), nil
	}
	if len(params) == 0 {
		return nil, lineErr(c.line, ErrSyntax, "%s description without a name", attr)
	}
	last := &params[len(params)-1]
	last.Description = appendDescription(last.Description, c.text)
	return params, nil
}

// appendConstant applies a name/value/description cell to a constant list.
func appendConstant(list []model.EnumConstant, attr string, c cell, value func(string) string) ([]model.EnumConstant, error) {
	if err := c.expect(attr, 2, 3, 4); err != nil {
		return nil, err
	}
	if c.column == 2 {
		return append(list, model.EnumConstant{Name: c.text}), nil
	}
	if len(list) == 0 {
		return nil, lineErr(c.line, ErrSyntax, "%s entry without a name", attr)
	}
	last := &list[len(list)-1]
	if c.column == 3 {
		last.Value = value(c.text)
	} else {
		last.Description = appendDescription(last.Description, c.text)
	}
	return list, nil
}
