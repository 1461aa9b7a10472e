package extract

import (
	"fmt"
	"strings"
)

// ColumnSeparator is the grid table character counted to find a cell's column.
const ColumnSeparator = '|'

// ColumnDecoder finds the logical table column of a cell.
//
// Grid table parsers drop cells that span down from a previous row, so the position
// of an entry within its row does not say which column it is in. The column is
// recovered from the raw source line instead.
type ColumnDecoder interface {
	Column(line int, text string) (int, error)
}

// DecodeColumn returns the 1-based column of the cell whose first text line is
// cellFirstLine, given the raw sourceLine it was read from. The column is the number
// of separators preceding the first occurrence of the text.
func DecodeColumn(sourceLine, cellFirstLine string) (int, error) {
	pos := strings.Index(sourceLine, cellFirstLine)
	if pos < 0 {
		return 0, fmt.Errorf("%w: %q", ErrStructural, cellFirstLine)
	}
	return strings.Count(sourceLine[:pos], string(ColumnSeparator)), nil
}

type sourceColumnDecoder struct {
	lines []string
}

// NewColumnDecoder decodes columns against the given raw source lines.
func NewColumnDecoder(lines []string) ColumnDecoder {
	return &sourceColumnDecoder{lines: lines}
}

func (d *sourceColumnDecoder) Column(line int, text string) (int, error) {
	if line < 1 || line > len(d.lines) {
		return 0, lineErr(line, ErrStructural, "line out of range")
	}
	first, _, _ := strings.Cut(text, "\n")
	col, err := DecodeColumn(d.lines[line-1], first)
	if err != nil {
		return 0, &LineError{Line: line, Err: err}
	}
	return col, nil
}
