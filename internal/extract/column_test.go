package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for column decoding:
// - The column is the number of separators before the cell text
// - Cells continuing a row-spanning cell still decode to their own column
// - Text missing from its line is a structural error
// - The decoder uses only the first line of multi-line text and reports line numbers

func TestDecodeColumn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		text string
		want int
	}{
		{"first column", "| Function name: | Foo_Init |", "Function name:", 1},
		{"second column", "| Function name: | Foo_Init |", "Foo_Init", 2},
		{"below a row span", "|                 | config   | The configuration |", "The configuration", 3},
		{"first occurrence wins", "| Syntax: | Syntax |", "Syntax", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			col, err := DecodeColumn(tt.line, tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, col)
		})
	}
}

func TestDecodeColumn_TextNotOnLine(t *testing.T) {
	t.Parallel()
	_, err := DecodeColumn("| a | b |", "c")
	assert.ErrorIs(t, err, ErrStructural)
}

func TestColumnDecoder(t *testing.T) {
	t.Parallel()
	d := NewColumnDecoder([]string{
		"+---+---------+",
		"| x | first   |",
		"|   | second  |",
	})

	col, err := d.Column(2, "first\nsecond")
	require.NoError(t, err)
	assert.Equal(t, 2, col)

	_, err = d.Column(3, "missing")
	var lerr *LineError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, 3, lerr.Line)
	assert.ErrorIs(t, err, ErrStructural)

	_, err = d.Column(10, "first")
	assert.ErrorIs(t, err, ErrStructural)
}
