package rst

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// ErrMalformedTable indicates a grid table whose borders do not form closed cells.
var ErrMalformedTable = errors.New("malformed grid table")

// gridCell is a rectangle in a grid table block. Coordinates index into the block
// lines (rows) and runes (columns) and include the border characters.
type gridCell struct {
	top, left, bottom, right int
}

// gridTable is the cell layout of a grid table block.
type gridTable struct {
	block        [][]rune
	cells        []gridCell
	headerBottom int // block row of the "=" separator, -1 if none
}

// scanGrid finds every cell of a grid table. It walks from the top-left corner of
// each cell, following borders right, down, left and up to close the rectangle,
// and queues the top-right and bottom-left corners as the next candidates.
func scanGrid(lines []string) (*gridTable, error) {
	width := 0
	for _, l := range lines {
		width = max(width, utf8.RuneCountInString(l))
	}

	g := &gridTable{headerBottom: -1}
	for i, l := range lines {
		l += strings.Repeat(" ", width-utf8.RuneCountInString(l))
		if i > 0 && strings.HasPrefix(l, "+=") {
			if g.headerBottom != -1 {
				return nil, fmt.Errorf("%w: multiple header separators", ErrMalformedTable)
			}
			g.headerBottom = i
			l = strings.ReplaceAll(l, "=", "-")
		}
		g.block = append(g.block, []rune(l))
	}

	bottom, right := len(g.block)-1, width-1
	if bottom < 2 || width == 0 || g.block[0][0] != '+' {
		return nil, fmt.Errorf("%w: missing top border", ErrMalformedTable)
	}

	// done[col] is the last block row consumed in each text column.
	done := make([]int, width)
	for i := range done {
		done[i] = -1
	}

	corners := [][2]int{{0, 0}}
	for len(corners) > 0 {
		top, left := corners[0][0], corners[0][1]
		corners = corners[1:]
		if top == bottom || left == right || top <= done[left] {
			continue
		}
		c, ok := g.scanRight(top, left, bottom, right)
		if !ok {
			continue
		}
		for col := c.left; col < c.right; col++ {
			done[col] = c.bottom - 1
		}
		g.cells = append(g.cells, c)
		corners = append(corners, [2]int{top, c.right}, [2]int{c.bottom, left})
		sort.Slice(corners, func(i, j int) bool {
			if corners[i][0] != corners[j][0] {
				return corners[i][0] < corners[j][0]
			}
			return corners[i][1] < corners[j][1]
		})
	}

	if len(g.cells) == 0 {
		return nil, fmt.Errorf("%w: no cells", ErrMalformedTable)
	}
	for col := 0; col < right; col++ {
		if done[col] != bottom-1 {
			return nil, fmt.Errorf("%w: cells do not reach the bottom border", ErrMalformedTable)
		}
	}
	return g, nil
}

func (g *gridTable) scanRight(top, left, bottom, right int) (gridCell, bool) {
	line := g.block[top]
	for i := left + 1; i <= right; i++ {
		switch line[i] {
		case '+':
			if b, ok := g.scanDown(top, left, i, bottom); ok {
				return gridCell{top: top, left: left, bottom: b, right: i}, true
			}
		case '-':
		default:
			return gridCell{}, false
		}
	}
	return gridCell{}, false
}

func (g *gridTable) scanDown(top, left, right, bottom int) (int, bool) {
	for i := top + 1; i <= bottom; i++ {
		switch g.block[i][right] {
		case '+':
			if g.scanLeft(top, left, i, right) {
				return i, true
			}
		case '|':
		default:
			return 0, false
		}
	}
	return 0, false
}

func (g *gridTable) scanLeft(top, left, bottom, right int) bool {
	line := g.block[bottom]
	for i := right - 1; i > left; i-- {
		if line[i] != '+' && line[i] != '-' {
			return false
		}
	}
	if line[left] != '+' {
		return false
	}
	for i := bottom - 1; i > top; i-- {
		if c := g.block[i][left]; c != '+' && c != '|' {
			return false
		}
	}
	return true
}

// rows groups cells by their top border. Cells within a row are ordered left to right.
func (g *gridTable) rows() [][]gridCell {
	byTop := make(map[int][]gridCell)
	var tops []int
	for _, c := range g.cells {
		if _, ok := byTop[c.top]; !ok {
			tops = append(tops, c.top)
		}
		byTop[c.top] = append(byTop[c.top], c)
	}
	sort.Ints(tops)

	rows := make([][]gridCell, 0, len(tops))
	for _, t := range tops {
		r := byTop[t]
		sort.Slice(r, func(i, j int) bool { return r[i].left < r[j].left })
		rows = append(rows, r)
	}
	return rows
}

// content returns the interior text lines of a cell.
func (g *gridTable) content(c gridCell) []string {
	lines := make([]string, 0, c.bottom-c.top-1)
	for i := c.top + 1; i < c.bottom; i++ {
		lines = append(lines, strings.TrimRight(string(g.block[i][c.left+1:c.right]), " "))
	}
	return lines
}
