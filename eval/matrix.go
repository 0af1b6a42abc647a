package eval

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/takoeight0821/neo/token"
	"github.com/takoeight0821/neo/utils"
)

// Matrix is a rectangular grid of values. Cells are usually Numbers but may be
// any value, including other matrices.
// Matrices are shared by reference; use Copy for an independent one.
type Matrix struct {
	Cells [][]Value
}

// NewMatrix creates a rows x cols matrix with every cell set to fill.
func NewMatrix(rows, cols int, fill Value) *Matrix {
	cells := make([][]Value, rows)
	for i := range cells {
		cells[i] = make([]Value, cols)
		for j := range cells[i] {
			cells[i][j] = fill
		}
	}
	return &Matrix{Cells: cells}
}

func identity(n int) *Matrix {
	m := NewMatrix(n, n, Number(0))
	for i := 0; i < n; i++ {
		m.Cells[i][i] = Number(1)
	}
	return m
}

func (*Matrix) Type() string { return "Matrix" }

func (m *Matrix) Rows() int { return len(m.Cells) }

func (m *Matrix) Cols() int {
	if len(m.Cells) == 0 {
		return 0
	}
	return len(m.Cells[0])
}

func (m *Matrix) sameShape(other *Matrix) bool {
	return m.Rows() == other.Rows() && m.Cols() == other.Cols()
}

func (m *Matrix) square() bool {
	return m.Rows() == m.Cols()
}

// Transposed returns a new matrix with rows and columns swapped.
func (m *Matrix) Transposed() *Matrix {
	t := NewMatrix(m.Cols(), m.Rows(), nil)
	for i, row := range m.Cells {
		for j, cell := range row {
			t.Cells[j][i] = cell
		}
	}
	return t
}

// Copy returns a deep copy. Nested matrices are copied as well.
func (m *Matrix) Copy() *Matrix {
	c := NewMatrix(m.Rows(), m.Cols(), nil)
	for i, row := range m.Cells {
		for j, cell := range row {
			if nested, ok := cell.(*Matrix); ok {
				cell = nested.Copy()
			}
			c.Cells[i][j] = cell
		}
	}
	return c
}

// Determinant computes the determinant by cofactor expansion along the first row.
func (m *Matrix) Determinant(at token.Pos) (Value, error) {
	if !m.square() {
		return nil, utils.ErrorAt(at, "Matrix must be square to calculate determinant")
	}
	grid := make([][]float64, m.Rows())
	for i, row := range m.Cells {
		grid[i] = make([]float64, len(row))
		for j, cell := range row {
			n, ok := cell.(Number)
			if !ok {
				return nil, utils.ErrorAt(at, "Matrix determinant can only be calculated for matrices of scalars")
			}
			grid[i][j] = float64(n)
		}
	}
	return Number(determinant(grid)), nil
}

func determinant(a [][]float64) float64 {
	switch len(a) {
	case 1:
		return a[0][0]
	case 2:
		return a[0][0]*a[1][1] - a[0][1]*a[1][0]
	}

	var det float64
	sign := 1.0
	for j := range a[0] {
		det += sign * a[0][j] * determinant(minor(a, 0, j))
		sign = -sign
	}
	return det
}

// minor drops row r and column c.
func minor(a [][]float64, r, c int) [][]float64 {
	sub := make([][]float64, 0, len(a)-1)
	for i, row := range a {
		if i == r {
			continue
		}
		line := make([]float64, 0, len(row)-1)
		line = append(line, row[:c]...)
		line = append(line, row[c+1:]...)
		sub = append(sub, line)
	}
	return sub
}

// String renders the matrix as a bordered grid. Every column is as wide as its
// widest cell and cells are centred. Nested matrices take several lines.
//
//	---------
//	| 1   2 |
//	| 3   4 |
//	---------
func (m *Matrix) String() string {
	lines := make([][][]string, m.Rows())
	widths := make([]int, m.Cols())
	for i, row := range m.Cells {
		lines[i] = make([][]string, len(row))
		for j, cell := range row {
			lines[i][j] = strings.Split(cell.String(), "\n")
			for _, line := range lines[i][j] {
				widths[j] = max(widths[j], runewidth.StringWidth(line))
			}
		}
	}

	total := 1
	for _, w := range widths {
		total += w + 3
	}
	border := strings.Repeat("-", total)

	var b strings.Builder
	b.WriteString(border)
	for _, row := range lines {
		height := 0
		for _, cell := range row {
			height = max(height, len(cell))
		}
		for k := 0; k < height; k++ {
			parts := make([]string, len(row))
			for j, cell := range row {
				var text string
				if k < len(cell) {
					text = cell[k]
				}
				parts[j] = center(text, widths[j])
			}
			b.WriteString("\n| ")
			b.WriteString(strings.Join(parts, "   "))
			b.WriteString(" |")
		}
	}
	b.WriteString("\n")
	b.WriteString(border)
	return b.String()
}

// center pads s to width display columns. An odd margin puts the extra space on
// the left when width is odd and on the right when it is even.
func center(s string, width int) string {
	margin := width - runewidth.StringWidth(s)
	if margin <= 0 {
		return s
	}
	left := margin/2 + (margin & width & 1)
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", margin-left)
}

// index converts an index value to a cell position below limit.
func index(at token.Pos, v Value, limit int) (int, error) {
	n, ok := v.(Number)
	if !ok || !isWhole(float64(n)) {
		return 0, utils.ErrorAt(at, "Indices must be whole numbers")
	}
	if n < 0 || n >= Number(limit) {
		return 0, utils.Errorf(at, "Index %v out of range", n)
	}
	return int(n), nil
}
