package board

import (
	"fmt"
	"strings"
)

// Coord координаты клетки на поле
type Coord struct {
	Row int
	Col int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Board матрица состояний клеток rows x cols
type Board struct {
	Rows  int
	Cols  int
	cells []CellState
}

// New создает доску, все клетки Unknown
func New(rows, cols int) *Board {
	return &Board{
		Rows:  rows,
		Cols:  cols,
		cells: make([]CellState, rows*cols),
	}
}

// Parse строит доску из текстовых строк в формате Symbol
func Parse(lines ...string) (*Board, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("пустая доска")
	}
	b := New(len(lines), len(lines[0]))
	for r, line := range lines {
		if len(line) != b.Cols {
			return nil, fmt.Errorf("строка %d: длина %d, ожидалось %d", r, len(line), b.Cols)
		}
		for c := 0; c < len(line); c++ {
			state, err := StateFromSymbol(line[c])
			if err != nil {
				return nil, fmt.Errorf("строка %d: %w", r, err)
			}
			b.Set(r, c, state)
		}
	}
	return b, nil
}

// InBounds проверяет, что координаты внутри поля
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.Rows && col >= 0 && col < b.Cols
}

func (b *Board) At(row, col int) CellState {
	return b.cells[row*b.Cols+col]
}

func (b *Board) Set(row, col int, state CellState) {
	b.cells[row*b.Cols+col] = state
}

// Neighbors возвращает до 8 соседей клетки в порядке обхода по строкам
func (b *Board) Neighbors(c Coord) []Coord {
	neighbors := make([]Coord, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, col := c.Row+dr, c.Col+dc
			if b.InBounds(r, col) {
				neighbors = append(neighbors, Coord{Row: r, Col: col})
			}
		}
	}
	return neighbors
}

// Each обходит клетки построчно
func (b *Board) Each(fn func(c Coord, state CellState)) {
	for r := 0; r < b.Rows; r++ {
		for c := 0; c < b.Cols; c++ {
			fn(Coord{Row: r, Col: c}, b.cells[r*b.Cols+c])
		}
	}
}

// Count число клеток в указанном состоянии
func (b *Board) Count(state CellState) int {
	n := 0
	for _, s := range b.cells {
		if s == state {
			n++
		}
	}
	return n
}

func (b *Board) Clone() *Board {
	clone := New(b.Rows, b.Cols)
	copy(clone.cells, b.cells)
	return clone
}

func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < b.Rows; r++ {
		for c := 0; c < b.Cols; c++ {
			sb.WriteByte(b.At(r, c).Symbol())
		}
		if r < b.Rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
