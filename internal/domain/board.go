package domain

import (
	"fmt"
	"strings"
)

// Board is the logical grid behind a game. Row 0 is the top row and chips
// fall towards rows-1. It never notifies anyone; the controller does that.
type Board struct {
	rows      int
	columns   int
	runLength int

	// row-major, rows*columns long
	cells []Chip

	// next row that will receive a chip in each column, -1 once full
	nextRow []int

	remaining int
}

func NewBoard(rows, columns, runLength int) (*Board, error) {
	if rows < 1 || columns < 1 || runLength < 1 {
		return nil, fmt.Errorf("%w: board %dx%d with run length %d", ErrConfiguration, rows, columns, runLength)
	}

	b := &Board{
		rows:      rows,
		columns:   columns,
		runLength: runLength,
		cells:     make([]Chip, rows*columns),
		nextRow:   make([]int, columns),
	}
	b.Initialize()
	return b, nil
}

// Initialize empties every cell. It is also how a board is reset.
func (b *Board) Initialize() {
	for i := range b.cells {
		b.cells[i] = Empty
	}
	for c := range b.nextRow {
		b.nextRow[c] = b.rows - 1
	}
	b.remaining = b.rows * b.columns
}

func (b *Board) Rows() int      { return b.rows }
func (b *Board) Columns() int   { return b.columns }
func (b *Board) RunLength() int { return b.runLength }

func (b *Board) RemainingSpots() int {
	return b.remaining
}

// NextRow returns the row the next chip dropped in col will land on, or -1.
func (b *Board) NextRow(col int) int {
	if col < 0 || col >= b.columns {
		return -1
	}
	return b.nextRow[col]
}

func (b *Board) IsColumnAvailable(col int) bool {
	return b.NextRow(col) >= 0
}

// AvailableColumns lists the open columns in ascending order.
func (b *Board) AvailableColumns() []int {
	cols := make([]int, 0, b.columns)
	for c := 0; c < b.columns; c++ {
		if b.nextRow[c] >= 0 {
			cols = append(cols, c)
		}
	}
	return cols
}

// Insert drops chip into col. A full column is an ordinary outcome: it
// returns false and leaves the board untouched.
func (b *Board) Insert(col int, chip Chip) bool {
	if !b.IsColumnAvailable(col) {
		return false
	}
	row := b.nextRow[col]
	b.cells[b.index(row, col)] = chip
	b.nextRow[col]--
	b.remaining--
	return true
}

func (b *Board) IsFull() bool {
	return b.remaining == 0
}

// ChipAt panics on coordinates outside the board, like a slice index would.
func (b *Board) ChipAt(row, col int) Chip {
	if row < 0 || row >= b.rows || col < 0 || col >= b.columns {
		panic(fmt.Sprintf("domain: cell (%d,%d) outside %dx%d board", row, col, b.rows, b.columns))
	}
	return b.cells[b.index(row, col)]
}

// LastRow is the row of the most recent chip in col.
func (b *Board) LastRow(col int) (int, bool) {
	if col < 0 || col >= b.columns {
		return -1, false
	}
	row := b.nextRow[col] + 1
	if row >= b.rows {
		return -1, false
	}
	return row, true
}

// WouldWin plays chip into col on a throwaway copy and reports whether that
// move wins. The receiver is never modified.
func (b *Board) WouldWin(col int, chip Chip) bool {
	lookahead := b.Clone()
	if !lookahead.Insert(col, chip) {
		return false
	}
	won, err := lookahead.IsWinningMove(col, chip)
	return err == nil && won
}

// Clone makes a deep copy that shares nothing with b.
func (b *Board) Clone() *Board {
	nb := &Board{
		rows:      b.rows,
		columns:   b.columns,
		runLength: b.runLength,
		cells:     make([]Chip, len(b.cells)),
		nextRow:   make([]int, len(b.nextRow)),
		remaining: b.remaining,
	}
	copy(nb.cells, b.cells)
	copy(nb.nextRow, b.nextRow)
	return nb
}

func (b *Board) Snapshot() Snapshot {
	return Snapshot{board: b.Clone()}
}

// Grid returns a fresh 2-D copy of the cells
func (b *Board) Grid() [][]Chip {
	grid := make([][]Chip, b.rows)
	for r := range grid {
		grid[r] = make([]Chip, b.columns)
		copy(grid[r], b.cells[r*b.columns:(r+1)*b.columns])
	}
	return grid
}

func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < b.rows; r++ {
		sb.WriteByte('|')
		for c := 0; c < b.columns; c++ {
			switch b.cells[b.index(r, c)] {
			case Red:
				sb.WriteByte('X')
			case Blue:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
			sb.WriteByte('|')
		}
		sb.WriteByte('\n')
	}
	for c := 0; c < b.columns; c++ {
		fmt.Fprintf(&sb, " %d", (c+1)%10)
	}
	sb.WriteByte('\n')
	return sb.String()
}

func (b *Board) index(row, col int) int {
	return row*b.columns + col
}
