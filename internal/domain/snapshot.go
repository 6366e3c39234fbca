package domain

import "fmt"

// BoardView is the read-only face of a board. Both *Board and Snapshot
// satisfy it, so strategies can run against either.
type BoardView interface {
	Rows() int
	Columns() int
	RunLength() int
	ChipAt(row, col int) Chip
	IsColumnAvailable(col int) bool
	AvailableColumns() []int
	RemainingSpots() int
	IsFull() bool
	WouldWin(col int, chip Chip) bool
}

// Snapshot is an independent copy of a board handed to observers. It has no
// mutating methods, and nothing it returns aliases the copy it holds.
// Snapshots come from Board.Snapshot; the zero value reads as a 0x0 board.
type Snapshot struct {
	board *Board
}

var _ BoardView = Snapshot{}
var _ BoardView = (*Board)(nil)

func (s Snapshot) Rows() int {
	if s.board == nil {
		return 0
	}
	return s.board.Rows()
}

func (s Snapshot) Columns() int {
	if s.board == nil {
		return 0
	}
	return s.board.Columns()
}

func (s Snapshot) RunLength() int {
	if s.board == nil {
		return 0
	}
	return s.board.RunLength()
}

// ChipAt panics outside the board, which for the zero value is everywhere.
func (s Snapshot) ChipAt(row, col int) Chip {
	if s.board == nil {
		panic(fmt.Sprintf("domain: cell (%d,%d) outside an empty snapshot", row, col))
	}
	return s.board.ChipAt(row, col)
}

func (s Snapshot) IsColumnAvailable(col int) bool {
	return s.board != nil && s.board.IsColumnAvailable(col)
}

func (s Snapshot) AvailableColumns() []int {
	if s.board == nil {
		return nil
	}
	return s.board.AvailableColumns()
}

func (s Snapshot) RemainingSpots() int {
	if s.board == nil {
		return 0
	}
	return s.board.RemainingSpots()
}

func (s Snapshot) IsFull() bool { return s.board == nil || s.board.IsFull() }

func (s Snapshot) WouldWin(col int, chip Chip) bool {
	return s.board != nil && s.board.WouldWin(col, chip)
}

func (s Snapshot) Grid() [][]Chip {
	if s.board == nil {
		return [][]Chip{}
	}
	return s.board.Grid()
}

func (s Snapshot) String() string {
	if s.board == nil {
		return ""
	}
	return s.board.String()
}

// IntGrid converts the cells to plain ints for JSON payloads and storage.
func (s Snapshot) IntGrid() [][]int {
	grid := s.Grid()
	out := make([][]int, len(grid))
	for r := range grid {
		out[r] = make([]int, len(grid[r]))
		for c := range grid[r] {
			out[r][c] = int(grid[r][c])
		}
	}
	return out
}
