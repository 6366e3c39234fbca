package domain

import "fmt"

// the four axes through a cell: horizontal, vertical, diagonal \ and diagonal /
var axes = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{-1, 1},
}

// IsWinningMove reports whether the most recent chip in col completes a run
// of chip. Only lines through that cell are scanned, and on each axis only the
// 2*runLength-1 cells centred on it, clipped at the edges. The run does not
// have to be centred on the new chip.
func (b *Board) IsWinningMove(col int, chip Chip) (bool, error) {
	row, ok := b.LastRow(col)
	if !ok {
		return false, fmt.Errorf("%w: no chip has been dropped in column %d", ErrInvalidState, col)
	}

	for _, axis := range axes {
		if b.runThrough(row, col, axis[0], axis[1], chip) {
			return true, nil
		}
	}
	return false, nil
}

func (b *Board) runThrough(row, col, dRow, dCol int, chip Chip) bool {
	reach := b.runLength - 1
	count := 0
	for step := -reach; step <= reach; step++ {
		r, c := row+step*dRow, col+step*dCol
		if r < 0 || r >= b.rows || c < 0 || c >= b.columns {
			continue
		}
		if b.cells[b.index(r, c)] == chip {
			count++
			if count == b.runLength {
				return true
			}
		} else {
			count = 0
		}
	}
	return false
}
