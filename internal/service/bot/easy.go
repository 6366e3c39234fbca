package bot

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/iamasit07/connect4/engine/internal/domain"
)

// OnePly looks a single move ahead: it plays the lowest column that wins on
// the spot, otherwise a uniformly random open column. It does not block the
// opponent and searches no deeper.
type OnePly struct {
	mu  sync.Mutex
	rng *rand.Rand
}

var _ domain.Strategy = (*OnePly)(nil)

// NewOnePly seeds the random fallback. A zero seed uses the clock.
func NewOnePly(seed int64) *OnePly {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &OnePly{rng: rand.New(rand.NewSource(seed))}
}

func (s *OnePly) ChooseColumn(view domain.BoardView, side domain.Chip) (int, error) {
	validColumns := view.AvailableColumns()
	if len(validColumns) == 0 {
		return -1, fmt.Errorf("%w: no columns available", domain.ErrInvalidState)
	}

	for _, col := range validColumns {
		if view.WouldWin(col, side) {
			return col, nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return validColumns[s.rng.Intn(len(validColumns))], nil
}
