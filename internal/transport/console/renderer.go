package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/iamasit07/connect4/engine/internal/domain"
)

// Renderer prints a game to a terminal. Columns are shown 1-based.
type Renderer struct {
	mu    sync.Mutex
	out   io.Writer
	names map[domain.PlayerSlot]string
}

var _ domain.Observer = (*Renderer)(nil)

func NewRenderer(out io.Writer, player1, player2 *domain.Player) *Renderer {
	return &Renderer{
		out: out,
		names: map[domain.PlayerSlot]string{
			player1.Slot(): player1.Name(),
			player2.Slot(): player2.Name(),
		},
	}
}

func (r *Renderer) name(slot domain.PlayerSlot) string {
	if n, ok := r.names[slot]; ok {
		return n
	}
	return "player " + slot.String()
}

func (r *Renderer) printf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, format, args...)
}

// Board prints board followed by a blank line.
func (r *Renderer) Board(board domain.BoardView) {
	r.printf("%s\n", board)
}

func (r *Renderer) OnGameStart(first domain.PlayerSlot) {
	r.printf("New game. %s (%s) moves first.\n", r.name(first), first.Side())
}

func (r *Renderer) OnTurn(next domain.PlayerSlot, board domain.Snapshot) {
	r.printf("\n%s\n%s (%s) to move.\n", board, r.name(next), next.Side())
}

func (r *Renderer) OnMove(row, col int, by domain.PlayerSlot) {
	r.printf("%s dropped a chip in column %d.\n", r.name(by), col+1)
}

func (r *Renderer) OnColumnFull(by domain.PlayerSlot) {
	r.printf("That column is full, %s. Pick another.\n", r.name(by))
}

func (r *Renderer) OnWin(winner domain.PlayerSlot) {
	r.printf("%s wins!\n", r.name(winner))
}

func (r *Renderer) OnDraw()  { r.printf("The board is full. It's a draw.\n") }
func (r *Renderer) OnReset() { r.printf("Board cleared.\n") }
func (r *Renderer) OnQuit()  { r.printf("Game over.\n") }
