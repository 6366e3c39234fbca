package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/iamasit07/connect4/engine/internal/domain"
)

// Driver is the single caller of a controller's SubmitMove. It forwards human
// moves and asks computer players for theirs until a human is up again.
type Driver struct {
	ctrl *Controller
	log  *zap.Logger
}

func NewDriver(ctrl *Controller, log *zap.Logger) *Driver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Driver{ctrl: ctrl, log: log.With(zap.String("game_id", ctrl.GameID()))}
}

func (d *Driver) Controller() *Controller {
	return d.ctrl
}

// Play submits col for the human whose turn it is and then lets any
// computer player reply. It reports whether the human's chip went in.
func (d *Driver) Play(col int) (bool, error) {
	if current := d.ctrl.CurrentPlayer(); current.IsComputer() {
		return false, fmt.Errorf("%w: it is %s's turn", domain.ErrInvalidState, current.Name())
	}

	placed, err := d.ctrl.SubmitMove(col)
	if err != nil || !placed {
		return placed, err
	}
	return true, d.Advance()
}

// Advance plays computer moves while the game is running and a computer
// is to move.
func (d *Driver) Advance() error {
	for d.ctrl.State() == InProgress {
		current := d.ctrl.CurrentPlayer()
		col, ok, err := current.MoveFor(d.ctrl.Snapshot())
		if err != nil {
			return fmt.Errorf("computer move for %s: %w", current.Name(), err)
		}
		if !ok {
			return nil
		}

		d.log.Debug("[BOT] Computer move", zap.String("player", current.Name()), zap.Int("column", col))
		placed, err := d.ctrl.SubmitMove(col)
		if err != nil {
			return err
		}
		if !placed {
			// strategies only pick open columns
			return fmt.Errorf("%w: %s chose full column %d", domain.ErrInvalidState, current.Name(), col)
		}
	}
	return nil
}

// Start begins the game and lets a computer open if it sits in slot one.
func (d *Driver) Start() error {
	if err := d.ctrl.StartGame(); err != nil {
		return err
	}
	return d.Advance()
}

// Reset restarts the game with the same players.
func (d *Driver) Reset() error {
	if err := d.ctrl.Reset(); err != nil {
		return err
	}
	return d.Advance()
}

func (d *Driver) Quit() error {
	return d.ctrl.Quit()
}
