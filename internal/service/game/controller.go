package game

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/iamasit07/connect4/engine/internal/domain"
	"github.com/iamasit07/connect4/engine/pkg/uid"
)

type State int

const (
	NotStarted State = iota
	InProgress
	Finished
	Quit
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Finished:
		return "finished"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}

// Outcome says how a finished game ended.
type Outcome int

const (
	NoOutcome Outcome = iota
	Win
	Draw
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Draw:
		return "draw"
	default:
		return "none"
	}
}

// Settings is the board shape of a game.
type Settings struct {
	Rows      int
	Columns   int
	RunLength int
}

func DefaultSettings() Settings {
	return Settings{Rows: domain.Rows, Columns: domain.Columns, RunLength: domain.RunLength}
}

type Option func(*Controller)

func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

func WithGameID(id string) Option {
	return func(c *Controller) {
		if id != "" {
			c.gameID = id
		}
	}
}

// Controller owns one board and two players, sequences turns and tells its
// observers about every transition. All mutating calls are serialized by mu,
// and observers are notified while it is held, so an observer must never
// call back into the controller.
type Controller struct {
	mu sync.Mutex

	gameID   string
	settings Settings
	board    *domain.Board
	player1  *domain.Player
	player2  *domain.Player
	current  *domain.Player
	winner   *domain.Player

	state     State
	outcome   Outcome
	moveCount int
	createdAt time.Time

	observers []domain.Observer
	log       *zap.Logger
}

// NewController validates the configuration before any board exists.
// player1 moves first and must sit in seat one, so it always plays red.
func NewController(settings Settings, player1, player2 *domain.Player, opts ...Option) (*Controller, error) {
	if player1 == nil || player2 == nil {
		return nil, fmt.Errorf("%w: two players are required", domain.ErrConfiguration)
	}
	if settings.RunLength > settings.Columns {
		return nil, fmt.Errorf("%w: run length %d is greater than the %d columns",
			domain.ErrConfiguration, settings.RunLength, settings.Columns)
	}
	if player1.Equal(player2) {
		return nil, fmt.Errorf("%w: both players are named %q", domain.ErrConfiguration, player1.Name())
	}
	if player1.Side() == player2.Side() {
		return nil, fmt.Errorf("%w: both players play %s", domain.ErrConfiguration, player1.Side())
	}
	if player1.Slot() != domain.PlayerOne {
		return nil, fmt.Errorf("%w: %s sits in seat %s but moves first", domain.ErrConfiguration, player1.Name(), player1.Slot())
	}

	board, err := domain.NewBoard(settings.Rows, settings.Columns, settings.RunLength)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		gameID:    uid.GenerateGameID(),
		settings:  settings,
		board:     board,
		player1:   player1,
		player2:   player2,
		current:   player1,
		state:     NotStarted,
		createdAt: time.Now(),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With(zap.String("game_id", c.gameID))
	return c, nil
}

// AddObserver registers o. Observers are notified in registration order.
func (c *Controller) AddObserver(o domain.Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, o)
}

func (c *Controller) StartGame() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != NotStarted {
		return fmt.Errorf("%w: cannot start a game that is %s", domain.ErrInvalidState, c.state)
	}
	c.startLocked()
	return nil
}

func (c *Controller) startLocked() {
	c.board.Initialize()
	c.current = c.player1
	c.winner = nil
	c.outcome = NoOutcome
	c.moveCount = 0
	c.state = InProgress

	c.log.Info("[GAME] Game started",
		zap.String("player1", c.player1.Name()), zap.String("player2", c.player2.Name()),
		zap.Int("rows", c.settings.Rows), zap.Int("columns", c.settings.Columns))

	first := c.current.Slot()
	c.notify("game_start", func(o domain.Observer) { o.OnGameStart(first) })
}

// SubmitMove drops the current player's chip in col. The boolean reports
// whether the chip went in; a full column is not an error. Wins and draws
// are reported to the observers only.
func (c *Controller) SubmitMove(col int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != InProgress {
		return false, fmt.Errorf("%w: cannot move in a game that is %s", domain.ErrInvalidState, c.state)
	}
	if col < 0 || col >= c.settings.Columns {
		return false, fmt.Errorf("%w: %d not in [0,%d)", domain.ErrColumnOutOfRange, col, c.settings.Columns)
	}

	mover := c.current
	slot := mover.Slot()

	if !c.board.Insert(col, mover.Side()) {
		c.log.Debug("[GAME] Column full", zap.Int("column", col), zap.String("player", mover.Name()))
		c.notify("column_full", func(o domain.Observer) { o.OnColumnFull(slot) })
		return false, nil
	}
	c.moveCount++

	row, _ := c.board.LastRow(col)
	c.notify("move", func(o domain.Observer) { o.OnMove(row, col, slot) })

	won, err := c.board.IsWinningMove(col, mover.Side())
	if err != nil {
		// cannot happen: a chip was just inserted in col
		return true, err
	}

	switch {
	case won:
		c.state = Finished
		c.outcome = Win
		c.winner = mover
		c.log.Info("[GAME] Game won", zap.String("winner", mover.Name()), zap.Int("moves", c.moveCount),
			zap.Duration("duration", time.Since(c.createdAt)))
		c.notify("win", func(o domain.Observer) { o.OnWin(slot) })

	case c.board.IsFull():
		c.state = Finished
		c.outcome = Draw
		c.log.Info("[GAME] Game drawn", zap.Int("moves", c.moveCount))
		c.notify("draw", func(o domain.Observer) { o.OnDraw() })

	default:
		c.current = c.opponentOf(mover)
		next := c.current.Slot()
		snapshot := c.board.Snapshot()
		c.notify("turn", func(o domain.Observer) { o.OnTurn(next, snapshot) })
	}

	return true, nil
}

// Reset starts a new game with the same players.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != InProgress && c.state != Finished {
		return fmt.Errorf("%w: cannot reset a game that is %s", domain.ErrInvalidState, c.state)
	}

	c.current = c.player1
	c.log.Info("[GAME] Game reset")
	c.notify("reset", func(o domain.Observer) { o.OnReset() })
	c.startLocked()
	return nil
}

// Quit ends the controller for good.
func (c *Controller) Quit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Quit {
		return fmt.Errorf("%w: game already quit", domain.ErrInvalidState)
	}
	c.state = Quit
	c.log.Info("[GAME] Game quit", zap.Int("moves", c.moveCount))
	c.notify("quit", func(o domain.Observer) { o.OnQuit() })
	return nil
}

// notify calls fn for every observer. A panicking observer is logged and
// skipped so the rest still hear about the event.
func (c *Controller) notify(event string, fn func(domain.Observer)) {
	for i, o := range c.observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.log.Error("[GAME] Observer failed",
						zap.String("event", event), zap.Int("observer", i), zap.Any("panic", r))
				}
			}()
			fn(o)
		}()
	}
}

func (c *Controller) opponentOf(p *domain.Player) *domain.Player {
	if p == c.player1 {
		return c.player2
	}
	return c.player1
}

func (c *Controller) GameID() string     { return c.gameID }
func (c *Controller) Settings() Settings { return c.settings }

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Outcome() Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome
}

func (c *Controller) Winner() (*domain.Player, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.winner, c.winner != nil
}

func (c *Controller) CurrentPlayer() *domain.Player {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Controller) Players() (*domain.Player, *domain.Player) {
	return c.player1, c.player2
}

func (c *Controller) MoveCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.moveCount
}

func (c *Controller) CreatedAt() time.Time {
	return c.createdAt
}

// Snapshot copies the live board; callers can never reach the original.
func (c *Controller) Snapshot() domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.Snapshot()
}
