package game

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iamasit07/connect4/engine/internal/domain"
	"github.com/iamasit07/connect4/engine/internal/service/bot"
)

// recorder keeps every notification as a short string.
type recorder struct {
	events []string
	boards []domain.Snapshot
}

func (r *recorder) add(format string, args ...interface{}) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) OnGameStart(first domain.PlayerSlot) { r.add("start %d", first) }
func (r *recorder) OnTurn(next domain.PlayerSlot, board domain.Snapshot) {
	r.add("turn %d", next)
	r.boards = append(r.boards, board)
}
func (r *recorder) OnMove(row, col int, by domain.PlayerSlot) { r.add("move %d %d,%d", by, row, col) }
func (r *recorder) OnColumnFull(by domain.PlayerSlot)         { r.add("full %d", by) }
func (r *recorder) OnWin(winner domain.PlayerSlot)            { r.add("win %d", winner) }
func (r *recorder) OnDraw()                                   { r.add("draw") }
func (r *recorder) OnReset()                                  { r.add("reset") }
func (r *recorder) OnQuit()                                   { r.add("quit") }

func (r *recorder) count(event string) int {
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

func human(t *testing.T, name string, slot domain.PlayerSlot) *domain.Player {
	t.Helper()
	p, err := domain.NewPlayer(domain.PlayerConfig{Name: name, Kind: domain.Human, Slot: slot})
	if err != nil {
		t.Fatalf("NewPlayer(%q) error = %v", name, err)
	}
	return p
}

func computer(t *testing.T, seed int64) *domain.Player {
	t.Helper()
	p, err := domain.NewPlayer(domain.PlayerConfig{
		Name:     "Computer",
		Kind:     domain.Computer,
		Slot:     domain.PlayerTwo,
		Strategy: bot.NewOnePly(seed),
	})
	if err != nil {
		t.Fatalf("NewPlayer(computer) error = %v", err)
	}
	return p
}

func newGame(t *testing.T, settings Settings, opts ...Option) (*Controller, *recorder) {
	t.Helper()
	c, err := NewController(settings, human(t, "Ann", domain.PlayerOne), human(t, "Bob", domain.PlayerTwo), opts...)
	if err != nil {
		t.Fatalf("NewController() error = %v", err)
	}
	rec := &recorder{}
	c.AddObserver(rec)
	return c, rec
}

func submit(t *testing.T, c *Controller, cols ...int) {
	t.Helper()
	for _, col := range cols {
		placed, err := c.SubmitMove(col)
		if err != nil {
			t.Fatalf("SubmitMove(%d) error = %v", col, err)
		}
		if !placed {
			t.Fatalf("SubmitMove(%d) was not placed", col)
		}
	}
}

func TestNewControllerConfigurationErrors(t *testing.T) {
	ann := human(t, "Ann", domain.PlayerOne)
	bob := human(t, "Bob", domain.PlayerTwo)
	annAgain := human(t, "ANN", domain.PlayerTwo)
	bobAsOne := human(t, "Bob", domain.PlayerOne)

	tests := []struct {
		name     string
		settings Settings
		p1, p2   *domain.Player
	}{
		{"run length longer than columns", Settings{Rows: 6, Columns: 3, RunLength: 4}, ann, bob},
		{"same name", DefaultSettings(), ann, annAgain},
		{"same player twice", DefaultSettings(), ann, ann},
		{"same side", DefaultSettings(), ann, bobAsOne},
		{"seats swapped", DefaultSettings(), bob, ann},
		{"missing player", DefaultSettings(), ann, nil},
		{"empty board", Settings{Rows: 0, Columns: 7, RunLength: 4}, ann, bob},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewController(tt.settings, tt.p1, tt.p2)
			if !errors.Is(err, domain.ErrConfiguration) {
				t.Errorf("NewController() error = %v, want %v", err, domain.ErrConfiguration)
			}
		})
	}
}

func TestNewControllerRunLengthEqualToColumns(t *testing.T) {
	_, err := NewController(Settings{Rows: 4, Columns: 4, RunLength: 4},
		human(t, "Ann", domain.PlayerOne), human(t, "Bob", domain.PlayerTwo))
	if err != nil {
		t.Errorf("NewController() error = %v", err)
	}
}

func TestStartGame(t *testing.T) {
	c, rec := newGame(t, DefaultSettings(), WithGameID("game-1"))

	if c.State() != NotStarted {
		t.Fatalf("State() = %v before start", c.State())
	}
	if _, err := c.SubmitMove(0); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("SubmitMove before start error = %v, want %v", err, domain.ErrInvalidState)
	}

	if err := c.StartGame(); err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}
	if c.GameID() != "game-1" {
		t.Errorf("GameID() = %q", c.GameID())
	}
	if c.State() != InProgress || c.CurrentPlayer().Slot() != domain.PlayerOne {
		t.Errorf("after start: state %v, current %v", c.State(), c.CurrentPlayer())
	}
	if !reflect.DeepEqual(rec.events, []string{"start 1"}) {
		t.Errorf("events = %v, want [start 1]", rec.events)
	}
	if err := c.StartGame(); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("second StartGame() error = %v, want %v", err, domain.ErrInvalidState)
	}
}

func TestSubmitMoveSequence(t *testing.T) {
	c, rec := newGame(t, DefaultSettings())
	c.StartGame()

	submit(t, c, 3, 3)

	want := []string{"start 1", "move 1 5,3", "turn 2", "move 2 4,3", "turn 1"}
	if !reflect.DeepEqual(rec.events, want) {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
	if c.MoveCount() != 2 {
		t.Errorf("MoveCount() = %d, want 2", c.MoveCount())
	}
	if got := rec.boards[1].ChipAt(4, 3); got != domain.Blue {
		t.Errorf("turn snapshot ChipAt(4, 3) = %v, want blue", got)
	}
}

func TestSubmitMoveOutOfRange(t *testing.T) {
	c, rec := newGame(t, DefaultSettings())
	c.StartGame()

	for _, col := range []int{-1, 7} {
		placed, err := c.SubmitMove(col)
		if placed || !errors.Is(err, domain.ErrColumnOutOfRange) {
			t.Errorf("SubmitMove(%d) = %v, %v, want false, %v", col, placed, err, domain.ErrColumnOutOfRange)
		}
	}
	if len(rec.events) != 1 || c.CurrentPlayer().Slot() != domain.PlayerOne {
		t.Error("out of range move changed the game")
	}
}

func TestSubmitMoveColumnFull(t *testing.T) {
	c, rec := newGame(t, Settings{Rows: 2, Columns: 4, RunLength: 3})
	c.StartGame()
	submit(t, c, 0, 0)

	placed, err := c.SubmitMove(0)
	if err != nil || placed {
		t.Fatalf("SubmitMove(full) = %v, %v, want false, nil", placed, err)
	}
	if got := rec.events[len(rec.events)-1]; got != "full 1" {
		t.Errorf("last event = %q, want \"full 1\"", got)
	}
	if c.CurrentPlayer().Slot() != domain.PlayerOne {
		t.Error("turn passed after a full column")
	}
	if c.MoveCount() != 2 || c.State() != InProgress {
		t.Error("full column changed the game state")
	}
}

func TestSubmitMoveWin(t *testing.T) {
	c, rec := newGame(t, DefaultSettings())
	c.StartGame()

	// Ann stacks column 0, Bob column 1
	submit(t, c, 0, 1, 0, 1, 0, 1, 0)

	if c.State() != Finished || c.Outcome() != Win {
		t.Fatalf("state %v outcome %v, want finished win", c.State(), c.Outcome())
	}
	winner, ok := c.Winner()
	if !ok || winner.Name() != "Ann" {
		t.Errorf("Winner() = %v, %v", winner, ok)
	}

	tail := rec.events[len(rec.events)-2:]
	if !reflect.DeepEqual(tail, []string{"move 1 2,0", "win 1"}) {
		t.Errorf("last events = %v", tail)
	}
	if rec.count("turn 2")+rec.count("turn 1") != 6 {
		t.Errorf("expected a turn after each of the six earlier moves, got %v", rec.events)
	}

	if _, err := c.SubmitMove(2); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("SubmitMove after win error = %v, want %v", err, domain.ErrInvalidState)
	}
}

// a 42 move fill of the standard board in which nobody lines up four
var drawnGame = []int{
	0, 3, 0, 6, 1, 3, 0, 5, 4, 1, 1, 1, 1, 2, 4, 3, 5, 2, 3, 3, 1,
	0, 0, 5, 3, 0, 2, 6, 6, 2, 2, 6, 6, 4, 6, 2, 4, 4, 5, 5, 4, 5,
}

func TestSubmitMoveDraw(t *testing.T) {
	c, rec := newGame(t, DefaultSettings())
	c.StartGame()

	submit(t, c, drawnGame...)

	if c.State() != Finished || c.Outcome() != Draw {
		t.Fatalf("state %v outcome %v, want finished draw", c.State(), c.Outcome())
	}
	if _, ok := c.Winner(); ok {
		t.Error("draw has a winner")
	}
	if rec.count("draw") != 1 {
		t.Errorf("draw notified %d times", rec.count("draw"))
	}
	if rec.count("win 1")+rec.count("win 2") != 0 {
		t.Error("win notified in a drawn game")
	}
	if c.MoveCount() != 42 || !c.Snapshot().IsFull() {
		t.Error("board is not full after the last move")
	}
}

func TestReset(t *testing.T) {
	for _, tt := range []struct {
		name  string
		moves []int
	}{
		{"after win", []int{0, 1, 0, 1, 0, 1, 0}},
		{"after draw", drawnGame},
		{"mid game", []int{3, 4}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newGame(t, DefaultSettings())
			c.StartGame()
			submit(t, c, tt.moves...)
			rec.events = nil

			if err := c.Reset(); err != nil {
				t.Fatalf("Reset() error = %v", err)
			}
			if !reflect.DeepEqual(rec.events, []string{"reset", "start 1"}) {
				t.Errorf("events = %v, want [reset start 1]", rec.events)
			}
			snap := c.Snapshot()
			if snap.RemainingSpots() != domain.Rows*domain.Columns {
				t.Error("board not empty after reset")
			}
			if c.CurrentPlayer().Slot() != domain.PlayerOne || c.State() != InProgress || c.MoveCount() != 0 {
				t.Errorf("after reset: current %v state %v moves %d", c.CurrentPlayer(), c.State(), c.MoveCount())
			}
			if _, ok := c.Winner(); ok || c.Outcome() != NoOutcome {
				t.Error("reset kept the previous result")
			}
		})
	}
}

func TestResetBeforeStart(t *testing.T) {
	c, _ := newGame(t, DefaultSettings())
	if err := c.Reset(); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("Reset() error = %v, want %v", err, domain.ErrInvalidState)
	}
}

func TestQuit(t *testing.T) {
	c, rec := newGame(t, DefaultSettings())
	c.StartGame()
	submit(t, c, 2)

	if err := c.Quit(); err != nil {
		t.Fatalf("Quit() error = %v", err)
	}
	if c.State() != Quit || rec.events[len(rec.events)-1] != "quit" {
		t.Errorf("state %v events %v", c.State(), rec.events)
	}

	if err := c.Quit(); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("second Quit() error = %v, want %v", err, domain.ErrInvalidState)
	}
	if _, err := c.SubmitMove(2); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("SubmitMove after quit error = %v", err)
	}
	if err := c.Reset(); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("Reset after quit error = %v", err)
	}
}

type panicky struct{ domain.NopObserver }

func (panicky) OnMove(int, int, domain.PlayerSlot) { panic("boom") }

func TestObserverPanicIsIsolated(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	c, err := NewController(DefaultSettings(), human(t, "Ann", domain.PlayerOne), human(t, "Bob", domain.PlayerTwo),
		WithLogger(zap.New(core)))
	if err != nil {
		t.Fatalf("NewController() error = %v", err)
	}
	rec := &recorder{}
	c.AddObserver(panicky{})
	c.AddObserver(rec)
	c.StartGame()

	submit(t, c, 4)

	if rec.count("move 1 5,4") != 1 || rec.count("turn 2") != 1 {
		t.Errorf("later observer missed events: %v", rec.events)
	}
	entries := logs.FilterMessage("[GAME] Observer failed").All()
	if len(entries) != 1 {
		t.Fatalf("logged %d observer failures, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["event"]; got != "move" {
		t.Errorf("failure logged for event %v, want move", got)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	c, rec := newGame(t, DefaultSettings())
	c.StartGame()
	submit(t, c, 0)

	snap := c.Snapshot()
	turnBoard := rec.boards[0]
	submit(t, c, 0, 0)

	if snap.ChipAt(4, 0) != domain.Empty || turnBoard.ChipAt(4, 0) != domain.Empty {
		t.Error("snapshot follows the live board")
	}
	if c.Snapshot().ChipAt(3, 0) != domain.Red {
		t.Error("live board missing a move")
	}
}

func TestComputerGameFinishes(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		c, err := NewController(DefaultSettings(), computerAsOne(t, seed), computer(t, seed+100))
		if err != nil {
			t.Fatalf("NewController() error = %v", err)
		}
		d := NewDriver(c, nil)
		if err := d.Start(); err != nil {
			t.Fatalf("seed %d: Start() error = %v", seed, err)
		}
		if c.State() != Finished {
			t.Errorf("seed %d: computer game ended in state %v", seed, c.State())
		}
	}
}

func computerAsOne(t *testing.T, seed int64) *domain.Player {
	t.Helper()
	p, err := domain.NewPlayer(domain.PlayerConfig{
		Name:     "Deep Red",
		Kind:     domain.Computer,
		Slot:     domain.PlayerOne,
		Strategy: bot.NewOnePly(seed),
	})
	if err != nil {
		t.Fatalf("NewPlayer() error = %v", err)
	}
	return p
}
