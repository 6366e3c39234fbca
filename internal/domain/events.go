package domain

// Observer receives every state change of a game. Calls are synchronous and
// arrive in the order the changes happen, while the controller is locked.
// Implementations must not call back into the controller from inside a
// callback, and anything that does I/O should queue it instead.
type Observer interface {
	OnGameStart(first PlayerSlot)
	OnTurn(next PlayerSlot, board Snapshot)
	OnMove(row, col int, by PlayerSlot)
	OnColumnFull(by PlayerSlot)
	OnWin(winner PlayerSlot)
	OnDraw()
	OnReset()
	OnQuit()
}

// NopObserver can be embedded by observers that only care about a few events.
type NopObserver struct{}

func (NopObserver) OnGameStart(PlayerSlot)      {}
func (NopObserver) OnTurn(PlayerSlot, Snapshot) {}
func (NopObserver) OnMove(int, int, PlayerSlot) {}
func (NopObserver) OnColumnFull(PlayerSlot)     {}
func (NopObserver) OnWin(PlayerSlot)            {}
func (NopObserver) OnDraw()                     {}
func (NopObserver) OnReset()                    {}
func (NopObserver) OnQuit()                     {}

// EventType names an observer callback on the wire
type EventType string

const (
	EventGameStart  EventType = "game_start"
	EventTurn       EventType = "turn"
	EventMove       EventType = "move_made"
	EventColumnFull EventType = "column_full"
	EventWin        EventType = "win"
	EventDraw       EventType = "draw"
	EventReset      EventType = "reset"
	EventQuit       EventType = "quit"
)

// Event is the serializable form of a notification, used by the transports
// that forward observer calls to remote viewers.
type Event struct {
	Type   EventType `json:"type"`
	GameID string    `json:"gameId,omitempty"`
	Player int       `json:"player,omitempty"`
	Row    *int      `json:"row,omitempty"`
	Column *int      `json:"column,omitempty"`
	Board  [][]int   `json:"board,omitempty"`
}

// EventRecorder turns observer calls into Events and hands them to Emit.
// It follows the moves it sees so that start, reset, win and draw events
// carry the board as well as turns do. Every emitted board is a fresh copy.
type EventRecorder struct {
	GameID string
	Emit   func(Event)

	rows, columns int
	grid          [][]int
}

// NewEventRecorder records events of a rows x columns game. A recorder
// without dimensions only learns the board from the first turn.
func NewEventRecorder(gameID string, rows, columns int, emit func(Event)) *EventRecorder {
	return &EventRecorder{GameID: gameID, Emit: emit, rows: rows, columns: columns}
}

var _ Observer = (*EventRecorder)(nil)

func (r *EventRecorder) OnGameStart(first PlayerSlot) {
	r.clear()
	r.Emit(Event{Type: EventGameStart, GameID: r.GameID, Player: int(first), Board: r.board()})
}

func (r *EventRecorder) OnTurn(next PlayerSlot, board Snapshot) {
	r.grid = board.IntGrid()
	r.Emit(Event{Type: EventTurn, GameID: r.GameID, Player: int(next), Board: r.board()})
}

func (r *EventRecorder) OnMove(row, col int, by PlayerSlot) {
	if row >= 0 && row < len(r.grid) && col >= 0 && col < len(r.grid[row]) {
		r.grid[row][col] = int(by.Side())
	}
	r.Emit(Event{Type: EventMove, GameID: r.GameID, Player: int(by), Row: &row, Column: &col})
}

func (r *EventRecorder) OnColumnFull(by PlayerSlot) {
	r.Emit(Event{Type: EventColumnFull, GameID: r.GameID, Player: int(by)})
}

func (r *EventRecorder) OnWin(winner PlayerSlot) {
	r.Emit(Event{Type: EventWin, GameID: r.GameID, Player: int(winner), Board: r.board()})
}

func (r *EventRecorder) OnDraw() {
	r.Emit(Event{Type: EventDraw, GameID: r.GameID, Board: r.board()})
}

func (r *EventRecorder) OnReset() {
	r.clear()
	r.Emit(Event{Type: EventReset, GameID: r.GameID, Board: r.board()})
}

func (r *EventRecorder) OnQuit() { r.Emit(Event{Type: EventQuit, GameID: r.GameID}) }

func (r *EventRecorder) clear() {
	if r.rows <= 0 || r.columns <= 0 {
		if len(r.grid) == 0 {
			return
		}
		r.rows, r.columns = len(r.grid), len(r.grid[0])
	}
	r.grid = make([][]int, r.rows)
	for i := range r.grid {
		r.grid[i] = make([]int, r.columns)
	}
}

// board copies the tracked grid; nil until the dimensions are known.
func (r *EventRecorder) board() [][]int {
	if r.grid == nil {
		return nil
	}
	out := make([][]int, len(r.grid))
	for i := range r.grid {
		out[i] = append([]int(nil), r.grid[i]...)
	}
	return out
}
