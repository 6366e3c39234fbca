package websocket

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/iamasit07/connect4/engine/internal/domain"
)

const (
	writeWait = 10 * time.Second

	// messages buffered per spectator before it counts as stalled
	defaultQueueSize = 64
)

var errSpectatorGone = errors.New("spectator gone")

type spectator struct {
	id     string
	gameID string
	conn   *websocket.Conn

	// drained by the writer goroutine; closed under Hub.mu while the
	// spectator is still registered, so exactly once
	out chan interface{}
}

// Hub fans game events out to the spectators watching each game. Viewers
// only ever receive copies of the board; nothing they send reaches a game.
type Hub struct {
	// gameID -> connection ID -> spectator
	games     map[string]map[string]*spectator
	mu        sync.RWMutex
	queueSize int
	log       *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		games:     make(map[string]map[string]*spectator),
		queueSize: defaultQueueSize,
		log:       log,
	}
}

// Observer returns the observer to register on the controller of gameID.
func (h *Hub) Observer(gameID string, rows, columns int) domain.Observer {
	return domain.NewEventRecorder(gameID, rows, columns, func(ev domain.Event) {
		h.Broadcast(gameID, ev)
	})
}

// AddSpectator registers conn under gameID and starts its writer.
func (h *Hub) AddSpectator(gameID, connID string, conn *websocket.Conn) {
	s := &spectator{id: connID, gameID: gameID, conn: conn, out: make(chan interface{}, h.queueSize)}

	h.mu.Lock()
	if h.games[gameID] == nil {
		h.games[gameID] = make(map[string]*spectator)
	}
	if old, ok := h.games[gameID][connID]; ok {
		close(old.out)
		old.conn.Close()
	}
	h.games[gameID][connID] = s
	h.mu.Unlock()

	go h.writePump(s)
	h.log.Info("[WS] Spectator joined", zap.String("game_id", gameID), zap.String("conn_id", connID))
}

// writePump sends queued messages in order until the queue is closed or a
// write fails, then closes the connection.
func (h *Hub) writePump(s *spectator) {
	defer s.conn.Close()
	for v := range s.out {
		s.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := s.conn.WriteJSON(v); err != nil {
			h.log.Warn("[WS] Dropping spectator after failed write",
				zap.String("conn_id", s.id), zap.Error(err))
			h.RemoveSpectator(s.gameID, s.id)
			return
		}
	}
}

// RemoveSpectator closes and forgets a connection.
func (h *Hub) RemoveSpectator(gameID, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	watchers, ok := h.games[gameID]
	if !ok {
		return
	}
	if s, ok := watchers[connID]; ok {
		close(s.out)
		s.conn.Close()
		delete(watchers, connID)
		h.log.Info("[WS] Spectator left", zap.String("game_id", gameID), zap.String("conn_id", connID))
	}
	if len(watchers) == 0 {
		delete(h.games, gameID)
	}
}

// SpectatorCount is the number of viewers of gameID.
func (h *Hub) SpectatorCount(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.games[gameID])
}

// Send queues one message for one spectator.
func (h *Hub) Send(gameID, connID string, v interface{}) error {
	h.mu.RLock()
	s, ok := h.games[gameID][connID]
	if !ok {
		h.mu.RUnlock()
		return nil // spectator left, ignore
	}
	queued := enqueue(s, v)
	h.mu.RUnlock()

	if !queued {
		h.dropStalled(gameID, connID)
		return errSpectatorGone
	}
	return nil
}

// Ping sends a keep-alive to one spectator. WriteControl may run alongside
// the writer goroutine.
func (h *Hub) Ping(gameID, connID string) error {
	h.mu.RLock()
	s, ok := h.games[gameID][connID]
	h.mu.RUnlock()

	if !ok {
		return errSpectatorGone
	}
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Broadcast queues ev for every spectator of gameID and returns without
// waiting for any write. A spectator whose queue is full is dropped.
func (h *Hub) Broadcast(gameID string, ev domain.Event) {
	var stalled []string

	h.mu.RLock()
	for id, s := range h.games[gameID] {
		if !enqueue(s, ev) {
			stalled = append(stalled, id)
		}
	}
	h.mu.RUnlock()

	for _, id := range stalled {
		h.dropStalled(gameID, id)
	}
}

func enqueue(s *spectator, v interface{}) bool {
	select {
	case s.out <- v:
		return true
	default:
		return false
	}
}

func (h *Hub) dropStalled(gameID, connID string) {
	h.log.Warn("[WS] Dropping stalled spectator",
		zap.String("game_id", gameID), zap.String("conn_id", connID))
	h.RemoveSpectator(gameID, connID)
}

// CloseGame disconnects everyone watching gameID once their queued
// messages are written.
func (h *Hub) CloseGame(gameID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, s := range h.games[gameID] {
		close(s.out)
	}
	delete(h.games, gameID)
}
