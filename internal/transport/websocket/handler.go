package websocket

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/iamasit07/connect4/engine/internal/domain"
	"github.com/iamasit07/connect4/engine/internal/service/game"
	"github.com/iamasit07/connect4/engine/pkg/auth"
	"github.com/iamasit07/connect4/engine/pkg/httputil"
	"github.com/iamasit07/connect4/engine/pkg/uid"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second

	// sent once after init so a late viewer can draw the board
	EventSnapshot domain.EventType = "snapshot"
)

// ClientMessage is what a spectator may send. Only "init" means anything.
type ClientMessage struct {
	Type     string                 `json:"type"`
	Contents map[string]interface{} `json:"contents"`
}

type initContents struct {
	Token string `mapstructure:"token"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Handler upgrades spectator connections and attaches them to the hub.
type Handler struct {
	Hub      *Hub
	Registry *game.Registry
	Tokens   *auth.TokenIssuer
	Upgrader websocket.Upgrader
	log      *zap.Logger
}

func NewHandler(hub *Hub, registry *game.Registry, tokens *auth.TokenIssuer, checkOrigin func(r *http.Request) bool, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		Hub:      hub,
		Registry: registry,
		Tokens:   tokens,
		Upgrader: websocket.Upgrader{
			CheckOrigin:     checkOrigin,
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		log: log,
	}
}

// HandleWebSocket is the HTTP handler that upgrades the connection
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("[WS] Upgrade error", zap.Error(err))
		return
	}
	token, _ := httputil.TokenFromRequest(r)
	h.handleConnection(conn, token)
}

func (h *Handler) handleConnection(conn *websocket.Conn, token string) {
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// 1. token from the upgrade request, else from an init message
	ctrl, ok := h.authenticate(conn, token)
	if !ok {
		conn.Close()
		return
	}
	gameID := ctrl.GameID()
	connID := uid.GenerateConnectionID()

	h.Hub.AddSpectator(gameID, connID, conn)
	defer h.Hub.RemoveSpectator(gameID, connID)

	done := make(chan struct{})
	defer close(done)
	go h.keepAlive(gameID, connID, done)

	// 2. current board for late joiners
	snapshot := ctrl.Snapshot()
	h.Hub.Send(gameID, connID, domain.Event{
		Type:   EventSnapshot,
		GameID: gameID,
		Player: int(ctrl.CurrentPlayer().Slot()),
		Board:  snapshot.IntGrid(),
	})

	// 3. drain until the viewer goes away; spectators cannot act on the game
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Info("[WS] Spectator disconnected unexpectedly", zap.String("conn_id", connID), zap.Error(err))
			}
			return
		}
	}
}

func (h *Handler) authenticate(conn *websocket.Conn, token string) (*game.Controller, bool) {
	if token == "" {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			h.log.Info("[WS] Invalid init message", zap.Error(err))
			return nil, false
		}

		var contents initContents
		if msg.Type != "init" || mapstructure.Decode(msg.Contents, &contents) != nil || contents.Token == "" {
			conn.WriteJSON(ErrorMessage{Type: "error", Message: "Missing initialization or token"})
			return nil, false
		}
		token = contents.Token
	}

	claims, err := h.Tokens.ValidateSpectatorToken(token)
	if err != nil {
		h.log.Info("[WS] Invalid token during init", zap.Error(err))
		conn.WriteJSON(ErrorMessage{Type: "error", Message: "Invalid token or token expired"})
		return nil, false
	}

	ctrl, ok := h.Registry.Get(claims.GameID)
	if !ok {
		conn.WriteJSON(ErrorMessage{Type: "error", Message: "Game not found"})
		return nil, false
	}
	return ctrl, true
}

func (h *Handler) keepAlive(gameID, connID string, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := h.Hub.Ping(gameID, connID); err != nil {
				return
			}
		}
	}
}
