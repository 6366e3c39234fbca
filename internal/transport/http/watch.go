package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/iamasit07/connect4/engine/internal/domain"
	"github.com/iamasit07/connect4/engine/internal/service/game"
	"github.com/iamasit07/connect4/engine/pkg/auth"
	"github.com/iamasit07/connect4/engine/pkg/httputil"
	"github.com/iamasit07/connect4/engine/pkg/uid"
)

// SpectatorCounter reports how many viewers a game has.
type SpectatorCounter interface {
	SpectatorCount(gameID string) int
}

type WatchHandler struct {
	Registry     *game.Registry
	Spectators   SpectatorCounter
	Tokens       *auth.TokenIssuer
	WatchKeyHash string
	log          *zap.Logger
}

func NewWatchHandler(registry *game.Registry, spectators SpectatorCounter, tokens *auth.TokenIssuer, watchKeyHash string, log *zap.Logger) *WatchHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WatchHandler{
		Registry:     registry,
		Spectators:   spectators,
		Tokens:       tokens,
		WatchKeyHash: watchKeyHash,
		log:          log,
	}
}

type liveGameResponse struct {
	game.LiveGame
	SpectatorCount int `json:"spectatorCount"`
}

// GetLiveGames returns all games available for spectating
func (h *WatchHandler) GetLiveGames(c *gin.Context) {
	liveGames := h.Registry.LiveGames()

	response := make([]liveGameResponse, 0, len(liveGames))
	for _, g := range liveGames {
		response = append(response, liveGameResponse{
			LiveGame:       g,
			SpectatorCount: h.Spectators.SpectatorCount(g.GameID),
		})
	}

	c.JSON(http.StatusOK, response)
}

type playerResponse struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Slot        int    `json:"slot"`
	Side        string `json:"side"`
	GamesPlayed int    `json:"gamesPlayed"`
	GamesWon    int    `json:"gamesWon"`
}

type gameResponse struct {
	GameID        string           `json:"gameId"`
	State         string           `json:"state"`
	Outcome       string           `json:"outcome"`
	Players       []playerResponse `json:"players"`
	CurrentPlayer int              `json:"currentPlayer"`
	Winner        int              `json:"winner,omitempty"`
	MoveCount     int              `json:"moveCount"`
	Rows          int              `json:"rows"`
	Columns       int              `json:"columns"`
	RunLength     int              `json:"runLength"`
	Board         [][]int          `json:"board"`
}

// GetGame returns a copy of one game's board and status
func (h *WatchHandler) GetGame(c *gin.Context) {
	ctrl, ok := h.lookup(c)
	if !ok {
		return
	}

	p1, p2 := ctrl.Players()
	settings := ctrl.Settings()
	response := gameResponse{
		GameID:        ctrl.GameID(),
		State:         ctrl.State().String(),
		Outcome:       ctrl.Outcome().String(),
		CurrentPlayer: int(ctrl.CurrentPlayer().Slot()),
		MoveCount:     ctrl.MoveCount(),
		Rows:          settings.Rows,
		Columns:       settings.Columns,
		RunLength:     settings.RunLength,
		Board:         ctrl.Snapshot().IntGrid(),
	}
	response.Players = []playerResponse{toPlayerResponse(p1), toPlayerResponse(p2)}
	if winner, ok := ctrl.Winner(); ok {
		response.Winner = int(winner.Slot())
	}

	c.JSON(http.StatusOK, response)
}

func toPlayerResponse(p *domain.Player) playerResponse {
	return playerResponse{
		Name:        p.Name(),
		Kind:        string(p.Kind()),
		Slot:        int(p.Slot()),
		Side:        p.Side().String(),
		GamesPlayed: p.GamesPlayed(),
		GamesWon:    p.GamesWon(),
	}
}

type watchRequest struct {
	Key string `json:"key"`
}

type watchResponse struct {
	Token string `json:"token"`
}

// IssueToken trades the watch key for a spectator token of one game
func (h *WatchHandler) IssueToken(c *gin.Context) {
	ctrl, ok := h.lookup(c)
	if !ok {
		return
	}

	var req watchRequest
	if err := c.ShouldBindJSON(&req); err != nil && h.WatchKeyHash != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := auth.CheckWatchKey(req.Key, h.WatchKeyHash); err != nil {
		if errors.Is(err, auth.ErrWatchKeyMismatch) {
			h.log.Info("[WATCH] Rejected watch key", zap.String("game_id", ctrl.GameID()))
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid watch key"})
		return
	}

	token, err := h.Tokens.GenerateSpectatorToken(ctrl.GameID(), uid.GenerateConnectionID())
	if err != nil {
		h.log.Error("[WATCH] Failed to sign token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	httputil.SetSpectatorCookie(c.Writer, token, h.Tokens.TTL(), c.Request.TLS != nil)
	c.JSON(http.StatusOK, watchResponse{Token: token})
}

func (h *WatchHandler) lookup(c *gin.Context) (*game.Controller, bool) {
	ctrl, ok := h.Registry.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return nil, false
	}
	return ctrl, true
}
