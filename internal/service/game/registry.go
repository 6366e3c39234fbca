package game

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Registry keeps the games a process is running, keyed by game ID, so the
// watch API can look them up.
type Registry struct {
	games map[string]*Controller
	mu    sync.RWMutex
	log   *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		games: make(map[string]*Controller),
		log:   log,
	}
}

func (r *Registry) Register(c *Controller) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.games[c.GameID()] = c
	p1, p2 := c.Players()
	r.log.Info("[SESSION] Registered game", zap.String("game_id", c.GameID()),
		zap.String("player1", p1.Name()), zap.String("player2", p2.Name()))
}

func (r *Registry) Get(gameID string) (*Controller, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.games[gameID]
	return c, ok
}

func (r *Registry) Remove(gameID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.games[gameID]; !ok {
		return fmt.Errorf("game %s not found", gameID)
	}
	delete(r.games, gameID)
	r.log.Info("[SESSION] Removed game", zap.String("game_id", gameID))
	return nil
}

// LiveGame is a summary of a registered game.
type LiveGame struct {
	GameID    string    `json:"gameId"`
	Player1   string    `json:"player1"`
	Player2   string    `json:"player2"`
	State     string    `json:"state"`
	MoveCount int       `json:"moveCount"`
	StartedAt time.Time `json:"startedAt"`
}

// LiveGames lists every game that has not been quit, oldest first.
func (r *Registry) LiveGames() []LiveGame {
	r.mu.RLock()
	defer r.mu.RUnlock()

	games := make([]LiveGame, 0, len(r.games))
	for id, c := range r.games {
		state := c.State()
		if state == Quit {
			continue
		}
		p1, p2 := c.Players()
		games = append(games, LiveGame{
			GameID:    id,
			Player1:   p1.Name(),
			Player2:   p2.Name(),
			State:     state.String(),
			MoveCount: c.MoveCount(),
			StartedAt: c.CreatedAt(),
		})
	}
	sort.Slice(games, func(i, j int) bool {
		if games[i].StartedAt.Equal(games[j].StartedAt) {
			return games[i].GameID < games[j].GameID
		}
		return games[i].StartedAt.Before(games[j].StartedAt)
	})
	return games
}

// CleanupQuit drops the games that have been quit.
func (r *Registry) CleanupQuit() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for id, c := range r.games {
		if c.State() == Quit {
			delete(r.games, id)
			count++
		}
	}
	if count > 0 {
		r.log.Info("[SESSION] Cleanup removed quit games", zap.Int("count", count))
	}
	return count
}
