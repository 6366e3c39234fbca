package player

import (
	"github.com/iamasit07/connect4/engine/internal/domain"
)

// ComputerName is the fixed name of every computer player. Because players
// compare by name, a human may not call themselves "computer".
const ComputerName = "Computer"

// Factory builds players with sane defaults. Construct one and pass it
// around; there is no package-level instance.
type Factory struct {
	strategy domain.Strategy
}

// NewFactory takes the strategy handed to every computer player it builds.
func NewFactory(strategy domain.Strategy) *Factory {
	return &Factory{strategy: strategy}
}

func (f *Factory) Human(name string, slot domain.PlayerSlot) (*domain.Player, error) {
	return domain.NewPlayer(domain.PlayerConfig{
		Name: name,
		Kind: domain.Human,
		Slot: slot,
	})
}

// Computer always sits in the second slot.
func (f *Factory) Computer() (*domain.Player, error) {
	return domain.NewPlayer(domain.PlayerConfig{
		Name:     ComputerName,
		Kind:     domain.Computer,
		Slot:     domain.PlayerTwo,
		Strategy: f.strategy,
	})
}

// WithStats rebuilds p carrying the given informational counters.
func (f *Factory) WithStats(p *domain.Player, gamesPlayed, gamesWon int) (*domain.Player, error) {
	return domain.NewPlayer(domain.PlayerConfig{
		Name:        p.Name(),
		Kind:        p.Kind(),
		Slot:        p.Slot(),
		GamesPlayed: gamesPlayed,
		GamesWon:    gamesWon,
		Strategy:    p.Strategy(),
	})
}
