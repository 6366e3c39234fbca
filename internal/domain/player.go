package domain

import (
	"fmt"
	"strings"
)

type PlayerKind string

const (
	Human    PlayerKind = "human"
	Computer PlayerKind = "computer"
)

// Strategy picks a column for a computer player.
type Strategy interface {
	ChooseColumn(view BoardView, side Chip) (int, error)
}

// PlayerConfig holds what a player is made of. Name, Kind and Slot are
// required; the counters default to zero and are informational only.
type PlayerConfig struct {
	Name        string
	Kind        PlayerKind
	Slot        PlayerSlot
	GamesPlayed int
	GamesWon    int

	// required for Computer players
	Strategy Strategy
}

// Player is immutable once built.
type Player struct {
	name        string
	kind        PlayerKind
	slot        PlayerSlot
	gamesPlayed int
	gamesWon    int
	strategy    Strategy
}

func NewPlayer(cfg PlayerConfig) (*Player, error) {
	if strings.TrimSpace(cfg.Name) == "" {
		return nil, fmt.Errorf("%w: player name is empty", ErrConfiguration)
	}
	if !cfg.Slot.Valid() {
		return nil, fmt.Errorf("%w: unknown player slot %d", ErrConfiguration, cfg.Slot)
	}
	switch cfg.Kind {
	case Human:
	case Computer:
		if cfg.Strategy == nil {
			return nil, fmt.Errorf("%w: computer player %q has no strategy", ErrConfiguration, cfg.Name)
		}
	default:
		return nil, fmt.Errorf("%w: unknown player kind %q", ErrConfiguration, cfg.Kind)
	}

	return &Player{
		name:        cfg.Name,
		kind:        cfg.Kind,
		slot:        cfg.Slot,
		gamesPlayed: cfg.GamesPlayed,
		gamesWon:    cfg.GamesWon,
		strategy:    cfg.Strategy,
	}, nil
}

func (p *Player) Name() string       { return p.name }
func (p *Player) Kind() PlayerKind   { return p.kind }
func (p *Player) Slot() PlayerSlot   { return p.slot }
func (p *Player) Side() Chip         { return p.slot.Side() }
func (p *Player) GamesPlayed() int   { return p.gamesPlayed }
func (p *Player) GamesWon() int      { return p.gamesWon }
func (p *Player) IsComputer() bool   { return p.kind == Computer }
func (p *Player) Strategy() Strategy { return p.strategy }

// MoveFor asks the player for a column. Human moves come from outside the
// engine, so a human answers ok == false.
func (p *Player) MoveFor(view BoardView) (col int, ok bool, err error) {
	if p.kind != Computer {
		return -1, false, nil
	}
	col, err = p.strategy.ChooseColumn(view, p.Side())
	if err != nil {
		return -1, false, err
	}
	return col, true, nil
}

// Equal compares names case-insensitively. Two different people called
// "alice" and "Alice" are the same player as far as a game is concerned.
func (p *Player) Equal(other *Player) bool {
	if p == nil || other == nil {
		return p == other
	}
	return strings.EqualFold(p.name, other.name)
}

func (p *Player) String() string {
	return fmt.Sprintf("%s, kind: %s, slot: %s", p.name, p.kind, p.slot)
}
