package domain

import (
	"errors"
	"testing"
)

type fixedStrategy struct {
	col  int
	err  error
	seen Chip
}

func (f *fixedStrategy) ChooseColumn(view BoardView, side Chip) (int, error) {
	f.seen = side
	return f.col, f.err
}

func TestNewPlayerValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  PlayerConfig
	}{
		{"empty name", PlayerConfig{Name: "  ", Kind: Human, Slot: PlayerOne}},
		{"bad slot", PlayerConfig{Name: "ann", Kind: Human, Slot: 3}},
		{"zero slot", PlayerConfig{Name: "ann", Kind: Human}},
		{"unknown kind", PlayerConfig{Name: "ann", Kind: "robot", Slot: PlayerOne}},
		{"computer without strategy", PlayerConfig{Name: "Computer", Kind: Computer, Slot: PlayerTwo}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPlayer(tt.cfg); !errors.Is(err, ErrConfiguration) {
				t.Errorf("NewPlayer() error = %v, want %v", err, ErrConfiguration)
			}
		})
	}
}

func TestPlayerAccessors(t *testing.T) {
	p, err := NewPlayer(PlayerConfig{Name: "Ann", Kind: Human, Slot: PlayerTwo, GamesPlayed: 10, GamesWon: 4})
	if err != nil {
		t.Fatalf("NewPlayer() error = %v", err)
	}

	if p.Name() != "Ann" || p.Kind() != Human || p.Slot() != PlayerTwo {
		t.Errorf("unexpected identity: %v", p)
	}
	if p.Side() != Blue {
		t.Errorf("Side() = %v, want blue", p.Side())
	}
	if p.GamesPlayed() != 10 || p.GamesWon() != 4 {
		t.Errorf("counters = %d/%d, want 10/4", p.GamesPlayed(), p.GamesWon())
	}
	if p.IsComputer() {
		t.Error("IsComputer() = true for a human")
	}
}

func TestSlotSides(t *testing.T) {
	if PlayerOne.Side() != Red || PlayerTwo.Side() != Blue {
		t.Error("slot one must play red and slot two blue")
	}
	if PlayerOne.Other() != PlayerTwo || PlayerTwo.Other() != PlayerOne {
		t.Error("Other() does not swap slots")
	}
	if PlayerSlot(0).Side() != Empty {
		t.Error("invalid slot has a side")
	}
}

func TestPlayerEqual(t *testing.T) {
	ann, _ := NewPlayer(PlayerConfig{Name: "Ann", Kind: Human, Slot: PlayerOne})
	ann2, _ := NewPlayer(PlayerConfig{Name: "aNN", Kind: Human, Slot: PlayerTwo})
	bob, _ := NewPlayer(PlayerConfig{Name: "Bob", Kind: Human, Slot: PlayerTwo})

	tests := []struct {
		name string
		a, b *Player
		want bool
	}{
		{"same name different case", ann, ann2, true},
		{"different names", ann, bob, false},
		{"self", ann, ann, true},
		{"nil other", ann, nil, false},
		{"both nil", nil, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMoveFor(t *testing.T) {
	b := newTestBoard(t, Rows, Columns, RunLength)

	human, _ := NewPlayer(PlayerConfig{Name: "Ann", Kind: Human, Slot: PlayerOne})
	if col, ok, err := human.MoveFor(b.Snapshot()); ok || err != nil || col != -1 {
		t.Errorf("human MoveFor() = %d, %v, %v, want -1, false, nil", col, ok, err)
	}

	strategy := &fixedStrategy{col: 5}
	computer, err := NewPlayer(PlayerConfig{Name: "Computer", Kind: Computer, Slot: PlayerTwo, Strategy: strategy})
	if err != nil {
		t.Fatalf("NewPlayer() error = %v", err)
	}
	col, ok, err := computer.MoveFor(b.Snapshot())
	if err != nil || !ok || col != 5 {
		t.Errorf("computer MoveFor() = %d, %v, %v, want 5, true, nil", col, ok, err)
	}
	if strategy.seen != Blue {
		t.Errorf("strategy asked to play %v, want blue", strategy.seen)
	}

	strategy.err = ErrInvalidState
	if _, ok, err := computer.MoveFor(b.Snapshot()); ok || !errors.Is(err, ErrInvalidState) {
		t.Errorf("MoveFor() = %v, %v, want false, %v", ok, err, ErrInvalidState)
	}
}
