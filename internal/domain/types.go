package domain

// Chip is the state of a single board cell
type Chip int

const (
	Empty Chip = 0
	Red   Chip = 1
	Blue  Chip = 2
)

func (c Chip) String() string {
	switch c {
	case Red:
		return "red"
	case Blue:
		return "blue"
	default:
		return "empty"
	}
}

// PlayerSlot identifies a seat in the game. PlayerOne always moves first.
type PlayerSlot int

const (
	PlayerOne PlayerSlot = 1
	PlayerTwo PlayerSlot = 2
)

// Side maps the slot onto its chip colour: one plays red, two plays blue.
func (s PlayerSlot) Side() Chip {
	switch s {
	case PlayerOne:
		return Red
	case PlayerTwo:
		return Blue
	default:
		return Empty
	}
}

func (s PlayerSlot) Other() PlayerSlot {
	if s == PlayerOne {
		return PlayerTwo
	}
	return PlayerOne
}

func (s PlayerSlot) Valid() bool {
	return s == PlayerOne || s == PlayerTwo
}

func (s PlayerSlot) String() string {
	switch s {
	case PlayerOne:
		return "one"
	case PlayerTwo:
		return "two"
	default:
		return "unknown"
	}
}

// default board shape
const (
	Rows      = 6
	Columns   = 7
	RunLength = 4
)

// basic errors that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrConfiguration    Error = "invalid configuration"
	ErrInvalidState     Error = "invalid state"
	ErrColumnOutOfRange Error = "column out of range"
)
