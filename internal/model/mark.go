package model

import (
	"fmt"
	"strings"
)

// Mark is the content of a board cell
type Mark uint8

const (
	Empty Mark = iota
	X
	O
)

// String returns "X", "O", or "" for an empty cell
func (m Mark) String() string {
	switch m {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// Opponent returns the other player's mark. Empty has no opponent.
func (m Mark) Opponent() Mark {
	switch m {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

// IsPlayer reports whether m is one of the two playable marks
func (m Mark) IsPlayer() bool {
	return m == X || m == O
}

// MarshalText implements encoding.TextMarshaler
func (m Mark) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *Mark) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*m = Empty
		return nil
	}
	parsed, err := ParseMark(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMark parses "X" or "O" (case-insensitive)
func ParseMark(s string) (Mark, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X":
		return X, nil
	case "O":
		return O, nil
	default:
		return Empty, fmt.Errorf("%w: %q", ErrInvalidMark, s)
	}
}

// Outcome is the result of a board: a winning mark, a tie, or still open
type Outcome string

const (
	OutcomeNone Outcome = "none"
	OutcomeX    Outcome = "X"
	OutcomeO    Outcome = "O"
	OutcomeTie  Outcome = "tie"
)

// OutcomeFor returns the winning outcome for a mark
func OutcomeFor(m Mark) Outcome {
	switch m {
	case X:
		return OutcomeX
	case O:
		return OutcomeO
	default:
		return OutcomeNone
	}
}

// Decided reports whether the round is over
func (o Outcome) Decided() bool {
	return o == OutcomeX || o == OutcomeO || o == OutcomeTie
}

// Mark returns the winning mark, or Empty for a tie or undecided board
func (o Outcome) Mark() Mark {
	switch o {
	case OutcomeX:
		return X
	case OutcomeO:
		return O
	default:
		return Empty
	}
}
