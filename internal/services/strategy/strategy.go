// Package strategy decides the engine's reply in a game.
package strategy

import (
	"fmt"

	"github.com/mcoot/tictactoe-go/internal/dependencies/random"
	"github.com/mcoot/tictactoe-go/internal/model"
)

// Strategy chooses the engine's cell for a game whose round is open
type Strategy interface {
	// ChooseCell returns an empty cell of game.Board for game.EngineMark
	ChooseCell(game *model.Game) (int, error)
}

// Registry maps strategy names to implementations
type Registry map[string]Strategy

// NewRegistry creates every built-in strategy sharing one random source
func NewRegistry(rnd random.Random) Registry {
	minimax := NewMinimaxStrategy(rnd)
	return Registry{
		model.StrategyMinimax: minimax,
		model.StrategyCasual:  NewCasualStrategy(minimax, rnd),
		model.StrategyRandom:  NewRandomStrategy(rnd),
	}
}

// Get returns the named strategy
func (r Registry) Get(name string) (Strategy, error) {
	s, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidStrategy, name)
	}
	return s, nil
}
