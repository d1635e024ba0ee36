package strategy

import (
	"github.com/mcoot/tictactoe-go/internal/dependencies/random"
	"github.com/mcoot/tictactoe-go/internal/engine"
	"github.com/mcoot/tictactoe-go/internal/model"
)

// MinimaxStrategy plays whatever the search engine selects at the game's
// difficulty
type MinimaxStrategy struct {
	random random.Random
}

// NewMinimaxStrategy creates a new MinimaxStrategy
func NewMinimaxStrategy(rnd random.Random) *MinimaxStrategy {
	return &MinimaxStrategy{random: rnd}
}

// ChooseCell runs a search for the engine's mark
func (s *MinimaxStrategy) ChooseCell(game *model.Game) (int, error) {
	e, err := engine.New(engine.Config{
		AIMark:       game.EngineMark,
		OpponentMark: game.HumanMark,
		Difficulty:   game.Difficulty,
	}, s.random)
	if err != nil {
		return 0, err
	}
	return e.SelectMove(game.Board)
}
