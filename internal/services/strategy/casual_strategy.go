package strategy

import (
	"github.com/mcoot/tictactoe-go/internal/dependencies/random"
	"github.com/mcoot/tictactoe-go/internal/engine"
	"github.com/mcoot/tictactoe-go/internal/model"
)

const (
	// CasualRandomRate is the chance of a random move on randomized tiers
	CasualRandomRate = 0.35
	// CasualSkipCentreRate is the chance below hard of not grabbing an open centre
	CasualSkipCentreRate = 0.25
)

// CasualStrategy plays like a person: loose on easy, greedy for the centre,
// and otherwise defers to the search
type CasualStrategy struct {
	search Strategy
	random random.Random
}

// NewCasualStrategy creates a CasualStrategy that falls back to search
func NewCasualStrategy(search Strategy, rnd random.Random) *CasualStrategy {
	return &CasualStrategy{search: search, random: rnd}
}

// ChooseCell picks a cell for the engine
func (s *CasualStrategy) ChooseCell(game *model.Game) (int, error) {
	policy, err := engine.PolicyFor(game.Difficulty)
	if err != nil {
		return 0, err
	}
	moves := game.Board.LegalMoves()
	if len(moves) == 0 {
		return 0, model.ErrNoLegalMoves
	}

	if policy.Randomized && s.random.Float64() < CasualRandomRate {
		return moves[s.random.Intn(len(moves))], nil
	}

	if game.Board.Get(model.CenterCell) == model.Empty {
		skip := game.Difficulty != model.DifficultyHard && s.random.Float64() < CasualSkipCentreRate
		if !skip {
			return model.CenterCell, nil
		}
	}

	return s.search.ChooseCell(game)
}
