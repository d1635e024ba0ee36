package strategy

import (
	"github.com/mcoot/tictactoe-go/internal/dependencies/random"
	"github.com/mcoot/tictactoe-go/internal/model"
)

// RandomStrategy picks a random empty cell regardless of difficulty
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// ChooseCell picks a random empty cell on the board
func (s *RandomStrategy) ChooseCell(game *model.Game) (int, error) {
	moves := game.Board.LegalMoves()
	if len(moves) == 0 {
		return 0, model.ErrNoLegalMoves
	}
	return moves[s.random.Intn(len(moves))], nil
}
