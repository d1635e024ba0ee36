package engine

import (
	"fmt"

	"github.com/mcoot/tictactoe-go/internal/model"
)

// FullDepth searches every ply of the game
const FullDepth = model.CellCount

// Policy is the search behaviour implied by a difficulty tier
type Policy struct {
	// DepthCap is the number of plies searched before the heuristic takes over
	DepthCap int
	// Randomized marks tiers whose callers may inject random play
	Randomized bool
	// RandomReplyRate is the chance SelectMove skips the search entirely
	// and answers with a uniformly random legal move
	RandomReplyRate float64
}

var policies = map[model.Difficulty]Policy{
	model.DifficultyEasy:   {DepthCap: 1, Randomized: true},
	model.DifficultyMedium: {DepthCap: 3, RandomReplyRate: 0.15},
	model.DifficultyHard:   {DepthCap: FullDepth},
}

// PolicyFor returns the policy of a tier
func PolicyFor(d model.Difficulty) (Policy, error) {
	p, ok := policies[d]
	if !ok {
		return Policy{}, fmt.Errorf("%w: %q", model.ErrInvalidDifficulty, d)
	}
	return p, nil
}
