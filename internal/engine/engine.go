// Package engine picks moves by depth-limited minimax with alpha-beta pruning.
package engine

import (
	"fmt"
	"math"

	"github.com/mcoot/tictactoe-go/internal/dependencies/random"
	"github.com/mcoot/tictactoe-go/internal/model"
)

// Terminal scores are offset by depth so faster wins and slower losses rank higher
const winScore = 10

// cellWeights favour the centre, then corners, then edges
var cellWeights = [model.CellCount]int{
	3, 1, 3,
	1, 5, 1,
	3, 1, 3,
}

const (
	negInf = math.MinInt
	posInf = math.MaxInt
)

// Config holds the engine settings
type Config struct {
	AIMark       model.Mark
	OpponentMark model.Mark
	Difficulty   model.Difficulty
}

// DefaultConfig returns an engine playing O at full strength
func DefaultConfig() Config {
	return Config{
		AIMark:       model.O,
		OpponentMark: model.X,
		Difficulty:   model.DifficultyHard,
	}
}

// Engine selects moves for one side of a board. It is not safe for
// concurrent use; build one per search.
type Engine struct {
	aiMark       model.Mark
	opponentMark model.Mark
	difficulty   model.Difficulty
	policy       Policy
	random       random.Random

	nodes int
}

// New creates an Engine from cfg
func New(cfg Config, rnd random.Random) (*Engine, error) {
	e := &Engine{random: rnd}
	if err := e.SetMarks(cfg.AIMark, cfg.OpponentMark); err != nil {
		return nil, err
	}
	if err := e.SetDifficulty(cfg.Difficulty); err != nil {
		return nil, err
	}
	return e, nil
}

// SetMarks sets which mark the engine plays and which it plays against
func (e *Engine) SetMarks(ai, opponent model.Mark) error {
	if !ai.IsPlayer() || !opponent.IsPlayer() || ai == opponent {
		return fmt.Errorf("%w: ai=%q opponent=%q", model.ErrInvalidMarks, ai, opponent)
	}
	e.aiMark = ai
	e.opponentMark = opponent
	return nil
}

// SetDifficulty switches tier and the depth cap that goes with it
func (e *Engine) SetDifficulty(d model.Difficulty) error {
	p, err := PolicyFor(d)
	if err != nil {
		return err
	}
	e.difficulty = d
	e.policy = p
	return nil
}

// AIMark returns the mark the engine plays
func (e *Engine) AIMark() model.Mark { return e.aiMark }

// OpponentMark returns the mark the engine plays against
func (e *Engine) OpponentMark() model.Mark { return e.opponentMark }

// Difficulty returns the current tier
func (e *Engine) Difficulty() model.Difficulty { return e.difficulty }

// Policy returns the policy of the current tier
func (e *Engine) Policy() Policy { return e.policy }

// SelectMove returns the cell the engine plays on board. The board is not
// modified. Ties between equally scored moves go to the lowest index.
func (e *Engine) SelectMove(board model.Board) (int, error) {
	moves := board.LegalMoves()
	if len(moves) == 0 {
		return 0, model.ErrNoLegalMoves
	}

	if e.policy.RandomReplyRate > 0 && e.random.Float64() < e.policy.RandomReplyRate {
		return moves[e.random.Intn(len(moves))], nil
	}

	// Always replaced by the first scored move; kept so a move exists even
	// if nothing scores
	best := moves[e.random.Intn(len(moves))]
	bestScore := negInf
	for _, idx := range moves {
		score := e.scoreMove(board, idx)
		if score > bestScore {
			best, bestScore = idx, score
		}
	}
	return best, nil
}

// MoveScore is the minimax value of playing a cell
type MoveScore struct {
	Cell  int
	Score int
}

// Analysis is a full, non-random evaluation of a position
type Analysis struct {
	Mark       model.Mark
	Difficulty model.Difficulty
	Scores     []MoveScore // ascending by cell
	BestMove   int
	BestScore  int
	Nodes      int // positions visited
}

// Analyze scores every legal move for the engine's mark. Unlike SelectMove
// it never draws random numbers.
func (e *Engine) Analyze(board model.Board) (Analysis, error) {
	moves := board.LegalMoves()
	if len(moves) == 0 {
		return Analysis{}, model.ErrNoLegalMoves
	}

	e.nodes = 0
	a := Analysis{
		Mark:       e.aiMark,
		Difficulty: e.difficulty,
		Scores:     make([]MoveScore, 0, len(moves)),
		BestMove:   moves[0],
		BestScore:  negInf,
	}
	for _, idx := range moves {
		score := e.scoreMove(board, idx)
		a.Scores = append(a.Scores, MoveScore{Cell: idx, Score: score})
		if score > a.BestScore {
			a.BestMove, a.BestScore = idx, score
		}
	}
	a.Nodes = e.nodes
	return a, nil
}

func (e *Engine) scoreMove(board model.Board, idx int) int {
	child := board.Clone()
	child.Place(idx, e.aiMark)
	return e.minimax(child, false, negInf, posInf, 1)
}

func (e *Engine) minimax(board model.Board, maximizing bool, alpha, beta, depth int) int {
	e.nodes++

	if outcome := board.Winner(); outcome.Decided() {
		return e.terminalScore(outcome, depth)
	}
	if depth >= e.policy.DepthCap {
		return e.heuristic(board)
	}

	if maximizing {
		value := negInf
		for _, idx := range board.LegalMoves() {
			child := board.Clone()
			child.Place(idx, e.aiMark)
			value = max(value, e.minimax(child, false, alpha, beta, depth+1))
			alpha = max(alpha, value)
			if beta <= alpha {
				break
			}
		}
		return value
	}

	value := posInf
	for _, idx := range board.LegalMoves() {
		child := board.Clone()
		child.Place(idx, e.opponentMark)
		value = min(value, e.minimax(child, true, alpha, beta, depth+1))
		beta = min(beta, value)
		if beta <= alpha {
			break
		}
	}
	return value
}

func (e *Engine) terminalScore(outcome model.Outcome, depth int) int {
	switch outcome.Mark() {
	case e.aiMark:
		return winScore - depth
	case e.opponentMark:
		return depth - winScore
	default:
		return 0
	}
}

// heuristic sums cell weights, positive for the engine's cells
func (e *Engine) heuristic(board model.Board) int {
	score := 0
	for i, m := range board.Cells {
		switch m {
		case e.aiMark:
			score += cellWeights[i]
		case e.opponentMark:
			score -= cellWeights[i]
		}
	}
	return score
}
