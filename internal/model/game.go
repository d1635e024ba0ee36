package model

import "time"

// GameID uniquely identifies a game
type GameID string

// GameState represents the current phase of a round
type GameState string

const (
	GameStateInProgress GameState = "in_progress" // Round open, a mark is to move
	GameStateComplete   GameState = "complete"    // Round decided, waiting for a new round
)

// Move is one placement in the current round
type Move struct {
	Cell     int
	Mark     Mark
	ByEngine bool
	At       time.Time
}

// Scores is the running tally across rounds of a game
type Scores struct {
	Human  int
	Engine int
	Ties   int
}

// Game is a human-vs-engine session made up of consecutive rounds
type Game struct {
	ID       GameID
	PlayerID PlayerID

	// Settings
	HumanMark  Mark
	EngineMark Mark
	Difficulty Difficulty
	Strategy   string

	// Current round
	Board       Board
	Turn        Mark // Mark to move; Empty once the round is complete
	State       GameState
	Outcome     Outcome
	WinningLine []int // Cells of the completed line, nil otherwise
	Round       int   // 1-indexed
	Moves       []Move

	Scores Scores

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsComplete returns true if the current round has been decided
func (g *Game) IsComplete() bool {
	return g.State == GameStateComplete
}

// HumanToMove returns true if the round is open and waiting on the human
func (g *Game) HumanToMove() bool {
	return g.State == GameStateInProgress && g.Turn == g.HumanMark
}

// EngineToMove returns true if the round is open and waiting on the engine
func (g *Game) EngineToMove() bool {
	return g.State == GameStateInProgress && g.Turn == g.EngineMark
}

// BetweenRounds returns true if the marks may change: the round is over or
// the human has not moved in it yet
func (g *Game) BetweenRounds() bool {
	if g.IsComplete() {
		return true
	}
	for _, m := range g.Moves {
		if !m.ByEngine {
			return false
		}
	}
	return true
}

// StartRound begins the next round
func (g *Game) StartRound() {
	g.Round++
	g.RestartRound()
}

// RestartRound clears the current round without counting a new one. X
// always moves first.
func (g *Game) RestartRound() {
	g.Board.Reset()
	g.Turn = X
	g.State = GameStateInProgress
	g.Outcome = OutcomeNone
	g.WinningLine = nil
	g.Moves = nil
}

// Apply places mark at cell, records the move and settles the round if the
// board is now decided. The caller has already validated the move.
func (g *Game) Apply(cell int, mark Mark, byEngine bool, at time.Time) bool {
	if !g.Board.Place(cell, mark) {
		return false
	}
	g.Moves = append(g.Moves, Move{Cell: cell, Mark: mark, ByEngine: byEngine, At: at})
	g.Turn = mark.Opponent()

	outcome := g.Board.Winner()
	if outcome.Decided() {
		g.finish(outcome)
	}
	return true
}

func (g *Game) finish(outcome Outcome) {
	g.State = GameStateComplete
	g.Outcome = outcome
	g.Turn = Empty
	if line, ok := g.Board.WinningLine(); ok {
		g.WinningLine = line[:]
	}

	switch outcome.Mark() {
	case g.HumanMark:
		g.Scores.Human++
	case g.EngineMark:
		g.Scores.Engine++
	default:
		g.Scores.Ties++
	}
}

// GameSummary is a lightweight listing record for a game
type GameSummary struct {
	ID         GameID
	Difficulty Difficulty
	HumanMark  Mark
	State      GameState
	Round      int
	Scores     Scores
	UpdatedAt  time.Time
}

// Summary returns the listing record for g
func (g *Game) Summary() GameSummary {
	return GameSummary{
		ID:         g.ID,
		Difficulty: g.Difficulty,
		HumanMark:  g.HumanMark,
		State:      g.State,
		Round:      g.Round,
		Scores:     g.Scores,
		UpdatedAt:  g.UpdatedAt,
	}
}
