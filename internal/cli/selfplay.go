package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/tictactoe-go/internal/dependencies/random"
	"github.com/mcoot/tictactoe-go/internal/engine"
	"github.com/mcoot/tictactoe-go/internal/model"
)

// SelfPlayResult tallies engine-vs-engine games
type SelfPlayResult struct {
	Games       int    `json:"games"`
	XDifficulty string `json:"x_difficulty"`
	ODifficulty string `json:"o_difficulty"`
	XWins       int    `json:"x_wins"`
	OWins       int    `json:"o_wins"`
	Ties        int    `json:"ties"`
}

func newSelfPlayCmd() *cobra.Command {
	var games int
	var xDifficulty, oDifficulty string
	var seed uint64

	cmd := &cobra.Command{
		Use:   "selfplay",
		Short: "Pit the engine against itself and tally the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			if games < 1 {
				return fmt.Errorf("--games must be at least 1")
			}
			xd, err := model.ParseDifficulty(xDifficulty)
			if err != nil {
				return err
			}
			od, err := model.ParseDifficulty(oDifficulty)
			if err != nil {
				return err
			}

			result, err := runSelfPlay(games, xd, od, random.NewSeeded(seed))
			if err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&games, "games", 100, "Number of games")
	cmd.Flags().StringVar(&xDifficulty, "x", string(model.DifficultyHard), "Difficulty of the X engine")
	cmd.Flags().StringVar(&oDifficulty, "o", string(model.DifficultyHard), "Difficulty of the O engine")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Random seed; the same seed replays the same games")

	return cmd
}

// runSelfPlay plays games to completion with X always opening
func runSelfPlay(games int, xDifficulty, oDifficulty model.Difficulty, rnd random.Random) (SelfPlayResult, error) {
	result := SelfPlayResult{
		Games:       games,
		XDifficulty: string(xDifficulty),
		ODifficulty: string(oDifficulty),
	}

	xEngine, err := engine.New(engine.Config{AIMark: model.X, OpponentMark: model.O, Difficulty: xDifficulty}, rnd)
	if err != nil {
		return result, err
	}
	oEngine, err := engine.New(engine.Config{AIMark: model.O, OpponentMark: model.X, Difficulty: oDifficulty}, rnd)
	if err != nil {
		return result, err
	}

	for i := 0; i < games; i++ {
		outcome, err := playSelfGame(xEngine, oEngine)
		if err != nil {
			return result, fmt.Errorf("game %d: %w", i+1, err)
		}

		switch outcome {
		case model.OutcomeX:
			result.XWins++
		case model.OutcomeO:
			result.OWins++
		default:
			result.Ties++
		}
	}
	return result, nil
}

type mover interface {
	SelectMove(board model.Board) (int, error)
	AIMark() model.Mark
}

// playSelfGame plays one game from the empty board, x opening
func playSelfGame(x, o mover) (model.Outcome, error) {
	board := model.NewBoard()
	toMove, next := x, o
	for !board.Winner().Decided() {
		cell, err := toMove.SelectMove(board)
		if err != nil {
			return model.OutcomeNone, err
		}
		if !board.Place(cell, toMove.AIMark()) {
			return model.OutcomeNone, fmt.Errorf("%s engine chose unavailable cell %d", toMove.AIMark(), cell)
		}
		toMove, next = next, toMove
	}
	return board.Winner(), nil
}
