package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/tictactoe-go/internal/api/response"
	"github.com/mcoot/tictactoe-go/internal/dependencies/clock"
	"github.com/mcoot/tictactoe-go/internal/dependencies/random"
	"github.com/mcoot/tictactoe-go/internal/engine"
	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/services/strategy"
)

// playOptions configures an offline game
type playOptions struct {
	HumanMark  model.Mark
	Difficulty model.Difficulty
	Strategy   string
}

func newPlayCmd() *cobra.Command {
	var mark, difficulty, strategyName string
	var seed uint64

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play against the engine in the terminal, no server needed",
		Long: `Play rounds against the engine offline.

Cells are numbered 0-8 left to right, top to bottom. At the prompt enter a
cell, "h" for a hint, or "q" to quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := parsePlayOptions(mark, difficulty, strategyName)
			if err != nil {
				return err
			}
			return runPlay(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts, newRandom(seed), clock.New())
		},
	}

	cmd.Flags().StringVar(&mark, "mark", "X", "Your mark, X or O (X moves first)")
	cmd.Flags().StringVar(&difficulty, "difficulty", string(model.DefaultDifficulty), "easy, medium or hard")
	cmd.Flags().StringVar(&strategyName, "strategy", model.DefaultStrategy, "minimax, casual or random")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed the engine's random choices (0 picks a fresh seed)")

	return cmd
}

func parsePlayOptions(mark, difficulty, strategyName string) (playOptions, error) {
	m, err := model.ParseMark(mark)
	if err != nil {
		return playOptions{}, err
	}
	d, err := model.ParseDifficulty(difficulty)
	if err != nil {
		return playOptions{}, err
	}
	if !model.IsValidStrategy(strategyName) {
		return playOptions{}, fmt.Errorf("%w: %q", model.ErrInvalidStrategy, strategyName)
	}
	return playOptions{HumanMark: m, Difficulty: d, Strategy: strategyName}, nil
}

func newRandom(seed uint64) random.Random {
	if seed == 0 {
		return random.New()
	}
	return random.NewSeeded(seed)
}

// runPlay drives rounds from line input until the player quits or input ends
func runPlay(ctx context.Context, in io.Reader, out io.Writer, opts playOptions, rnd random.Random, clk clock.Clock) error {
	strat, err := strategy.NewRegistry(rnd).Get(opts.Strategy)
	if err != nil {
		return err
	}

	now := clk.Now()
	game := &model.Game{
		HumanMark:  opts.HumanMark,
		EngineMark: opts.HumanMark.Opponent(),
		Difficulty: opts.Difficulty,
		Strategy:   opts.Strategy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	game.StartRound()

	printf := func(format string, args ...any) {
		_, _ = fmt.Fprintf(out, format, args...)
	}
	scanner := bufio.NewScanner(in)
	readLine := func(prompt string) (string, bool) {
		printf("%s", prompt)
		if !scanner.Scan() {
			printf("\n")
			return "", false
		}
		return strings.TrimSpace(scanner.Text()), true
	}

	printf("You are %s against the %s engine (%s)\n\n", game.HumanMark, game.Difficulty.DisplayName(), model.StrategyDisplayName(game.Strategy))

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		if game.EngineToMove() {
			cell, err := strat.ChooseCell(game)
			if err != nil {
				return err
			}
			game.Apply(cell, game.EngineMark, true, clk.Now())
			printf("Engine plays %d\n", cell)
			continue
		}

		board := response.BoardFromModel(game.Board)
		printf("%s\n\n", RenderBoard(board.Cells, game.WinningLine))

		if game.IsComplete() {
			switch game.Outcome.Mark() {
			case game.HumanMark:
				printf("You win!\n")
			case game.EngineMark:
				printf("The engine wins.\n")
			default:
				printf("It's a tie.\n")
			}
			printf("Scores: you %d, engine %d, ties %d\n", game.Scores.Human, game.Scores.Engine, game.Scores.Ties)

			answer, ok := readLine("Play again? [y/N] ")
			if !ok || !strings.EqualFold(answer, "y") {
				return nil
			}
			game.StartRound()
			printf("\nRound %d\n", game.Round)
			continue
		}

		line, ok := readLine(fmt.Sprintf("Your move (%s): ", game.HumanMark))
		if !ok {
			return nil
		}
		switch strings.ToLower(line) {
		case "q", "quit":
			return nil
		case "h", "hint":
			if err := printLocalHint(out, game, rnd); err != nil {
				return err
			}
			continue
		}

		cell, err := strconv.Atoi(line)
		if err != nil || !model.IsValidCell(cell) {
			printf("Enter a cell from 0 to 8\n")
			continue
		}
		if !game.Apply(cell, game.HumanMark, false, clk.Now()) {
			printf("Cell %d is taken\n", cell)
		}
	}
}

// printLocalHint runs a full-depth analysis from the human's side
func printLocalHint(out io.Writer, game *model.Game, rnd random.Random) error {
	e, err := engine.New(engine.Config{
		AIMark:       game.HumanMark,
		OpponentMark: game.EngineMark,
		Difficulty:   model.DifficultyHard,
	}, rnd)
	if err != nil {
		return err
	}
	a, err := e.Analyze(game.Board)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Hint: play %d (score %d)\n", a.BestMove, a.BestScore)
	return nil
}
