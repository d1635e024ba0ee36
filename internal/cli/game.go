package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/tictactoe-go/internal/api/request"
	"github.com/mcoot/tictactoe-go/internal/api/response"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameNewCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameMoveCmd())
	cmd.AddCommand(newGameRoundCmd())
	cmd.AddCommand(newGameSettingsCmd())
	cmd.AddCommand(newGameHintCmd())
	cmd.AddCommand(newGameResetScoresCmd())
	cmd.AddCommand(newGameDeleteCmd())

	return cmd
}

func gamePath(id string, suffix string) string {
	return "/api/v1/games/" + id + suffix
}

func newGameNewCmd() *cobra.Command {
	var req request.CreateGameRequest

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new game against the engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game

			if err := client.Post(cmd.Context(), "/api/v1/games", req, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.HumanMark, "mark", "", "Your mark, X or O (X moves first)")
	cmd.Flags().StringVar(&req.Difficulty, "difficulty", "", "easy, medium or hard")
	cmd.Flags().StringVar(&req.Strategy, "strategy", "", "minimax, casual or random")

	return cmd
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game

			if err := client.Get(cmd.Context(), gamePath(args[0], ""), &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newGameListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your games",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.GameList

			if err := client.Get(cmd.Context(), "/api/v1/games", &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newGameMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <cell>",
		Short: "Play a cell (0-8, row-major); the engine replies",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cell, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid cell: %w", err)
			}

			var result response.MoveResponse

			if err := client.Post(cmd.Context(), gamePath(args[0], "/moves"), request.MoveRequest{Cell: &cell}, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newGameRoundCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "round <id>",
		Short: "Start the next round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game

			if err := client.Post(cmd.Context(), gamePath(args[0], "/rounds"), nil, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newGameSettingsCmd() *cobra.Command {
	var difficulty, mark, strategy string

	cmd := &cobra.Command{
		Use:   "settings <id>",
		Short: "Change difficulty, mark or strategy",
		Long: `Change the game's settings. Only the flags given are changed.

The mark can only be changed between rounds; changing it restarts the round.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req request.UpdateSettingsRequest
			if cmd.Flags().Changed("difficulty") {
				req.Difficulty = &difficulty
			}
			if cmd.Flags().Changed("mark") {
				req.HumanMark = &mark
			}
			if cmd.Flags().Changed("strategy") {
				req.Strategy = &strategy
			}
			if req.Difficulty == nil && req.HumanMark == nil && req.Strategy == nil {
				return fmt.Errorf("at least one of --difficulty, --mark or --strategy is required")
			}

			var result response.Game

			if err := client.Patch(cmd.Context(), gamePath(args[0], "/settings"), req, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&difficulty, "difficulty", "", "easy, medium or hard")
	cmd.Flags().StringVar(&mark, "mark", "", "Your mark, X or O")
	cmd.Flags().StringVar(&strategy, "strategy", "", "minimax, casual or random")

	return cmd
}

func newGameHintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hint <id>",
		Short: "Ask the engine for your best move",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Hint

			if err := client.Get(cmd.Context(), gamePath(args[0], "/hint"), &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newGameResetScoresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-scores <id>",
		Short: "Zero the score tally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game

			if err := client.Delete(cmd.Context(), gamePath(args[0], "/scores"), &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newGameDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), gamePath(args[0], ""), nil); err != nil {
				return err
			}

			newOutput(cmd).PrintMessage(fmt.Sprintf("Deleted game %s", args[0]))
			return nil
		},
	}
}
