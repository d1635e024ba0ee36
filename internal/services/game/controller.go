// Package game runs human-vs-engine games: turns, rounds, scores and hints.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcoot/tictactoe-go/internal/dependencies/clock"
	"github.com/mcoot/tictactoe-go/internal/dependencies/random"
	"github.com/mcoot/tictactoe-go/internal/engine"
	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/services/strategy"
	"github.com/mcoot/tictactoe-go/internal/storage"
)

const (
	// GameIDAlphabet is the character set for generated game IDs
	GameIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// GameIDLength is the length of generated game IDs
	GameIDLength = 12
)

// Config holds defaults applied to new games
type Config struct {
	DefaultDifficulty model.Difficulty
	DefaultStrategy   string
}

// DefaultConfig returns the default controller configuration
func DefaultConfig() Config {
	return Config{
		DefaultDifficulty: model.DefaultDifficulty,
		DefaultStrategy:   model.DefaultStrategy,
	}
}

// Options configures a new game. Zero values fall back to defaults and the
// human plays X.
type Options struct {
	HumanMark  model.Mark
	Difficulty model.Difficulty
	Strategy   string
}

// SettingsUpdate changes game settings. Nil fields are left alone.
type SettingsUpdate struct {
	Difficulty *model.Difficulty
	HumanMark  *model.Mark
	Strategy   *string
}

// Controller manages game state and turn flow
type Controller struct {
	storage    storage.Storage
	strategies strategy.Registry
	publisher  Publisher
	clock      clock.Clock
	random     random.Random
	logger     *slog.Logger
	cfg        Config

	locks sync.Map // model.GameID -> *sync.Mutex
}

// NewController creates a new game Controller
func NewController(
	store storage.Storage,
	strategies strategy.Registry,
	publisher Publisher,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
	cfg Config,
) *Controller {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if !cfg.DefaultDifficulty.IsValid() {
		cfg.DefaultDifficulty = DefaultConfig().DefaultDifficulty
	}
	if !model.IsValidStrategy(cfg.DefaultStrategy) {
		cfg.DefaultStrategy = DefaultConfig().DefaultStrategy
	}
	return &Controller{
		storage:    store,
		strategies: strategies,
		publisher:  publisher,
		clock:      clk,
		random:     rnd,
		logger:     logger.With(slog.String("component", "game-controller")),
		cfg:        cfg,
	}
}

// CreateGame starts a game and its first round. If the human plays O the
// engine opens immediately.
func (c *Controller) CreateGame(ctx context.Context, playerID model.PlayerID, opts Options) (*model.Game, error) {
	if opts.HumanMark == model.Empty {
		opts.HumanMark = model.X
	}
	if !opts.HumanMark.IsPlayer() {
		return nil, model.ErrInvalidMark
	}
	if opts.Difficulty == "" {
		opts.Difficulty = c.cfg.DefaultDifficulty
	}
	if !opts.Difficulty.IsValid() {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidDifficulty, opts.Difficulty)
	}
	if opts.Strategy == "" {
		opts.Strategy = c.cfg.DefaultStrategy
	}
	if _, err := c.strategies.Get(opts.Strategy); err != nil {
		return nil, err
	}

	now := c.clock.Now()
	game := &model.Game{
		ID:         model.GameID(c.random.String(GameIDLength, GameIDAlphabet)),
		PlayerID:   playerID,
		HumanMark:  opts.HumanMark,
		EngineMark: opts.HumanMark.Opponent(),
		Difficulty: opts.Difficulty,
		Strategy:   opts.Strategy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	game.StartRound()

	if err := c.playEngine(game); err != nil {
		return nil, err
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("player_id", string(playerID)),
		slog.String("human_mark", game.HumanMark.String()),
		slog.String("difficulty", string(game.Difficulty)),
		slog.String("strategy", game.Strategy),
	)

	return game, nil
}

// GetGame retrieves a game owned by playerID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.PlayerID != playerID {
		return nil, model.ErrNotGameOwner
	}
	return game, nil
}

// ListGames returns the player's games, most recent first
func (c *Controller) ListGames(ctx context.Context, playerID model.PlayerID) ([]*model.Game, error) {
	return c.storage.ListGamesForPlayer(ctx, playerID)
}

// DeleteGame removes a game
func (c *Controller) DeleteGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID) error {
	unlock := c.lock(gameID)
	defer unlock()

	if _, err := c.GetGame(ctx, gameID, playerID); err != nil {
		return err
	}
	if err := c.storage.DeleteGame(ctx, gameID); err != nil {
		return err
	}
	c.locks.Delete(gameID)

	c.logger.Info("game deleted", slog.String("game_id", string(gameID)))
	c.publish(model.EventGameDeleted, gameID, playerID, nil)
	return nil
}

// PlayMove places the human's mark on cell and, if the round is still open,
// lets the engine reply. It returns the updated game and the moves made.
func (c *Controller) PlayMove(ctx context.Context, gameID model.GameID, playerID model.PlayerID, cell int) (*model.Game, []model.Move, error) {
	unlock := c.lock(gameID)
	defer unlock()

	game, err := c.GetGame(ctx, gameID, playerID)
	if err != nil {
		return nil, nil, err
	}

	if game.IsComplete() {
		return nil, nil, model.ErrRoundComplete
	}
	if !game.HumanToMove() {
		return nil, nil, model.ErrNotPlayerTurn
	}
	if !model.IsValidCell(cell) {
		return nil, nil, fmt.Errorf("%w: %d", model.ErrInvalidCell, cell)
	}
	if game.Board.Get(cell) != model.Empty {
		return nil, nil, fmt.Errorf("%w: %d", model.ErrCellOccupied, cell)
	}

	start := len(game.Moves)
	game.Apply(cell, game.HumanMark, false, c.clock.Now())

	if err := c.playEngine(game); err != nil {
		return nil, nil, err
	}

	game.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, nil, err
	}

	moves := game.Moves[start:]
	c.publishMoves(game, playerID, moves)

	c.logger.Debug("move played",
		slog.String("game_id", string(game.ID)),
		slog.Int("cell", cell),
		slog.Int("moves", len(moves)),
	)

	return game, moves, nil
}

// NewRound clears the board for the next round, keeping scores and settings.
// An unfinished round is abandoned without scoring.
func (c *Controller) NewRound(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error) {
	unlock := c.lock(gameID)
	defer unlock()

	game, err := c.GetGame(ctx, gameID, playerID)
	if err != nil {
		return nil, err
	}

	game.StartRound()
	if err := c.playEngine(game); err != nil {
		return nil, err
	}

	game.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("round started",
		slog.String("game_id", string(game.ID)),
		slog.Int("round", game.Round),
	)
	c.publishRoundStarted(game, playerID)
	return game, nil
}

// UpdateSettings changes difficulty, strategy or marks. Difficulty and
// strategy take effect from the engine's next move. The marks can only
// change between rounds and doing so restarts the round.
func (c *Controller) UpdateSettings(ctx context.Context, gameID model.GameID, playerID model.PlayerID, update SettingsUpdate) (*model.Game, error) {
	if update.Difficulty != nil && !update.Difficulty.IsValid() {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidDifficulty, *update.Difficulty)
	}
	if update.HumanMark != nil && !update.HumanMark.IsPlayer() {
		return nil, model.ErrInvalidMark
	}
	if update.Strategy != nil {
		if _, err := c.strategies.Get(*update.Strategy); err != nil {
			return nil, err
		}
	}

	unlock := c.lock(gameID)
	defer unlock()

	game, err := c.GetGame(ctx, gameID, playerID)
	if err != nil {
		return nil, err
	}

	markChanged := update.HumanMark != nil && *update.HumanMark != game.HumanMark
	if markChanged && !game.BetweenRounds() {
		return nil, model.ErrRoundInProgress
	}

	if update.Difficulty != nil {
		game.Difficulty = *update.Difficulty
	}
	if update.Strategy != nil {
		game.Strategy = *update.Strategy
	}
	if markChanged {
		game.HumanMark = *update.HumanMark
		game.EngineMark = game.HumanMark.Opponent()
		if game.IsComplete() {
			game.StartRound()
		} else {
			game.RestartRound()
		}
		if err := c.playEngine(game); err != nil {
			return nil, err
		}
	}

	game.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("settings updated",
		slog.String("game_id", string(game.ID)),
		slog.String("difficulty", string(game.Difficulty)),
		slog.String("human_mark", game.HumanMark.String()),
		slog.String("strategy", game.Strategy),
	)
	c.publish(model.EventSettingsUpdated, game.ID, playerID, model.SettingsUpdatedPayload{
		Difficulty: game.Difficulty,
		HumanMark:  game.HumanMark,
		EngineMark: game.EngineMark,
		Strategy:   game.Strategy,
	})
	if markChanged {
		c.publishRoundStarted(game, playerID)
	}
	return game, nil
}

// ResetScores zeroes the running tally
func (c *Controller) ResetScores(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error) {
	unlock := c.lock(gameID)
	defer unlock()

	game, err := c.GetGame(ctx, gameID, playerID)
	if err != nil {
		return nil, err
	}

	game.Scores = model.Scores{}
	game.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.publish(model.EventScoresReset, game.ID, playerID, game.Scores)
	return game, nil
}

// Hint analyses the position at full depth from the human's side
func (c *Controller) Hint(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*engine.Analysis, error) {
	game, err := c.GetGame(ctx, gameID, playerID)
	if err != nil {
		return nil, err
	}
	if game.IsComplete() {
		return nil, model.ErrRoundComplete
	}
	if !game.HumanToMove() {
		return nil, model.ErrNotPlayerTurn
	}

	e, err := engine.New(engine.Config{
		AIMark:       game.HumanMark,
		OpponentMark: game.EngineMark,
		Difficulty:   model.DifficultyHard,
	}, c.random)
	if err != nil {
		return nil, err
	}
	analysis, err := e.Analyze(game.Board)
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}

// playEngine makes the engine's move if it is the engine's turn
func (c *Controller) playEngine(game *model.Game) error {
	if !game.EngineToMove() {
		return nil
	}

	st, err := c.strategies.Get(game.Strategy)
	if err != nil {
		return err
	}
	cell, err := st.ChooseCell(game)
	if err != nil {
		return fmt.Errorf("engine move: %w", err)
	}
	if !game.Apply(cell, game.EngineMark, true, c.clock.Now()) {
		return fmt.Errorf("engine chose unavailable cell %d: %w", cell, model.ErrCellOccupied)
	}

	if game.IsComplete() {
		c.logger.Info("round complete",
			slog.String("game_id", string(game.ID)),
			slog.Int("round", game.Round),
			slog.String("outcome", string(game.Outcome)),
		)
	}
	return nil
}

func (c *Controller) lock(gameID model.GameID) func() {
	v, _ := c.locks.LoadOrStore(gameID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (c *Controller) publishMoves(game *model.Game, playerID model.PlayerID, moves []model.Move) {
	// Replay onto the board as it stood before these moves so each event
	// carries the position right after its move
	board := game.Board
	for _, m := range moves {
		board.Cells[m.Cell] = model.Empty
	}
	for _, m := range moves {
		if !board.Place(m.Cell, m.Mark) {
			c.logger.Error("move replay failed",
				slog.String("game_id", string(game.ID)),
				slog.Int("cell", m.Cell),
			)
			return
		}
		c.publish(model.EventMovePlayed, game.ID, playerID, model.MovePlayedPayload{
			Move:  m,
			Board: board,
			Turn:  m.Mark.Opponent(),
		})
	}
	if game.IsComplete() {
		c.publish(model.EventRoundComplete, game.ID, playerID, model.RoundCompletePayload{
			Round:       game.Round,
			Outcome:     game.Outcome,
			WinningLine: game.WinningLine,
			Scores:      game.Scores,
		})
	}
}

func (c *Controller) publishRoundStarted(game *model.Game, playerID model.PlayerID) {
	c.publish(model.EventRoundStarted, game.ID, playerID, model.RoundStartedPayload{
		Round: game.Round,
		Board: game.Board,
		Turn:  game.Turn,
	})
}

func (c *Controller) publish(eventType model.EventType, gameID model.GameID, playerID model.PlayerID, payload any) {
	c.publisher.Publish(model.Event{
		Type:      eventType,
		Timestamp: c.clock.Now(),
		GameID:    gameID,
		PlayerID:  playerID,
		Payload:   payload,
	})
}
