package game_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tictactoe-go/internal/dependencies/mocks"
	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/services/game"
	"github.com/mcoot/tictactoe-go/internal/services/strategy"
	"github.com/mcoot/tictactoe-go/internal/storage/memory"
	"github.com/mcoot/tictactoe-go/internal/testutil"
)

const player model.PlayerID = "player-1"

type ControllerSuite struct {
	suite.Suite
	store      *memory.Storage
	mockClock  *mocks.MockClock
	mockRandom *mocks.MockRandom
	publisher  *mocks.RecordingPublisher
	controller *game.Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.store = memory.New()
	s.mockClock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.mockRandom = mocks.NewMockRandom()
	s.publisher = mocks.NewRecordingPublisher()
	s.ctx = context.Background()

	s.controller = game.NewController(
		s.store,
		strategy.NewRegistry(s.mockRandom),
		s.publisher,
		s.mockClock,
		s.mockRandom,
		testutil.NopLogger(),
		game.DefaultConfig(),
	)
}

func (s *ControllerSuite) createGame(id string, opts game.Options) *model.Game {
	s.mockRandom.QueueString(id)
	g, err := s.controller.CreateGame(s.ctx, player, opts)
	s.Require().NoError(err)
	return g
}

// play makes a human move and returns the engine's reply cell, or -1
func (s *ControllerSuite) play(id model.GameID, cell int) int {
	_, moves, err := s.controller.PlayMove(s.ctx, id, player, cell)
	s.Require().NoError(err)
	s.Require().NotEmpty(moves)
	s.Equal(cell, moves[0].Cell)
	if len(moves) == 2 {
		return moves[1].Cell
	}
	return -1
}

// CreateGame tests

func (s *ControllerSuite) TestCreateGameDefaults() {
	g := s.createGame("GAME1", game.Options{})

	s.Equal(model.GameID("GAME1"), g.ID)
	s.Equal(player, g.PlayerID)
	s.Equal(model.X, g.HumanMark)
	s.Equal(model.O, g.EngineMark)
	s.Equal(model.DifficultyMedium, g.Difficulty)
	s.Equal(model.StrategyMinimax, g.Strategy)
	s.Equal(1, g.Round)
	s.Equal(model.X, g.Turn)
	s.Equal(model.GameStateInProgress, g.State)
	s.Empty(g.Moves)
	s.Equal(model.Scores{}, g.Scores)

	stored, err := s.store.GetGame(s.ctx, "GAME1")
	s.Require().NoError(err)
	s.Equal(g.CreatedAt, stored.CreatedAt)
}

func (s *ControllerSuite) TestCreateGameEngineOpensWhenHumanIsO() {
	g := s.createGame("GAME1", game.Options{HumanMark: model.O, Difficulty: model.DifficultyHard})

	s.Require().Len(g.Moves, 1)
	s.True(g.Moves[0].ByEngine)
	s.Equal(model.X, g.Moves[0].Mark)
	s.Equal(0, g.Moves[0].Cell, "every opening draws, lowest index wins")
	s.Equal(model.O, g.Turn)
	s.True(g.HumanToMove())
}

func (s *ControllerSuite) TestCreateGameRejectsInvalidOptions() {
	_, err := s.controller.CreateGame(s.ctx, player, game.Options{Difficulty: "brutal"})
	s.ErrorIs(err, model.ErrInvalidDifficulty)

	_, err = s.controller.CreateGame(s.ctx, player, game.Options{HumanMark: model.Mark(9)})
	s.ErrorIs(err, model.ErrInvalidMark)

	_, err = s.controller.CreateGame(s.ctx, player, game.Options{Strategy: "cheat"})
	s.ErrorIs(err, model.ErrInvalidStrategy)
}

// GetGame / ListGames tests

func (s *ControllerSuite) TestGetGameOwnership() {
	s.createGame("GAME1", game.Options{})

	_, err := s.controller.GetGame(s.ctx, "GAME1", "someone-else")
	s.ErrorIs(err, model.ErrNotGameOwner)

	_, err = s.controller.GetGame(s.ctx, "MISSING", player)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ControllerSuite) TestListGamesMostRecentFirst() {
	s.createGame("OLD", game.Options{})
	s.mockClock.Advance(time.Minute)
	s.createGame("NEW", game.Options{})

	games, err := s.controller.ListGames(s.ctx, player)
	s.Require().NoError(err)
	s.Require().Len(games, 2)
	s.Equal(model.GameID("NEW"), games[0].ID)

	s.mockClock.Advance(time.Minute)
	s.play("OLD", 4)

	games, err = s.controller.ListGames(s.ctx, player)
	s.Require().NoError(err)
	s.Equal(model.GameID("OLD"), games[0].ID)
}

// PlayMove tests

func (s *ControllerSuite) TestPlayMoveEngineReplies() {
	s.createGame("GAME1", game.Options{Difficulty: model.DifficultyHard})

	g, moves, err := s.controller.PlayMove(s.ctx, "GAME1", player, 4)
	s.Require().NoError(err)
	s.Require().Len(moves, 2)
	s.Equal(model.Move{Cell: 4, Mark: model.X, At: s.mockClock.Now()}, moves[0])
	s.Equal(0, moves[1].Cell, "corner answers the centre")
	s.True(moves[1].ByEngine)
	s.Equal(model.X, g.Turn)

	s.Equal([]model.EventType{model.EventMovePlayed, model.EventMovePlayed}, s.publisher.Types())
	first := s.publisher.Events()[0].Payload.(model.MovePlayedPayload)
	s.Equal(1, first.Board.Occupied(), "event board is the position after its own move")
	s.Equal(model.O, first.Turn)
}

func (s *ControllerSuite) TestPlayMoveRejectsBadCells() {
	s.createGame("GAME1", game.Options{Difficulty: model.DifficultyHard})
	s.play("GAME1", 4)

	_, _, err := s.controller.PlayMove(s.ctx, "GAME1", player, 4)
	s.ErrorIs(err, model.ErrCellOccupied)

	_, _, err = s.controller.PlayMove(s.ctx, "GAME1", player, 0)
	s.ErrorIs(err, model.ErrCellOccupied, "engine took the corner")

	_, _, err = s.controller.PlayMove(s.ctx, "GAME1", player, 9)
	s.ErrorIs(err, model.ErrInvalidCell)

	_, _, err = s.controller.PlayMove(s.ctx, "GAME1", player, -1)
	s.ErrorIs(err, model.ErrInvalidCell)

	g, err := s.controller.GetGame(s.ctx, "GAME1", player)
	s.Require().NoError(err)
	s.Len(g.Moves, 2, "rejected moves change nothing")
}

func (s *ControllerSuite) TestPlayMoveNotOwner() {
	s.createGame("GAME1", game.Options{})
	_, _, err := s.controller.PlayMove(s.ctx, "GAME1", "intruder", 4)
	s.ErrorIs(err, model.ErrNotGameOwner)
}

func (s *ControllerSuite) TestPlayMoveNotYourTurn() {
	g := s.createGame("GAME1", game.Options{})
	g.Turn = g.EngineMark
	s.Require().NoError(s.store.SaveGame(s.ctx, g))

	_, _, err := s.controller.PlayMove(s.ctx, "GAME1", player, 4)
	s.ErrorIs(err, model.ErrNotPlayerTurn)
}

func (s *ControllerSuite) TestHumanWinTalliesScore() {
	s.createGame("GAME1", game.Options{Strategy: model.StrategyRandom})

	// Random engine takes the first empty cell each time
	s.Equal(1, s.play("GAME1", 0))
	s.Equal(2, s.play("GAME1", 3))
	s.publisher.Reset()
	s.Equal(-1, s.play("GAME1", 6))

	g, err := s.controller.GetGame(s.ctx, "GAME1", player)
	s.Require().NoError(err)
	s.True(g.IsComplete())
	s.Equal(model.OutcomeX, g.Outcome)
	s.Equal([]int{0, 3, 6}, g.WinningLine)
	s.Equal(model.Scores{Human: 1}, g.Scores)
	s.Equal([]model.EventType{model.EventMovePlayed, model.EventRoundComplete}, s.publisher.Types())

	_, _, err = s.controller.PlayMove(s.ctx, "GAME1", player, 8)
	s.ErrorIs(err, model.ErrRoundComplete)
}

func (s *ControllerSuite) TestEngineWinTalliesScore() {
	s.createGame("GAME1", game.Options{Strategy: model.StrategyRandom})

	s.Equal(0, s.play("GAME1", 8))
	s.Equal(1, s.play("GAME1", 7))
	s.Equal(2, s.play("GAME1", 3))

	g, err := s.controller.GetGame(s.ctx, "GAME1", player)
	s.Require().NoError(err)
	s.Equal(model.OutcomeO, g.Outcome)
	s.Equal(model.Scores{Engine: 1}, g.Scores)
	s.Equal(model.Empty, g.Turn)
}

func (s *ControllerSuite) TestTieTalliesScore() {
	s.createGame("GAME1", game.Options{Strategy: model.StrategyRandom})
	// Engine picks by index into the empty cells: 4, 1, 5, 6
	s.mockRandom.QueueIntn(3, 0, 1, 0)

	s.Equal(4, s.play("GAME1", 0))
	s.Equal(1, s.play("GAME1", 2))
	s.Equal(5, s.play("GAME1", 7))
	s.Equal(6, s.play("GAME1", 3))
	s.Equal(-1, s.play("GAME1", 8))

	g, err := s.controller.GetGame(s.ctx, "GAME1", player)
	s.Require().NoError(err)
	s.Equal(model.OutcomeTie, g.Outcome)
	s.Nil(g.WinningLine)
	s.Equal(model.Scores{Ties: 1}, g.Scores)
}

func (s *ControllerSuite) TestHardEngineNeverLosesToScriptedHuman() {
	s.createGame("GAME1", game.Options{Difficulty: model.DifficultyHard})

	g, err := s.controller.GetGame(s.ctx, "GAME1", player)
	s.Require().NoError(err)
	for !g.IsComplete() {
		g, _, err = s.controller.PlayMove(s.ctx, "GAME1", player, g.Board.LegalMoves()[0])
		s.Require().NoError(err)
	}
	s.NotEqual(model.OutcomeX, g.Outcome)
}

// NewRound tests

func (s *ControllerSuite) TestNewRoundKeepsScores() {
	s.createGame("GAME1", game.Options{Strategy: model.StrategyRandom})
	s.play("GAME1", 0)
	s.play("GAME1", 3)
	s.play("GAME1", 6)
	s.publisher.Reset()

	g, err := s.controller.NewRound(s.ctx, "GAME1", player)
	s.Require().NoError(err)
	s.Equal(2, g.Round)
	s.Equal(model.Scores{Human: 1}, g.Scores)
	s.Equal(0, g.Board.Occupied())
	s.True(g.HumanToMove())
	s.Equal([]model.EventType{model.EventRoundStarted}, s.publisher.Types())
}

func (s *ControllerSuite) TestNewRoundEngineOpensAsX() {
	s.createGame("GAME1", game.Options{HumanMark: model.O, Difficulty: model.DifficultyHard})

	g, err := s.controller.NewRound(s.ctx, "GAME1", player)
	s.Require().NoError(err)
	s.Equal(2, g.Round)
	s.Require().Len(g.Moves, 1)
	s.Equal(model.X, g.Moves[0].Mark)
}

// UpdateSettings tests

func (s *ControllerSuite) TestUpdateDifficultyMidRound() {
	s.createGame("GAME1", game.Options{})
	s.play("GAME1", 4)

	hard := model.DifficultyHard
	g, err := s.controller.UpdateSettings(s.ctx, "GAME1", player, game.SettingsUpdate{Difficulty: &hard})
	s.Require().NoError(err)
	s.Equal(model.DifficultyHard, g.Difficulty)
	s.Len(g.Moves, 2, "round continues")
	s.Equal([]model.EventType{model.EventMovePlayed, model.EventMovePlayed, model.EventSettingsUpdated}, s.publisher.Types())
}

func (s *ControllerSuite) TestUpdateMarkMidRoundRejected() {
	s.createGame("GAME1", game.Options{})
	s.play("GAME1", 4)

	o := model.O
	_, err := s.controller.UpdateSettings(s.ctx, "GAME1", player, game.SettingsUpdate{HumanMark: &o})
	s.ErrorIs(err, model.ErrRoundInProgress)
}

func (s *ControllerSuite) TestUpdateMarkBeforeFirstMoveRestartsRound() {
	s.createGame("GAME1", game.Options{Difficulty: model.DifficultyHard})

	o := model.O
	g, err := s.controller.UpdateSettings(s.ctx, "GAME1", player, game.SettingsUpdate{HumanMark: &o})
	s.Require().NoError(err)
	s.Equal(model.O, g.HumanMark)
	s.Equal(model.X, g.EngineMark)
	s.Equal(1, g.Round)
	s.Require().Len(g.Moves, 1, "engine opens as X")
	s.True(g.HumanToMove())

	// Engine opening does not lock the marks
	x := model.X
	g, err = s.controller.UpdateSettings(s.ctx, "GAME1", player, game.SettingsUpdate{HumanMark: &x})
	s.Require().NoError(err)
	s.Equal(model.X, g.HumanMark)
	s.Empty(g.Moves)
	s.Equal(1, g.Round)
}

func (s *ControllerSuite) TestUpdateMarkAfterRoundStartsNextRound() {
	s.createGame("GAME1", game.Options{Strategy: model.StrategyRandom})
	s.play("GAME1", 0)
	s.play("GAME1", 3)
	s.play("GAME1", 6)

	o := model.O
	g, err := s.controller.UpdateSettings(s.ctx, "GAME1", player, game.SettingsUpdate{HumanMark: &o})
	s.Require().NoError(err)
	s.Equal(2, g.Round)
	s.Equal(model.Scores{Human: 1}, g.Scores)
}

func (s *ControllerSuite) TestUpdateSettingsValidation() {
	s.createGame("GAME1", game.Options{})

	bad := model.Difficulty("godlike")
	_, err := s.controller.UpdateSettings(s.ctx, "GAME1", player, game.SettingsUpdate{Difficulty: &bad})
	s.ErrorIs(err, model.ErrInvalidDifficulty)

	empty := model.Empty
	_, err = s.controller.UpdateSettings(s.ctx, "GAME1", player, game.SettingsUpdate{HumanMark: &empty})
	s.ErrorIs(err, model.ErrInvalidMark)

	name := "telepathy"
	_, err = s.controller.UpdateSettings(s.ctx, "GAME1", player, game.SettingsUpdate{Strategy: &name})
	s.ErrorIs(err, model.ErrInvalidStrategy)

	casual := model.StrategyCasual
	g, err := s.controller.UpdateSettings(s.ctx, "GAME1", player, game.SettingsUpdate{Strategy: &casual})
	s.Require().NoError(err)
	s.Equal(model.StrategyCasual, g.Strategy)
}

// ResetScores tests

func (s *ControllerSuite) TestResetScores() {
	s.createGame("GAME1", game.Options{Strategy: model.StrategyRandom})
	s.play("GAME1", 0)
	s.play("GAME1", 3)
	s.play("GAME1", 6)

	g, err := s.controller.ResetScores(s.ctx, "GAME1", player)
	s.Require().NoError(err)
	s.Equal(model.Scores{}, g.Scores)
	s.True(g.IsComplete(), "round state is untouched")
}

// Hint tests

func (s *ControllerSuite) TestHintFindsBlock() {
	g := s.createGame("GAME1", game.Options{})
	board, err := model.ParseBoard("OO.|.X.|...")
	s.Require().NoError(err)
	g.Board = board
	s.Require().NoError(s.store.SaveGame(s.ctx, g))

	hint, err := s.controller.Hint(s.ctx, "GAME1", player)
	s.Require().NoError(err)
	s.Equal(2, hint.BestMove)
	s.Equal(model.X, hint.Mark)
	s.Equal(model.DifficultyHard, hint.Difficulty)
	s.Len(hint.Scores, 6)
}

func (s *ControllerSuite) TestHintRoundComplete() {
	s.createGame("GAME1", game.Options{Strategy: model.StrategyRandom})
	s.play("GAME1", 0)
	s.play("GAME1", 3)
	s.play("GAME1", 6)

	_, err := s.controller.Hint(s.ctx, "GAME1", player)
	s.ErrorIs(err, model.ErrRoundComplete)
}

// DeleteGame tests

func (s *ControllerSuite) TestDeleteGame() {
	s.createGame("GAME1", game.Options{})

	s.ErrorIs(s.controller.DeleteGame(s.ctx, "GAME1", "intruder"), model.ErrNotGameOwner)
	s.Require().NoError(s.controller.DeleteGame(s.ctx, "GAME1", player))

	_, err := s.controller.GetGame(s.ctx, "GAME1", player)
	s.ErrorIs(err, model.ErrGameNotFound)
	s.Equal([]model.EventType{model.EventGameDeleted}, s.publisher.Types())

	s.ErrorIs(s.controller.DeleteGame(s.ctx, "GAME1", player), model.ErrGameNotFound)
}
