// Package storagetest holds behaviour every storage backend must share.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/storage"
)

// Epoch is the fixed time used by fixtures
var Epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// Suite runs the shared storage contract. Embed it and set NewStorage in
// SetupTest before calling Suite.SetupTest.
type Suite struct {
	suite.Suite
	NewStorage func() storage.Storage

	Store storage.Storage
	Ctx   context.Context
}

func (s *Suite) SetupTest() {
	s.Require().NotNil(s.NewStorage, "NewStorage must be set")
	s.Store = s.NewStorage()
	s.Ctx = context.Background()
}

// SampleGame returns a game with a round in progress
func SampleGame(id model.GameID, playerID model.PlayerID, updatedAt time.Time) *model.Game {
	g := &model.Game{
		ID:         id,
		PlayerID:   playerID,
		HumanMark:  model.X,
		EngineMark: model.O,
		Difficulty: model.DifficultyHard,
		Strategy:   model.StrategyMinimax,
		CreatedAt:  Epoch,
		UpdatedAt:  updatedAt,
	}
	g.StartRound()
	g.Apply(4, model.X, false, Epoch)
	g.Apply(0, model.O, true, Epoch)
	return g
}

// Player tests

func (s *Suite) TestSaveAndGetPlayer() {
	player := &model.Player{ID: "player-1", DisplayName: "Alice", CreatedAt: Epoch}
	s.Require().NoError(s.Store.SavePlayer(s.Ctx, player))

	retrieved, err := s.Store.GetPlayer(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(player, retrieved)
}

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.Store.GetPlayer(s.Ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestDeletePlayer() {
	s.Require().NoError(s.Store.SavePlayer(s.Ctx, &model.Player{ID: "player-1"}))
	s.Require().NoError(s.Store.DeletePlayer(s.Ctx, "player-1"))

	_, err := s.Store.GetPlayer(s.Ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Registered player tests

func (s *Suite) TestRegisteredPlayerByUsername() {
	rp := &model.RegisteredPlayer{
		PlayerID:     "player-1",
		Username:     "alice",
		PasswordHash: "hash",
		CreatedAt:    Epoch,
		UpdatedAt:    Epoch,
	}
	s.Require().NoError(s.Store.SaveRegisteredPlayer(s.Ctx, rp))

	byID, err := s.Store.GetRegisteredPlayer(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(rp, byID)

	byName, err := s.Store.GetRegisteredPlayerByUsername(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(rp, byName)

	_, err = s.Store.GetRegisteredPlayerByUsername(s.Ctx, "bob")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Session tests

func (s *Suite) TestSessionLifecycle() {
	session := &model.Session{
		Token:     "sess_1",
		PlayerID:  "player-1",
		Player:    model.Player{ID: "player-1", DisplayName: "Alice", IsGuest: true, CreatedAt: Epoch},
		CreatedAt: Epoch,
		ExpiresAt: Epoch.Add(24 * time.Hour),
	}
	s.Require().NoError(s.Store.SaveSession(s.Ctx, session))

	retrieved, err := s.Store.GetSession(s.Ctx, "sess_1")
	s.Require().NoError(err)
	s.Equal(session, retrieved)

	s.Require().NoError(s.Store.DeleteSession(s.Ctx, "sess_1"))
	_, err = s.Store.GetSession(s.Ctx, "sess_1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

// Game tests

func (s *Suite) TestSaveAndGetGame() {
	game := SampleGame("game-1", "player-1", Epoch)
	s.Require().NoError(s.Store.SaveGame(s.Ctx, game))

	retrieved, err := s.Store.GetGame(s.Ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(game.Board, retrieved.Board)
	s.Equal(game.Moves, retrieved.Moves)
	s.Equal(model.X, retrieved.Turn)
	s.Equal(model.GameStateInProgress, retrieved.State)
	s.Equal(model.OutcomeNone, retrieved.Outcome)
	s.Equal(model.DifficultyHard, retrieved.Difficulty)
	s.Equal(1, retrieved.Round)
}

func (s *Suite) TestGetGameReturnsCopy() {
	s.Require().NoError(s.Store.SaveGame(s.Ctx, SampleGame("game-1", "player-1", Epoch)))

	first, err := s.Store.GetGame(s.Ctx, "game-1")
	s.Require().NoError(err)
	first.Apply(8, model.X, false, Epoch)

	second, err := s.Store.GetGame(s.Ctx, "game-1")
	s.Require().NoError(err)
	s.Len(second.Moves, 2)
	s.Equal(model.Empty, second.Board.Get(8))
}

func (s *Suite) TestGetGameNotFound() {
	_, err := s.Store.GetGame(s.Ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *Suite) TestDeleteGame() {
	s.Require().NoError(s.Store.SaveGame(s.Ctx, SampleGame("game-1", "player-1", Epoch)))
	s.Require().NoError(s.Store.DeleteGame(s.Ctx, "game-1"))

	_, err := s.Store.GetGame(s.Ctx, "game-1")
	s.ErrorIs(err, model.ErrGameNotFound)

	games, err := s.Store.ListGamesForPlayer(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Empty(games)

	// Deleting again is not an error
	s.NoError(s.Store.DeleteGame(s.Ctx, "game-1"))
}

func (s *Suite) TestListGamesForPlayer() {
	s.Require().NoError(s.Store.SaveGame(s.Ctx, SampleGame("game-a", "player-1", Epoch)))
	s.Require().NoError(s.Store.SaveGame(s.Ctx, SampleGame("game-b", "player-1", Epoch.Add(time.Minute))))
	s.Require().NoError(s.Store.SaveGame(s.Ctx, SampleGame("game-c", "player-2", Epoch)))

	games, err := s.Store.ListGamesForPlayer(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Require().Len(games, 2)
	s.Equal(model.GameID("game-b"), games[0].ID)
	s.Equal(model.GameID("game-a"), games[1].ID)

	none, err := s.Store.ListGamesForPlayer(s.Ctx, "player-3")
	s.Require().NoError(err)
	s.NotNil(none)
	s.Empty(none)
}
