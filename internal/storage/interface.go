package storage

import (
	"context"
	"sort"

	"github.com/mcoot/tictactoe-go/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Registered player operations
	SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error
	GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error)
	GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error)

	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, token string) (*model.Session, error)
	DeleteSession(ctx context.Context, token string) error

	// Game operations. Returned games are copies; changes only persist
	// through SaveGame.
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	DeleteGame(ctx context.Context, id model.GameID) error
	ListGamesForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Game, error)
}

// SortGamesByRecent orders games most recently updated first, breaking ties
// by ID so listings are stable
func SortGamesByRecent(games []*model.Game) {
	sort.Slice(games, func(i, j int) bool {
		if games[i].UpdatedAt.Equal(games[j].UpdatedAt) {
			return games[i].ID < games[j].ID
		}
		return games[i].UpdatedAt.After(games[j].UpdatedAt)
	})
}
