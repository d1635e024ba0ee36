package redis

import (
	"github.com/mcoot/tictactoe-go/internal/model"
)

// DefaultKeyPrefix namespaces every key written by the server
const DefaultKeyPrefix = "ttt"

// keyspace builds Redis keys under one prefix, e.g. "ttt:game:<id>"
type keyspace string

func (k keyspace) key(parts ...string) string {
	s := string(k)
	for _, p := range parts {
		s += ":" + p
	}
	return s
}

func (k keyspace) player(id model.PlayerID) string {
	return k.key("player", string(id))
}

func (k keyspace) registeredPlayer(playerID model.PlayerID) string {
	return k.key("registered_player", string(playerID))
}

// username -> player_id index
func (k keyspace) usernameIndex(username string) string {
	return k.key("idx", "username", username)
}

func (k keyspace) session(token string) string {
	return k.key("session", token)
}

func (k keyspace) game(id model.GameID) string {
	return k.key("game", string(id))
}

// SET of a player's game keys
func (k keyspace) gamesForPlayer(playerID model.PlayerID) string {
	return k.key("idx", "games_for_player", string(playerID))
}
