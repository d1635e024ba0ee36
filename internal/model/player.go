package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player is a human who owns games against the engine
type Player struct {
	ID          PlayerID
	DisplayName string
	IsGuest     bool // true for players created without credentials
	CreatedAt   time.Time
}

// RegisteredPlayer holds login credentials for a non-guest player. It is
// stored apart from Player so the hash never travels with game data.
type RegisteredPlayer struct {
	PlayerID     PlayerID
	Username     string // immutable
	PasswordHash string // bcrypt
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session is an authenticated bearer token for a player. Player is a
// snapshot taken at login so requests need not load it again.
type Session struct {
	Token     string
	PlayerID  PlayerID
	Player    Player
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
