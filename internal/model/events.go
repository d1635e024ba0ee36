package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventMovePlayed      EventType = "move"
	EventRoundComplete   EventType = "round-complete"
	EventRoundStarted    EventType = "round-started"
	EventSettingsUpdated EventType = "settings-updated"
	EventScoresReset     EventType = "scores-reset"
	EventGameDeleted     EventType = "game-deleted"
)

// Event is the base structure for all events
type Event struct {
	Type      EventType
	Timestamp time.Time
	GameID    GameID
	PlayerID  PlayerID // The player who triggered the event
	Payload   any      // Type-specific data
}

// MovePlayedPayload contains data for move events
type MovePlayedPayload struct {
	Move  Move
	Board Board
	Turn  Mark
}

// RoundCompletePayload contains data for round complete events
type RoundCompletePayload struct {
	Round       int
	Outcome     Outcome
	WinningLine []int
	Scores      Scores
}

// RoundStartedPayload contains data for round started events
type RoundStartedPayload struct {
	Round int
	Board Board
	Turn  Mark
}

// SettingsUpdatedPayload contains data for settings updated events
type SettingsUpdatedPayload struct {
	Difficulty Difficulty
	HumanMark  Mark
	EngineMark Mark
	Strategy   string
}
