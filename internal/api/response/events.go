package response

import (
	"time"

	"github.com/mcoot/tictactoe-go/internal/model"
)

// Event is a game event as sent on the SSE stream
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	GameID    string    `json:"game_id"`
	PlayerID  string    `json:"player_id,omitempty"`
	Payload   any       `json:"payload,omitempty"`
}

// MovePlayed is the payload of a move event
type MovePlayed struct {
	Move  Move   `json:"move"`
	Board Board  `json:"board"`
	Turn  string `json:"turn"`
}

// RoundComplete is the payload of a round-complete event
type RoundComplete struct {
	Round       int    `json:"round"`
	Outcome     string `json:"outcome"`
	WinningLine []int  `json:"winning_line,omitempty"`
	Scores      Scores `json:"scores"`
}

// RoundStarted is the payload of a round-started event
type RoundStarted struct {
	Round int    `json:"round"`
	Board Board  `json:"board"`
	Turn  string `json:"turn"`
}

// SettingsUpdated is the payload of a settings-updated event
type SettingsUpdated struct {
	Difficulty string `json:"difficulty"`
	HumanMark  string `json:"human_mark"`
	EngineMark string `json:"engine_mark"`
	Strategy   string `json:"strategy"`
}

// EventFromModel converts model.Event and its payload
func EventFromModel(e model.Event) Event {
	return Event{
		Type:      string(e.Type),
		Timestamp: e.Timestamp,
		GameID:    string(e.GameID),
		PlayerID:  string(e.PlayerID),
		Payload:   payloadFromModel(e.Payload),
	}
}

func payloadFromModel(p any) any {
	switch v := p.(type) {
	case model.MovePlayedPayload:
		return MovePlayed{
			Move:  MoveFromModel(v.Move),
			Board: BoardFromModel(v.Board),
			Turn:  v.Turn.String(),
		}
	case model.RoundCompletePayload:
		return RoundComplete{
			Round:       v.Round,
			Outcome:     string(v.Outcome),
			WinningLine: v.WinningLine,
			Scores:      ScoresFromModel(v.Scores),
		}
	case model.RoundStartedPayload:
		return RoundStarted{
			Round: v.Round,
			Board: BoardFromModel(v.Board),
			Turn:  v.Turn.String(),
		}
	case model.SettingsUpdatedPayload:
		return SettingsUpdated{
			Difficulty: string(v.Difficulty),
			HumanMark:  v.HumanMark.String(),
			EngineMark: v.EngineMark.String(),
			Strategy:   v.Strategy,
		}
	case model.Scores:
		return ScoresFromModel(v)
	default:
		return p
	}
}
