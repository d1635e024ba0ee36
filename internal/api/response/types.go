package response

import (
	"time"

	"github.com/mcoot/tictactoe-go/internal/engine"
	"github.com/mcoot/tictactoe-go/internal/model"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		IsGuest:     p.IsGuest,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player    `json:"player"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *model.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// Board is the grid in row-major order. Empty cells are empty strings.
type Board struct {
	Cells []string `json:"cells"`
}

// BoardFromModel converts model.Board to response Board
func BoardFromModel(b model.Board) Board {
	cells := make([]string, model.CellCount)
	for i, m := range b.Cells {
		cells[i] = m.String()
	}
	return Board{Cells: cells}
}

// ToModel converts the board back to a model.Board
func (b Board) ToModel() (model.Board, error) {
	var board model.Board
	if len(b.Cells) != model.CellCount {
		return board, model.ErrInvalidCell
	}
	for i, c := range b.Cells {
		if c == "" {
			continue
		}
		m, err := model.ParseMark(c)
		if err != nil {
			return board, err
		}
		board.Cells[i] = m
	}
	return board, nil
}

// Move represents one placement
type Move struct {
	Cell     int       `json:"cell"`
	Mark     string    `json:"mark"`
	ByEngine bool      `json:"by_engine"`
	At       time.Time `json:"at"`
}

// MoveFromModel converts model.Move
func MoveFromModel(m model.Move) Move {
	return Move{
		Cell:     m.Cell,
		Mark:     m.Mark.String(),
		ByEngine: m.ByEngine,
		At:       m.At,
	}
}

// MovesFromModel converts a move list, never returning nil
func MovesFromModel(moves []model.Move) []Move {
	out := make([]Move, len(moves))
	for i, m := range moves {
		out[i] = MoveFromModel(m)
	}
	return out
}

// Scores is the running tally of a game
type Scores struct {
	Human  int `json:"human"`
	Engine int `json:"engine"`
	Ties   int `json:"ties"`
}

// ScoresFromModel converts model.Scores
func ScoresFromModel(s model.Scores) Scores {
	return Scores{Human: s.Human, Engine: s.Engine, Ties: s.Ties}
}

// Game represents a game in API responses
type Game struct {
	ID          string    `json:"id"`
	HumanMark   string    `json:"human_mark"`
	EngineMark  string    `json:"engine_mark"`
	Difficulty  string    `json:"difficulty"`
	Strategy    string    `json:"strategy"`
	Board       Board     `json:"board"`
	Turn        string    `json:"turn"`
	State       string    `json:"state"`
	Outcome     string    `json:"outcome"`
	WinningLine []int     `json:"winning_line,omitempty"`
	Round       int       `json:"round"`
	Moves       []Move    `json:"moves"`
	Scores      Scores    `json:"scores"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GameFromModel converts model.Game
func GameFromModel(g *model.Game) Game {
	return Game{
		ID:          string(g.ID),
		HumanMark:   g.HumanMark.String(),
		EngineMark:  g.EngineMark.String(),
		Difficulty:  string(g.Difficulty),
		Strategy:    g.Strategy,
		Board:       BoardFromModel(g.Board),
		Turn:        g.Turn.String(),
		State:       string(g.State),
		Outcome:     string(g.Outcome),
		WinningLine: g.WinningLine,
		Round:       g.Round,
		Moves:       MovesFromModel(g.Moves),
		Scores:      ScoresFromModel(g.Scores),
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

// GameSummary is a game in list responses
type GameSummary struct {
	ID         string    `json:"id"`
	Difficulty string    `json:"difficulty"`
	HumanMark  string    `json:"human_mark"`
	State      string    `json:"state"`
	Round      int       `json:"round"`
	Scores     Scores    `json:"scores"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// GameSummaryFromModel converts model.GameSummary
func GameSummaryFromModel(s model.GameSummary) GameSummary {
	return GameSummary{
		ID:         string(s.ID),
		Difficulty: string(s.Difficulty),
		HumanMark:  s.HumanMark.String(),
		State:      string(s.State),
		Round:      s.Round,
		Scores:     ScoresFromModel(s.Scores),
		UpdatedAt:  s.UpdatedAt,
	}
}

// GameList is the response for listing games
type GameList struct {
	Games []GameSummary `json:"games"`
}

// GameListFromModel converts a list of games
func GameListFromModel(games []*model.Game) GameList {
	out := make([]GameSummary, len(games))
	for i, g := range games {
		out[i] = GameSummaryFromModel(g.Summary())
	}
	return GameList{Games: out}
}

// MoveResponse is the response after the human plays
type MoveResponse struct {
	Game  Game   `json:"game"`
	Moves []Move `json:"moves"`
}

// MoveScore is the value of one candidate cell
type MoveScore struct {
	Cell  int `json:"cell"`
	Score int `json:"score"`
}

// Hint is the engine's analysis of the human's position
type Hint struct {
	Mark       string      `json:"mark"`
	Difficulty string      `json:"difficulty"`
	BestMove   int         `json:"best_move"`
	BestScore  int         `json:"best_score"`
	Scores     []MoveScore `json:"scores"`
	Nodes      int         `json:"nodes"`
}

// HintFromAnalysis converts engine.Analysis
func HintFromAnalysis(a *engine.Analysis) Hint {
	scores := make([]MoveScore, len(a.Scores))
	for i, s := range a.Scores {
		scores[i] = MoveScore{Cell: s.Cell, Score: s.Score}
	}
	return Hint{
		Mark:       a.Mark.String(),
		Difficulty: string(a.Difficulty),
		BestMove:   a.BestMove,
		BestScore:  a.BestScore,
		Scores:     scores,
		Nodes:      a.Nodes,
	}
}
