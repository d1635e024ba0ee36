package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mcoot/tictactoe-go/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
	errW   io.Writer
}

// NewOutput creates a new Output formatter writing to w, with errors to errW
func NewOutput(format string, w, errW io.Writer) *Output {
	return &Output{format: format, w: w, errW: errW}
}

// IsJSON reports whether output is machine-readable
func (o *Output) IsJSON() bool {
	return o.format == "json"
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.IsJSON() {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.IsJSON() {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		_, _ = fmt.Fprintln(o.errW, string(data))
	} else {
		_, _ = fmt.Fprintf(o.errW, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.IsJSON() {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Player:
		o.printPlayer(v)
	case response.AuthResponse:
		o.printAuthResult(v)
	case response.Game:
		o.printGame(v)
	case response.GameList:
		o.printGameList(v)
	case response.MoveResponse:
		o.printMoveResult(v)
	case response.Hint:
		o.printHint(v)
	case HealthResult:
		o.printHealthResult(v)
	case SelfPlayResult:
		o.printSelfPlayResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) printPlayer(p response.Player) {
	guestStr := "no"
	if p.IsGuest {
		guestStr = "yes"
	}
	o.printf("Player: %s (%s)\n", p.DisplayName, p.ID)
	o.printf("Guest: %s\n", guestStr)
}

func (o *Output) printAuthResult(a response.AuthResponse) {
	o.printPlayer(a.Player)
	o.printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printGame(g response.Game) {
	o.printf("Game: %s (round %d)\n", g.ID, g.Round)
	o.printf("You: %s  Engine: %s  Difficulty: %s  Strategy: %s\n",
		g.HumanMark, g.EngineMark, g.Difficulty, g.Strategy)
	o.printf("\n%s\n\n", RenderBoard(g.Board.Cells, g.WinningLine))

	switch {
	case g.State != "complete":
		o.printf("To move: %s\n", g.Turn)
	case g.Outcome == "tie":
		o.printf("Result: tie\n")
	default:
		o.printf("Result: %s wins\n", g.Outcome)
	}
	o.printScores(g.Scores)
}

func (o *Output) printScores(s response.Scores) {
	o.printf("Scores: you %d, engine %d, ties %d\n", s.Human, s.Engine, s.Ties)
}

func (o *Output) printGameList(l response.GameList) {
	if len(l.Games) == 0 {
		o.printf("No games\n")
		return
	}
	for _, g := range l.Games {
		o.printf("%s  %-6s  %s  round %d  %-11s  %d-%d-%d\n",
			g.ID, g.Difficulty, g.HumanMark, g.Round, g.State,
			g.Scores.Human, g.Scores.Engine, g.Scores.Ties)
	}
}

func (o *Output) printMoveResult(m response.MoveResponse) {
	for _, mv := range m.Moves {
		who := "You"
		if mv.ByEngine {
			who = "Engine"
		}
		o.printf("%s played %s at %d\n", who, mv.Mark, mv.Cell)
	}
	o.printf("\n")
	o.printGame(m.Game)
}

func (o *Output) printHint(h response.Hint) {
	o.printf("Best move for %s: %d (score %d, %d positions)\n", h.Mark, h.BestMove, h.BestScore, h.Nodes)
	for _, s := range h.Scores {
		o.printf("  %d: %d\n", s.Cell, s.Score)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	o.printf("Status: %s\n", h.Status)
}

func (o *Output) printSelfPlayResult(r SelfPlayResult) {
	o.printf("%d games: X (%s) %d, O (%s) %d, ties %d\n",
		r.Games, r.XDifficulty, r.XWins, r.ODifficulty, r.OWins, r.Ties)
}

// RenderBoard draws a 3x3 grid in row-major cell order. Empty cells show
// their index so a move can be read straight off the grid; cells on the
// winning line are bracketed.
func RenderBoard(cells []string, winningLine []int) string {
	onLine := make(map[int]bool, len(winningLine))
	for _, c := range winningLine {
		onLine[c] = true
	}

	var sb strings.Builder
	for row := 0; row < 3; row++ {
		if row > 0 {
			sb.WriteString("\n---+---+---\n")
		}
		for col := 0; col < 3; col++ {
			idx := row*3 + col
			if col > 0 {
				sb.WriteByte('|')
			}
			cell := ""
			if idx < len(cells) {
				cell = cells[idx]
			}
			switch {
			case cell == "":
				sb.WriteString(" " + strconv.Itoa(idx) + " ")
			case onLine[idx]:
				sb.WriteString("[" + cell + "]")
			default:
				sb.WriteString(" " + cell + " ")
			}
		}
	}
	return sb.String()
}
