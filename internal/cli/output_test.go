package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/tictactoe-go/internal/api/response"
)

func TestRenderBoard(t *testing.T) {
	t.Run("empty cells show their index", func(t *testing.T) {
		got := RenderBoard(make([]string, 9), nil)
		want := " 0 | 1 | 2 \n---+---+---\n 3 | 4 | 5 \n---+---+---\n 6 | 7 | 8 "
		assert.Equal(t, want, got)
	})

	t.Run("winning line is bracketed", func(t *testing.T) {
		cells := []string{"X", "X", "X", "O", "O", "", "", "", ""}
		got := RenderBoard(cells, []int{0, 1, 2})
		assert.Contains(t, got, "[X]|[X]|[X]")
		assert.Contains(t, got, " O | O | 5 ")
	})
}

func TestOutput(t *testing.T) {
	t.Run("text game", func(t *testing.T) {
		var out bytes.Buffer
		o := NewOutput("text", &out, &out)
		o.Print(response.Game{
			ID:         "g1",
			HumanMark:  "X",
			EngineMark: "O",
			Difficulty: "hard",
			Strategy:   "minimax",
			Board:      response.Board{Cells: make([]string, 9)},
			Turn:       "X",
			State:      "in_progress",
			Round:      1,
		})
		assert.Contains(t, out.String(), "Game: g1 (round 1)")
		assert.Contains(t, out.String(), "To move: X")
		assert.Contains(t, out.String(), "Scores: you 0, engine 0, ties 0")
	})

	t.Run("text result", func(t *testing.T) {
		var out bytes.Buffer
		o := NewOutput("text", &out, &out)
		o.Print(response.Game{
			Board:   response.Board{Cells: make([]string, 9)},
			State:   "complete",
			Outcome: "tie",
		})
		assert.Contains(t, out.String(), "Result: tie")
	})

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		o := NewOutput("json", &out, &out)
		o.Print(HealthResult{Status: "ok"})
		assert.JSONEq(t, `{"status":"ok"}`, out.String())
	})

	t.Run("json error goes to the error writer", func(t *testing.T) {
		var out, errOut bytes.Buffer
		o := NewOutput("json", &out, &errOut)
		o.PrintError(errors.New("boom"))
		assert.Empty(t, out.String())
		assert.JSONEq(t, `{"error":{"message":"boom"}}`, errOut.String())
	})

	t.Run("unknown types fall back to json", func(t *testing.T) {
		var out bytes.Buffer
		o := NewOutput("text", &out, &out)
		o.Print(map[string]int{"a": 1})
		assert.JSONEq(t, `{"a":1}`, out.String())
	})
}
