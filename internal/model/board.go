package model

import (
	"fmt"
	"strings"
)

// CellCount is the number of cells on the 3x3 board
const CellCount = 9

// CenterCell is the index of the middle cell
const CenterCell = 4

// WinLines lists every row, column and diagonal as cell index triples.
// Cells are numbered row-major from 0 (top left) to 8 (bottom right).
var WinLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

// Board is the 3x3 grid. It is a value type: assigning or passing a Board
// copies its cells.
type Board struct {
	Cells [CellCount]Mark
}

// NewBoard returns an empty board
func NewBoard() Board {
	return Board{}
}

// Reset clears every cell
func (b *Board) Reset() {
	b.Cells = [CellCount]Mark{}
}

// Get returns the mark at index, or Empty if the index is out of range
func (b Board) Get(index int) Mark {
	if !IsValidCell(index) {
		return Empty
	}
	return b.Cells[index]
}

// IsValidCell returns true if index addresses a cell on the board
func IsValidCell(index int) bool {
	return index >= 0 && index < CellCount
}

// LegalMoves returns the indices of empty cells in ascending order
func (b Board) LegalMoves() []int {
	moves := make([]int, 0, CellCount)
	for i, m := range b.Cells {
		if m == Empty {
			moves = append(moves, i)
		}
	}
	return moves
}

// Place puts mark on the cell at index. It returns false, leaving the board
// untouched, if the index is out of range, the cell is taken, or mark is not
// X or O.
func (b *Board) Place(index int, mark Mark) bool {
	if !IsValidCell(index) || !mark.IsPlayer() {
		return false
	}
	if b.Cells[index] != Empty {
		return false
	}
	b.Cells[index] = mark
	return true
}

// Winner returns the winning mark's outcome, OutcomeTie for a full board with
// no line, or OutcomeNone while the round is still open.
//
// A legal game stops at the first completed line, so only one mark can ever
// own a line. For a hand-built board where both do, the first line in
// WinLines order decides.
func (b Board) Winner() Outcome {
	if _, mark, ok := b.winningLine(); ok {
		return OutcomeFor(mark)
	}
	if b.IsFull() {
		return OutcomeTie
	}
	return OutcomeNone
}

// WinningLine returns the completed line, if any
func (b Board) WinningLine() ([3]int, bool) {
	line, _, ok := b.winningLine()
	return line, ok
}

func (b Board) winningLine() ([3]int, Mark, bool) {
	for _, line := range WinLines {
		first := b.Cells[line[0]]
		if first != Empty && first == b.Cells[line[1]] && first == b.Cells[line[2]] {
			return line, first, true
		}
	}
	return [3]int{}, Empty, false
}

// IsFull returns true if no empty cell remains
func (b Board) IsFull() bool {
	return b.Occupied() == CellCount
}

// Occupied returns the number of non-empty cells
func (b Board) Occupied() int {
	count := 0
	for _, m := range b.Cells {
		if m != Empty {
			count++
		}
	}
	return count
}

// Clone returns an independent copy of the board
func (b Board) Clone() Board {
	return b
}

// String renders the board as three rows, using "." for empty cells
func (b Board) String() string {
	var sb strings.Builder
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			m := b.Cells[row*3+col]
			if m == Empty {
				sb.WriteByte('.')
			} else {
				sb.WriteString(m.String())
			}
		}
		if row < 2 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// ParseBoard builds a board from nine cell characters. X and O (any case)
// are marks; ".", "_" and "-" are empty. Whitespace and "|" are ignored so
// "XX.|OO.|..." and multi-line layouts both parse.
func ParseBoard(s string) (Board, error) {
	var b Board
	idx := 0
	for _, r := range s {
		var m Mark
		switch r {
		case ' ', '\t', '\n', '\r', '|':
			continue
		case 'X', 'x':
			m = X
		case 'O', 'o':
			m = O
		case '.', '_', '-':
			m = Empty
		default:
			return Board{}, fmt.Errorf("invalid board character %q", r)
		}
		if idx >= CellCount {
			return Board{}, fmt.Errorf("board has more than %d cells", CellCount)
		}
		b.Cells[idx] = m
		idx++
	}
	if idx != CellCount {
		return Board{}, fmt.Errorf("board has %d cells, want %d", idx, CellCount)
	}
	return b, nil
}
