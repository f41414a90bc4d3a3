package domain

import (
    "errors"
    "fmt"
    "strings"
)

// Cell represents a board cell state.
type Cell uint8

const (
    Empty Cell = iota
    X
    O
)

// Opponent returns the other side; Empty has no opponent.
func (c Cell) Opponent() Cell {
    switch c {
    case X:
        return O
    case O:
        return X
    default:
        return Empty
    }
}

func (c Cell) String() string {
    switch c {
    case X:
        return "X"
    case O:
        return "O"
    default:
        return ""
    }
}

// MarshalText encodes c as "X", "O" or "" for empty cells.
func (c Cell) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Cell) UnmarshalText(b []byte) error {
    switch string(b) {
    case "X", "x":
        *c = X
    case "O", "o":
        *c = O
    case "", ".", "-":
        *c = Empty
    default:
        return fmt.Errorf("%w: unknown cell %q", ErrInvalidBoard, b)
    }
    return nil
}

// Board is a fixed 3x3 board stored row-major. It is a value type: assigning
// or passing a Board copies all nine cells.
type Board [9]Cell

// ErrInvalidBoard is returned for boards holding values other than Empty, X or O
// and for unparseable board strings.
var ErrInvalidBoard = errors.New("invalid board")

// Valid reports whether every cell holds a known value.
func (b Board) Valid() error {
    for i, c := range b {
        if c > O {
            return fmt.Errorf("%w: cell %d has value %d", ErrInvalidBoard, i, c)
        }
    }
    return nil
}

// Place returns a copy of b with cell i set to c.
func (b Board) Place(i int, c Cell) Board {
    b[i] = c
    return b
}

// EmptyCells lists the free cells in ascending index order.
func (b Board) EmptyCells() []int {
    out := make([]int, 0, len(b))
    for i, c := range b {
        if c == Empty {
            out = append(out, i)
        }
    }
    return out
}

// Count returns how many cells hold c.
func (b Board) Count(c Cell) int {
    n := 0
    for _, v := range b {
        if v == c {
            n++
        }
    }
    return n
}

func (b Board) Full() bool { return b.Count(Empty) == 0 }

// ToMove derives the side to move from the mark counts, X moving first.
func (b Board) ToMove() Cell {
    if b.Count(X) > b.Count(O) {
        return O
    }
    return X
}

// String encodes the board as nine characters, '.' for empty cells.
func (b Board) String() string {
    var sb strings.Builder
    for _, c := range b {
        switch c {
        case X:
            sb.WriteByte('X')
        case O:
            sb.WriteByte('O')
        default:
            sb.WriteByte('.')
        }
    }
    return sb.String()
}

// ParseBoard reads nine cells from s. X and O (any case) are marks; '.', '-',
// '_' and ' ' are empty cells. '/', newlines and tabs may separate rows.
func ParseBoard(s string) (Board, error) {
    var b Board
    n := 0
    for _, r := range s {
        var c Cell
        switch r {
        case '/', '\n', '\r', '\t':
            continue
        case 'x', 'X':
            c = X
        case 'o', 'O':
            c = O
        case '.', '-', '_', ' ':
            c = Empty
        default:
            return Board{}, fmt.Errorf("%w: unexpected %q", ErrInvalidBoard, r)
        }
        if n == len(b) {
            return Board{}, fmt.Errorf("%w: more than 9 cells", ErrInvalidBoard)
        }
        b[n] = c
        n++
    }
    if n != len(b) {
        return Board{}, fmt.Errorf("%w: got %d cells, want 9", ErrInvalidBoard, n)
    }
    return b, nil
}
