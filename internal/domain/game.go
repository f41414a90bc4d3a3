package domain

import (
    "errors"
    "fmt"
)

// Game holds the current state of a Tic-Tac-Toe match.
type Game struct {
    Board  Board
    Turn   Cell
    Winner Cell
    Over   bool
    Moves  int
    // Line is the winning line when Winner is set.
    Line []int
}

// Errors returned by domain operations.
var (
    ErrOutOfBounds = errors.New("out of bounds")
    ErrOccupied    = errors.New("cell occupied")
    ErrGameOver    = errors.New("game over")
    ErrUnreachable = errors.New("position unreachable in legal play")
)

// New returns a new game with X to move.
func New() Game {
    return Game{Turn: X}
}

// FromBoard resumes a game from a position, X having moved first.
func FromBoard(b Board) (Game, error) {
    if err := b.Valid(); err != nil {
        return Game{}, err
    }
    nx, no := b.Count(X), b.Count(O)
    if nx != no && nx != no+1 {
        return Game{}, fmt.Errorf("%w: %d X marks and %d O marks", ErrUnreachable, nx, no)
    }
    g := Game{Board: b, Turn: b.ToMove(), Moves: nx + no}
    ev := Evaluate(b)
    if ev.Status.Terminal() {
        g.Over = true
        g.Winner = ev.Winner()
        if ev.HasLine {
            g.Line = ev.Line[:]
        }
    }
    return g, nil
}

// Play attempts to play the current turn at row r, column c (0..2).
func (g *Game) Play(r, c int) error {
    if g.Over {
        return ErrGameOver
    }
    if r < 0 || r > 2 || c < 0 || c > 2 {
        return ErrOutOfBounds
    }
    return g.PlayIndex(r*3 + c)
}

// PlayIndex plays the current turn at board index i (0..8).
func (g *Game) PlayIndex(i int) error {
    if g.Over {
        return ErrGameOver
    }
    if i < 0 || i >= len(g.Board) {
        return ErrOutOfBounds
    }
    if g.Board[i] != Empty {
        return ErrOccupied
    }

    g.Board[i] = g.Turn
    g.Moves++

    ev := Evaluate(g.Board)
    if ev.Status.Terminal() {
        g.Winner = ev.Winner()
        g.Over = true
        if ev.HasLine {
            g.Line = ev.Line[:]
        }
        return nil
    }

    g.Turn = g.Turn.Opponent()
    return nil
}

// Status evaluates the current board.
func (g Game) Status() Status {
    return Evaluate(g.Board).Status
}
