package domain

import (
    "errors"
    "testing"
)

func TestParseBoardFormats(t *testing.T) {
    want := Board{O, O, Empty, X, X, Empty, Empty, Empty, Empty}
    for _, s := range []string{"OO.XX....", "oo-/xx_/...", "OO.\nXX.\n...", "OO XX    "} {
        b, err := ParseBoard(s)
        if err != nil {
            t.Fatalf("ParseBoard(%q): %v", s, err)
        }
        if b != want {
            t.Fatalf("ParseBoard(%q) = %v, want %v", s, b, want)
        }
    }
}

func TestParseBoardRejects(t *testing.T) {
    for _, s := range []string{"", "XO", "XXXXXXXXXX", "XO?......"} {
        if _, err := ParseBoard(s); !errors.Is(err, ErrInvalidBoard) {
            t.Fatalf("ParseBoard(%q): expected ErrInvalidBoard, got %v", s, err)
        }
    }
}

func TestBoardStringRoundTrip(t *testing.T) {
    b := Board{X, Empty, O, Empty, X, Empty, O, Empty, Empty}
    if got := b.String(); got != "X.O.X.O.." {
        t.Fatalf("unexpected encoding %q", got)
    }
    back, err := ParseBoard(b.String())
    if err != nil || back != b {
        t.Fatalf("round trip failed: %v %v", back, err)
    }
}

func TestPlaceCopies(t *testing.T) {
    var b Board
    nb := b.Place(4, X)
    if b[4] != Empty {
        t.Fatalf("Place mutated the receiver")
    }
    if nb[4] != X {
        t.Fatalf("expected X at 4, got %v", nb[4])
    }
}

func TestEmptyCellsAscending(t *testing.T) {
    b := Board{X, Empty, O, Empty, X, Empty, O, Empty, Empty}
    got := b.EmptyCells()
    want := []int{1, 3, 5, 7, 8}
    if len(got) != len(want) {
        t.Fatalf("expected %v, got %v", want, got)
    }
    for i := range want {
        if got[i] != want[i] {
            t.Fatalf("expected %v, got %v", want, got)
        }
    }
}

func TestToMoveAndValid(t *testing.T) {
    var b Board
    if b.ToMove() != X {
        t.Fatalf("expected X to move on empty board")
    }
    b[0] = X
    if b.ToMove() != O {
        t.Fatalf("expected O to move after X")
    }
    if err := b.Valid(); err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    b[3] = Cell(7)
    if err := b.Valid(); !errors.Is(err, ErrInvalidBoard) {
        t.Fatalf("expected ErrInvalidBoard, got %v", err)
    }
}
