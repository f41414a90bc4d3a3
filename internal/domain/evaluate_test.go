package domain

import "testing"

func mustParse(t *testing.T, s string) Board {
    t.Helper()
    b, err := ParseBoard(s)
    if err != nil {
        t.Fatalf("ParseBoard(%q): %v", s, err)
    }
    return b
}

func TestEvaluateEveryLineForBothSides(t *testing.T) {
    for _, side := range []Cell{X, O} {
        for _, ln := range Lines {
            var b Board
            for _, i := range ln {
                b[i] = side
            }
            ev := Evaluate(b)
            if ev.Winner() != side {
                t.Fatalf("line %v for %v: expected winner %v, got status %v", ln, side, side, ev.Status)
            }
            if !ev.HasLine || ev.Line != ln {
                t.Fatalf("line %v for %v: got line %v (has=%v)", ln, side, ev.Line, ev.HasLine)
            }
        }
    }
}

func TestEvaluateReportsFirstLineInCanonicalOrder(t *testing.T) {
    // X holds row 0 and column 0; rows come first.
    b := mustParse(t, "XXX/XOO/XO.")
    ev := Evaluate(b)
    if ev.Status != XWins || ev.Line != [3]int{0, 1, 2} {
        t.Fatalf("expected x-wins on row 0, got %v %v", ev.Status, ev.Line)
    }
}

func TestEvaluateBothSidesLinedPrefersX(t *testing.T) {
    // Unreachable in legal play: O on the top row, X on the bottom row.
    b := mustParse(t, "OOO/.../XXX")
    ev := Evaluate(b)
    if ev.Status != XWins || ev.Line != [3]int{6, 7, 8} {
        t.Fatalf("expected x-wins on bottom row, got %v %v", ev.Status, ev.Line)
    }
}

func TestEvaluateTieAndInProgress(t *testing.T) {
    cases := []struct {
        board string
        want  Status
    }{
        {"XOX/XOO/OXX", Tie},
        {"XOX/OOX/XXO", Tie},
        {".........", InProgress},
        {"XOX/XOO/OX.", InProgress},
        {"OO./XX./...", InProgress},
    }
    for _, tc := range cases {
        ev := Evaluate(mustParse(t, tc.board))
        if ev.Status != tc.want {
            t.Fatalf("%s: expected %v, got %v", tc.board, tc.want, ev.Status)
        }
        if ev.HasLine {
            t.Fatalf("%s: expected no line, got %v", tc.board, ev.Line)
        }
        if ev.Winner() != Empty {
            t.Fatalf("%s: expected no winner, got %v", tc.board, ev.Winner())
        }
    }
}

func TestEvaluateWinOnFullBoardIsNotTie(t *testing.T) {
    b := mustParse(t, "XOX/OXO/OXX")
    if ev := Evaluate(b); ev.Status != XWins || ev.Line != [3]int{0, 4, 8} {
        t.Fatalf("expected x-wins on diagonal, got %v %v", ev.Status, ev.Line)
    }
}

func TestWinningMove(t *testing.T) {
    b := mustParse(t, "OO.XX....")
    if i, ok := b.WinningMove(X); !ok || i != 5 {
        t.Fatalf("expected X to win at 5, got %d %v", i, ok)
    }
    if i, ok := b.WinningMove(O); !ok || i != 2 {
        t.Fatalf("expected O to win at 2, got %d %v", i, ok)
    }
    if _, ok := mustParse(t, "X.......O").WinningMove(X); ok {
        t.Fatalf("expected no winning move")
    }
}
