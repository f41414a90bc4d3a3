package search

import (
    "context"
    "errors"
    "testing"

    "github.com/jaminalder/tic-tac-toe-solver/internal/domain"
)

func TestAnalyzeAgreesWithSearch(t *testing.T) {
    for _, s := range []string{".........", "X........", "OO.XX....", "X.O.X....", "XO.X.O..."} {
        b := mustBoard(t, s)
        maximizing := b.ToMove() == domain.O
        moves, err := Analyze(context.Background(), b, 9, maximizing)
        if err != nil {
            t.Fatalf("%s: %v", s, err)
        }
        empties := b.EmptyCells()
        if len(moves) != len(empties) {
            t.Fatalf("%s: expected %d moves, got %d", s, len(empties), len(moves))
        }
        for i, m := range moves {
            if m.Move != empties[i] {
                t.Fatalf("%s: move %d out of order: %d", s, i, m.Move)
            }
            if m.Nodes == 0 {
                t.Fatalf("%s: move %d searched no nodes", s, m.Move)
            }
        }
        best, ok := Best(moves, maximizing)
        if !ok {
            t.Fatalf("%s: no best move", s)
        }
        res, _ := Search(b, 9, maximizing)
        if best.Move != res.Move || best.Score != res.Score {
            t.Fatalf("%s: analysis best %d/%d, search %d/%d", s, best.Move, best.Score, res.Move, res.Score)
        }
    }
}

func TestAnalyzeThreatPosition(t *testing.T) {
    moves, err := Analyze(context.Background(), mustBoard(t, "OO.XX...."), 9, false)
    if err != nil {
        t.Fatalf("analyze: %v", err)
    }
    scores := map[int]int{}
    for _, m := range moves {
        scores[m.Move] = m.Score
    }
    if scores[5] != ScoreWinX || scores[2] != ScoreWinX {
        t.Fatalf("expected 2 and 5 to win for X, got %v", scores)
    }
    if scores[6] != ScoreWinO {
        t.Fatalf("expected 6 to lose to O on the top row, got %d", scores[6])
    }
}

func TestAnalyzeTerminalAndInvalid(t *testing.T) {
    moves, err := Analyze(context.Background(), mustBoard(t, "XXX/OO./..."), 3, true)
    if err != nil || len(moves) != 0 {
        t.Fatalf("expected no moves on a finished board, got %v err=%v", moves, err)
    }
    if _, err := Analyze(context.Background(), domain.Board{}, 0, true); !errors.Is(err, ErrInvalidDepth) {
        t.Fatalf("expected ErrInvalidDepth, got %v", err)
    }
    if _, ok := Best(nil, true); ok {
        t.Fatalf("expected no best move for an empty analysis")
    }
}

func TestAnalyzeCancelled(t *testing.T) {
    ctx, cancel := context.WithCancel(context.Background())
    cancel()
    if _, err := Analyze(ctx, domain.Board{}, 9, true); !errors.Is(err, context.Canceled) {
        t.Fatalf("expected context.Canceled, got %v", err)
    }
}
