package search

import (
    "errors"
    "testing"

    "github.com/jaminalder/tic-tac-toe-solver/internal/domain"
)

func mustBoard(t *testing.T, s string) domain.Board {
    t.Helper()
    b, err := domain.ParseBoard(s)
    if err != nil {
        t.Fatalf("ParseBoard(%q): %v", s, err)
    }
    return b
}

// reachable returns every non-terminal position reachable in legal play from
// the empty board.
func reachable() []domain.Board {
    seen := map[domain.Board]bool{}
    var out []domain.Board
    var walk func(b domain.Board)
    walk = func(b domain.Board) {
        if seen[b] {
            return
        }
        seen[b] = true
        if domain.Evaluate(b).Status.Terminal() {
            return
        }
        out = append(out, b)
        side := b.ToMove()
        for _, i := range b.EmptyCells() {
            walk(b.Place(i, side))
        }
    }
    walk(domain.Board{})
    return out
}

func TestEmptyBoardFullDepthIsDraw(t *testing.T) {
    res, err := Search(domain.Board{}, 9, true)
    if err != nil {
        t.Fatalf("search: %v", err)
    }
    if res.Score != 0 || res.Outcome != Tie {
        t.Fatalf("expected drawn score 0, got %d (%v)", res.Score, res.Outcome)
    }
    if !res.HasMove() {
        t.Fatalf("expected a move from the empty board")
    }
    if res.Stats.Nodes != 18297 {
        t.Fatalf("expected 18297 nodes with pruning, got %d", res.Stats.Nodes)
    }
}

func TestEmptyBoardWithoutPruningVisitsWholeGameTree(t *testing.T) {
    res, err := SearchWindow(domain.Board{}, 9, true, -Infinity, Infinity, Options{DisablePruning: true})
    if err != nil {
        t.Fatalf("search: %v", err)
    }
    if res.Score != 0 {
        t.Fatalf("expected 0, got %d", res.Score)
    }
    if res.Stats.Nodes != 549946 {
        t.Fatalf("expected 549946 nodes, got %d", res.Stats.Nodes)
    }
    if res.Stats.Cutoffs != 0 {
        t.Fatalf("expected no cutoffs, got %d", res.Stats.Cutoffs)
    }
}

func TestWinInOneAgainstOpenThreat(t *testing.T) {
    // O threatens the top row, X the middle row; X to move.
    b := mustBoard(t, "OO.XX....")
    for _, depth := range []int{1, 2} {
        res, err := Search(b, depth, false)
        if err != nil {
            t.Fatalf("depth %d: %v", depth, err)
        }
        if res.Move != 5 || res.Score != ScoreWinX || res.Outcome != WinX {
            t.Fatalf("depth %d: expected move 5 score -10, got move %d score %d (%v)", depth, res.Move, res.Score, res.Outcome)
        }
    }
}

func TestFullDepthThreatPositionIsWonForX(t *testing.T) {
    b := mustBoard(t, "OO.XX....")
    res, err := Search(b, 9, false)
    if err != nil {
        t.Fatalf("search: %v", err)
    }
    if res.Score != ScoreWinX || res.Outcome != WinX {
        t.Fatalf("expected -10, got %d (%v)", res.Score, res.Outcome)
    }
    // Blocking at 2 forks rows and the anti-diagonal, so it wins too and comes
    // first in move order.
    if res.Move != 2 {
        t.Fatalf("expected move 2, got %d", res.Move)
    }
    next, err := Search(b.Place(res.Move, domain.X), 9, true)
    if err != nil {
        t.Fatalf("search: %v", err)
    }
    if next.Score != ScoreWinX {
        t.Fatalf("expected chosen move to keep the win, got %d", next.Score)
    }
}

func TestMaximizerBlocksOrWins(t *testing.T) {
    cases := []struct {
        board string
        want  int
        score int
    }{
        // O completes the anti-diagonal rather than blocking.
        {"X.OXO...X", 6, ScoreWinO},
        // O must block X's main diagonal.
        {"X.O.X....", 8, 0},
    }
    for _, tc := range cases {
        res, err := Search(mustBoard(t, tc.board), 9, true)
        if err != nil {
            t.Fatalf("%s: %v", tc.board, err)
        }
        if res.Move != tc.want || res.Score != tc.score {
            t.Fatalf("%s: expected move %d score %d, got move %d score %d", tc.board, tc.want, tc.score, res.Move, res.Score)
        }
    }
}

func TestTerminalBoardsReturnFixedScoreWithoutMove(t *testing.T) {
    cases := []struct {
        board   string
        outcome Outcome
    }{
        {"XXX/OO./...", WinX},
        {"OOO/XX./X..", WinO},
        {"XOX/XOO/OXX", Tie},
    }
    for _, tc := range cases {
        for _, depth := range []int{0, 3, 9} {
            for _, maximizing := range []bool{true, false} {
                res, err := Search(mustBoard(t, tc.board), depth, maximizing)
                if err != nil {
                    t.Fatalf("%s: %v", tc.board, err)
                }
                if res.Outcome != tc.outcome || res.Score != tc.outcome.Score() || res.HasMove() {
                    t.Fatalf("%s depth %d: got %+v", tc.board, depth, res)
                }
                if res.Stats.Nodes != 1 {
                    t.Fatalf("%s: expected a single node, got %d", tc.board, res.Stats.Nodes)
                }
            }
        }
    }
}

func TestZeroDepthIsHorizonNotTie(t *testing.T) {
    res, err := Search(mustBoard(t, "X...O...."), 0, false)
    if err != nil {
        t.Fatalf("search: %v", err)
    }
    if res.Score != 0 || res.Outcome != Horizon || res.HasMove() {
        t.Fatalf("expected horizon with no move, got %+v", res)
    }
}

func TestShallowSearchReportsHorizon(t *testing.T) {
    res, err := Search(domain.Board{}, 2, true)
    if err != nil {
        t.Fatalf("search: %v", err)
    }
    if res.Outcome != Horizon || res.Score != 0 || res.Move != 0 {
        t.Fatalf("expected horizon score on move 0, got %+v", res)
    }
}

func TestSearchIsDeterministic(t *testing.T) {
    for _, s := range []string{".........", "X........", "X...O...X", "OO.XX...."} {
        b := mustBoard(t, s)
        maximizing := b.ToMove() == domain.O
        first, err := Search(b, 9, maximizing)
        if err != nil {
            t.Fatalf("%s: %v", s, err)
        }
        second, _ := Search(b, 9, maximizing)
        if first != second {
            t.Fatalf("%s: results differ: %+v vs %+v", s, first, second)
        }
    }
}

func TestPruningMatchesFullMinimax(t *testing.T) {
    for _, b := range reachable() {
        maximizing := b.ToMove() == domain.O
        pruned, err := Search(b, 9, maximizing)
        if err != nil {
            t.Fatalf("%v: %v", b, err)
        }
        full, err := SearchWindow(b, 9, maximizing, -Infinity, Infinity, Options{DisablePruning: true})
        if err != nil {
            t.Fatalf("%v: %v", b, err)
        }
        if pruned.Score != full.Score || pruned.Move != full.Move {
            t.Fatalf("%s: pruned %d/%d, full %d/%d", b, pruned.Score, pruned.Move, full.Score, full.Move)
        }
        if pruned.Stats.Nodes > full.Stats.Nodes {
            t.Fatalf("%s: pruning visited more nodes (%d > %d)", b, pruned.Stats.Nodes, full.Stats.Nodes)
        }
    }
}

func TestNeverPicksLosingMoveWhenAvoidable(t *testing.T) {
    for _, b := range reachable() {
        side := b.ToMove()
        maximizing := side == domain.O
        res, err := Search(b, 9, maximizing)
        if err != nil {
            t.Fatalf("%v: %v", b, err)
        }
        if !res.HasMove() {
            t.Fatalf("%s: expected a move", b)
        }
        best := -Infinity
        if !maximizing {
            best = Infinity
        }
        var chosen int
        for _, m := range b.EmptyCells() {
            child, _ := SearchWindow(b.Place(m, side), 8, !maximizing, -Infinity, Infinity, Options{DisablePruning: true})
            if m == res.Move {
                chosen = child.Score
            }
            if (maximizing && child.Score > best) || (!maximizing && child.Score < best) {
                best = child.Score
            }
        }
        if chosen != best || res.Score != best {
            t.Fatalf("%s: chose %d worth %d, best is %d", b, res.Move, chosen, best)
        }
    }
}

func TestNarrowWindowCutsOff(t *testing.T) {
    b := domain.Board{}
    res, err := SearchWindow(b, 9, true, -1, 0, Options{})
    if err != nil {
        t.Fatalf("search: %v", err)
    }
    if res.Stats.Cutoffs == 0 {
        t.Fatalf("expected cutoffs with a null window")
    }
    // A fail-soft search of a drawn position inside (-1, 0) cannot exceed 0.
    if res.Score > 0 {
        t.Fatalf("expected score <= 0, got %d", res.Score)
    }
}

func TestInvalidCallsFailFast(t *testing.T) {
    if _, err := Search(domain.Board{}, -1, true); !errors.Is(err, ErrInvalidDepth) {
        t.Fatalf("expected ErrInvalidDepth, got %v", err)
    }
    if _, err := SearchWindow(domain.Board{}, 3, true, 5, 5, Options{}); !errors.Is(err, ErrInvalidWindow) {
        t.Fatalf("expected ErrInvalidWindow, got %v", err)
    }
    bad := domain.Board{}
    bad[0] = domain.Cell(9)
    if _, err := Search(bad, 3, true); !errors.Is(err, domain.ErrInvalidBoard) {
        t.Fatalf("expected ErrInvalidBoard, got %v", err)
    }
}

func TestOutcomeText(t *testing.T) {
    for _, o := range []Outcome{Horizon, Tie, WinX, WinO} {
        b, _ := o.MarshalText()
        var back Outcome
        if err := back.UnmarshalText(b); err != nil || back != o {
            t.Fatalf("%v: got %v err=%v", o, back, err)
        }
    }
    var o Outcome
    if err := o.UnmarshalText([]byte("checkmate")); err == nil {
        t.Fatalf("expected error for unknown outcome")
    }
}
