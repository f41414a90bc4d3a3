package search

import (
    "context"
    "fmt"

    "golang.org/x/sync/errgroup"

    "github.com/jaminalder/tic-tac-toe-solver/internal/domain"
)

// MoveScore is the value of playing Move from the analysed position.
type MoveScore struct {
    Move    int     `json:"move"`
    Score   int     `json:"score"`
    Outcome Outcome `json:"outcome"`
    Nodes   int     `json:"nodes"`
}

// Analyze scores every legal move of the side to move with an independent
// full-window search of depth-1 plies below it. Searches run concurrently;
// results are in ascending move order. Terminal boards have no moves.
func Analyze(ctx context.Context, b domain.Board, depth int, maximizing bool) ([]MoveScore, error) {
    if depth < 1 {
        return nil, fmt.Errorf("%w: analysis needs depth >= 1, got %d", ErrInvalidDepth, depth)
    }
    if err := b.Valid(); err != nil {
        return nil, err
    }
    if domain.Evaluate(b).Status.Terminal() {
        return []MoveScore{}, nil
    }

    mark := domain.X
    if maximizing {
        mark = domain.O
    }
    moves := b.EmptyCells()
    out := make([]MoveScore, len(moves))
    g, ctx := errgroup.WithContext(ctx)
    for i, m := range moves {
        i, m := i, m
        g.Go(func() error {
            if err := ctx.Err(); err != nil {
                return err
            }
            res, err := Search(b.Place(m, mark), depth-1, !maximizing)
            if err != nil {
                return fmt.Errorf("move %d: %w", m, err)
            }
            out[i] = MoveScore{Move: m, Score: res.Score, Outcome: res.Outcome, Nodes: res.Stats.Nodes}
            return nil
        })
    }
    if err := g.Wait(); err != nil {
        return nil, err
    }
    return out, nil
}

// Best picks the best entry for the given side, keeping the earliest move on
// ties.
func Best(moves []MoveScore, maximizing bool) (MoveScore, bool) {
    if len(moves) == 0 {
        return MoveScore{Move: NoMove}, false
    }
    best := moves[0]
    for _, m := range moves[1:] {
        if (maximizing && m.Score > best.Score) || (!maximizing && m.Score < best.Score) {
            best = m
        }
    }
    return best, true
}
