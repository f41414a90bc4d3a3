// Package search implements depth-limited minimax with alpha-beta pruning
// over tic-tac-toe boards. O is the maximizing side and X the minimizing side.
package search

import (
    "errors"
    "fmt"

    "github.com/jaminalder/tic-tac-toe-solver/internal/domain"
)

// NoMove marks a result or node without a move.
const NoMove = -1

// Errors returned for calls that break the engine's preconditions.
var (
    ErrInvalidDepth  = errors.New("invalid depth")
    ErrInvalidWindow = errors.New("invalid alpha-beta window")
)

// Stats counts work done by one search invocation.
type Stats struct {
    Nodes   int `json:"nodes"`
    Cutoffs int `json:"cutoffs"`
}

// Result is the outcome of a search from one position.
type Result struct {
    Score   int
    Outcome Outcome
    Move    int
    Stats   Stats
}

// HasMove reports whether the search chose a move. Terminal positions and a
// zero depth budget yield no move.
func (r Result) HasMove() bool { return r.Move != NoMove }

// Options tune a single search invocation.
type Options struct {
    // DisablePruning explores every move regardless of the window.
    DisablePruning bool
}

// Search finds the best move for the side to move using the widest window.
func Search(b domain.Board, depth int, maximizing bool) (Result, error) {
    return SearchWindow(b, depth, maximizing, -Infinity, Infinity, Options{})
}

// SearchWindow searches b with an explicit alpha-beta window.
func SearchWindow(b domain.Board, depth int, maximizing bool, alpha, beta int, opts Options) (Result, error) {
    if err := validate(b, depth, alpha, beta); err != nil {
        return Result{}, err
    }
    s := &searcher{prune: !opts.DisablePruning}
    v := s.alphaBeta(b, depth, maximizing, alpha, beta, NoMove, 0)
    return s.result(v), nil
}

func validate(b domain.Board, depth, alpha, beta int) error {
    if depth < 0 {
        return fmt.Errorf("%w: %d", ErrInvalidDepth, depth)
    }
    if alpha >= beta {
        return fmt.Errorf("%w: alpha %d >= beta %d", ErrInvalidWindow, alpha, beta)
    }
    return b.Valid()
}

// observer is told about every position the recursion visits, in visit order.
type observer interface {
    enter(b domain.Board, move, ply int)
    exit(v value)
}

type searcher struct {
    prune bool
    obs   observer
    stats Stats
}

// value is what one recursion step reports to its parent.
type value struct {
    score   int
    outcome Outcome
    move    int
}

func (s *searcher) result(v value) Result {
    return Result{Score: v.score, Outcome: v.outcome, Move: v.move, Stats: s.stats}
}

func (s *searcher) alphaBeta(b domain.Board, depth int, maximizing bool, alpha, beta, move, ply int) value {
    s.stats.Nodes++
    if s.obs != nil {
        s.obs.enter(b, move, ply)
    }
    v := s.visit(b, depth, maximizing, alpha, beta, ply)
    if s.obs != nil {
        s.obs.exit(v)
    }
    return v
}

func (s *searcher) visit(b domain.Board, depth int, maximizing bool, alpha, beta, ply int) value {
    // Terminal boards take priority over the depth budget.
    if out, ok := outcomeOf(domain.Evaluate(b).Status); ok {
        return value{score: out.Score(), outcome: out, move: NoMove}
    }
    if depth == 0 {
        return value{score: ScoreNeutral, outcome: Horizon, move: NoMove}
    }

    mark := domain.X
    if maximizing {
        mark = domain.O
    }
    acc := newAccumulator(maximizing, alpha, beta)
    for i := range b {
        if b[i] != domain.Empty {
            continue
        }
        child := s.alphaBeta(b.Place(i, mark), depth-1, !maximizing, acc.alpha, acc.beta, i, ply+1)
        acc = acc.fold(i, child)
        if s.prune && acc.cutoff() {
            if hasEmptyAfter(b, i) {
                s.stats.Cutoffs++
            }
            break
        }
    }
    return acc.final()
}

func hasEmptyAfter(b domain.Board, i int) bool {
    for j := i + 1; j < len(b); j++ {
        if b[j] == domain.Empty {
            return true
        }
    }
    return false
}

// accumulator carries the running best and the window through the move loop.
type accumulator struct {
    maximizing bool
    best       value
    alpha      int
    beta       int
}

func newAccumulator(maximizing bool, alpha, beta int) accumulator {
    worst := Infinity
    if maximizing {
        worst = -Infinity
    }
    return accumulator{
        maximizing: maximizing,
        best:       value{score: worst, move: NoMove},
        alpha:      alpha,
        beta:       beta,
    }
}

// fold takes the child reached by move into account. Ties keep the earlier
// move.
func (a accumulator) fold(move int, child value) accumulator {
    if a.maximizing {
        if child.score > a.best.score {
            a.best = value{score: child.score, outcome: child.outcome, move: move}
        }
        if a.best.score > a.alpha {
            a.alpha = a.best.score
        }
    } else {
        if child.score < a.best.score {
            a.best = value{score: child.score, outcome: child.outcome, move: move}
        }
        if a.best.score < a.beta {
            a.beta = a.best.score
        }
    }
    return a
}

func (a accumulator) cutoff() bool { return a.beta <= a.alpha }

func (a accumulator) final() value { return a.best }
