package app

import (
    "errors"
    "fmt"
    "strconv"
    "strings"
    "time"

    "github.com/jaminalder/tic-tac-toe-solver/internal/config"
    "github.com/jaminalder/tic-tac-toe-solver/internal/domain"
    "github.com/jaminalder/tic-tac-toe-solver/internal/search"
)

// Mode selects who moves for the side not owned by the first player.
type Mode uint8

const (
    // ModeStudy lets the owner of the board move for both sides.
    ModeStudy Mode = iota
    // ModeBot seats the engine on BotSide.
    ModeBot
)

func (m Mode) String() string {
    switch m {
    case ModeStudy:
        return "study"
    case ModeBot:
        return "bot"
    default:
        return "mode(" + strconv.Itoa(int(m)) + ")"
    }
}

func ParseMode(s string) (Mode, error) {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "bot":
        return ModeBot, nil
    case "study":
        return ModeStudy, nil
    default:
        return ModeStudy, fmt.Errorf("unknown mode %q", s)
    }
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(b []byte) error {
    v, err := ParseMode(string(b))
    if err != nil {
        return err
    }
    *m = v
    return nil
}

var errNoLegalMove = errors.New("no legal move")

// Decision records how the bot chose its last move.
type Decision struct {
    Move       int               `json:"move"`
    Score      int               `json:"score"`
    Outcome    search.Outcome    `json:"outcome"`
    Depth      int               `json:"depth"`
    Difficulty config.Difficulty `json:"difficulty"`
    Stats      search.Stats      `json:"stats"`
    // Immediate is set when a winning move was taken ahead of the searched one.
    Immediate bool `json:"immediate"`
    // Fallback is set when the search returned no move.
    Fallback bool          `json:"fallback"`
    Took     time.Duration `json:"took_ns"`
    At       time.Time     `json:"at"`
    Tree     *search.Node  `json:"-"`
}

// decide picks the move for side on b. A winning move is always taken when
// the depth allows looking one ply ahead, and the recorded tree root is
// pointed at it; when the search yields no move the first empty cell is
// played.
func decide(b domain.Board, side domain.Cell, depth int, record bool) (Decision, error) {
    start := time.Now()
    maximizing := side == domain.O
    var (
        res  search.Result
        tree *search.Node
        err  error
    )
    if record {
        res, tree, err = search.SearchTree(b, depth, maximizing, search.Options{})
    } else {
        res, err = search.Search(b, depth, maximizing)
    }
    if err != nil {
        return Decision{}, err
    }
    d := Decision{
        Move:    res.Move,
        Score:   res.Score,
        Outcome: res.Outcome,
        Depth:   depth,
        Stats:   res.Stats,
        Tree:    tree,
    }
    if depth > 0 {
        if m, ok := b.WinningMove(side); ok && m != d.Move {
            d.Move = m
            d.Immediate = true
            d.Outcome = search.WinX
            if side == domain.O {
                d.Outcome = search.WinO
            }
            d.Score = d.Outcome.Score()
            if c, ok := tree.Child(m); ok {
                tree.Best, tree.Score, tree.Outcome = m, c.Score, c.Outcome
            }
        }
    }
    if d.Move == search.NoMove {
        empty := b.EmptyCells()
        if len(empty) == 0 {
            return Decision{}, errNoLegalMove
        }
        d.Move = empty[0]
        d.Fallback = true
    }
    d.Took = time.Since(start)
    d.At = time.Now()
    return d, nil
}
