package search

import (
    "fmt"

    "github.com/jaminalder/tic-tac-toe-solver/internal/domain"
)

// Outcome names what a search score stands for. Tie and Horizon share the
// numeric score 0 but mean different things: Tie is a drawn terminal board,
// Horizon is a board the depth budget stopped short of.
type Outcome uint8

const (
    Horizon Outcome = iota
    Tie
    WinX
    WinO
)

// Score scale. X minimizes, O maximizes.
const (
    ScoreWinX    = -10
    ScoreNeutral = 0
    ScoreWinO    = 10

    // Infinity bounds every reachable score and seeds the widest window.
    Infinity = 1 << 20
)

// Score converts the outcome to the numeric scale used for ordering.
func (o Outcome) Score() int {
    switch o {
    case WinX:
        return ScoreWinX
    case WinO:
        return ScoreWinO
    default:
        return ScoreNeutral
    }
}

func (o Outcome) String() string {
    switch o {
    case Tie:
        return "tie"
    case WinX:
        return "win-x"
    case WinO:
        return "win-o"
    default:
        return "horizon"
    }
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *Outcome) UnmarshalText(b []byte) error {
    switch string(b) {
    case "horizon":
        *o = Horizon
    case "tie":
        *o = Tie
    case "win-x":
        *o = WinX
    case "win-o":
        *o = WinO
    default:
        return fmt.Errorf("unknown outcome %q", b)
    }
    return nil
}

// outcomeOf maps a terminal evaluation to its outcome.
func outcomeOf(st domain.Status) (Outcome, bool) {
    switch st {
    case domain.XWins:
        return WinX, true
    case domain.OWins:
        return WinO, true
    case domain.Tie:
        return Tie, true
    default:
        return Horizon, false
    }
}
