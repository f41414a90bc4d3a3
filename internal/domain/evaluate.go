package domain

// Status classifies a board position.
type Status uint8

const (
    InProgress Status = iota
    XWins
    OWins
    Tie
)

func (s Status) String() string {
    switch s {
    case XWins:
        return "x-wins"
    case OWins:
        return "o-wins"
    case Tie:
        return "tie"
    default:
        return "in-progress"
    }
}

// Terminal reports whether the game is decided.
func (s Status) Terminal() bool { return s != InProgress }

// Lines enumerates the eight winning lines: rows, then columns, then diagonals.
var Lines = [8][3]int{
    // rows
    {0, 1, 2}, {3, 4, 5}, {6, 7, 8},
    // cols
    {0, 3, 6}, {1, 4, 7}, {2, 5, 8},
    // diags
    {0, 4, 8}, {2, 4, 6},
}

// Evaluation is the verdict on a single board.
type Evaluation struct {
    Status  Status
    Line    [3]int
    HasLine bool
}

// Winner returns the side owning the winning line, or Empty.
func (e Evaluation) Winner() Cell {
    switch e.Status {
    case XWins:
        return X
    case OWins:
        return O
    default:
        return Empty
    }
}

// Evaluate classifies b. X lines are checked before O lines, so a board with
// a line for each side (unreachable in legal play) reports X.
func Evaluate(b Board) Evaluation {
    for _, side := range [2]Cell{X, O} {
        if ln, ok := findLine(b, side); ok {
            st := XWins
            if side == O {
                st = OWins
            }
            return Evaluation{Status: st, Line: ln, HasLine: true}
        }
    }
    if b.Full() {
        return Evaluation{Status: Tie}
    }
    return Evaluation{Status: InProgress}
}

func findLine(b Board, side Cell) ([3]int, bool) {
    for _, ln := range Lines {
        if b[ln[0]] == side && b[ln[1]] == side && b[ln[2]] == side {
            return ln, true
        }
    }
    return [3]int{}, false
}

// WinningMove returns the lowest empty cell that completes a line for side.
func (b Board) WinningMove(side Cell) (int, bool) {
    for i := range b {
        if b[i] != Empty {
            continue
        }
        if Evaluate(b.Place(i, side)).Winner() == side {
            return i, true
        }
    }
    return -1, false
}
