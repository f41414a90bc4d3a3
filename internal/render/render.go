// Package render draws boards and decision trees as text.
package render

import (
    "fmt"
    "io"
    "strconv"
    "strings"

    "github.com/muesli/termenv"

    "github.com/jaminalder/tic-tac-toe-solver/internal/domain"
    "github.com/jaminalder/tic-tac-toe-solver/internal/search"
)

// Renderer styles output for the colour profile of its writer.
type Renderer struct {
    out   *termenv.Output
    plain bool
}

// New detects the colour support of w.
func New(w io.Writer) *Renderer {
    out := termenv.NewOutput(w)
    return &Renderer{out: out, plain: out.Profile == termenv.Ascii}
}

// NewPlain renders without escape sequences.
func NewPlain() *Renderer {
    return &Renderer{out: termenv.NewOutput(io.Discard, termenv.WithProfile(termenv.Ascii)), plain: true}
}

func (r *Renderer) style(s, color string, bold bool) string {
    if r.plain {
        return s
    }
    st := r.out.String(s)
    if color != "" {
        st = st.Foreground(r.out.Color(color))
    }
    if bold {
        st = st.Bold()
    }
    return st.String()
}

func (r *Renderer) cell(b domain.Board, i int, hl bool) string {
    switch b[i] {
    case domain.X:
        return r.style("X", "9", hl)
    case domain.O:
        return r.style("O", "12", hl)
    default:
        if r.plain {
            return strconv.Itoa(i)
        }
        return r.out.String(strconv.Itoa(i)).Faint().String()
    }
}

// Board draws b as a 3x3 grid. Empty cells show their index; cells listed in
// highlight are emphasised.
func (r *Renderer) Board(b domain.Board, highlight []int) string {
    hl := map[int]bool{}
    for _, i := range highlight {
        hl[i] = true
    }
    var sb strings.Builder
    for row := 0; row < 3; row++ {
        if row > 0 {
            sb.WriteString("---+---+---\n")
        }
        for col := 0; col < 3; col++ {
            i := row*3 + col
            if col > 0 {
                sb.WriteString("|")
            }
            sb.WriteString(" " + r.cell(b, i, hl[i]) + " ")
        }
        sb.WriteString("\n")
    }
    return sb.String()
}

// Tree draws n as an indented outline, at most maxDepth levels below n. A
// negative maxDepth draws everything. The child on the best line is starred.
func (r *Renderer) Tree(n *search.Node, maxDepth int) string {
    if n == nil {
        return ""
    }
    var sb strings.Builder
    sb.WriteString(r.label(n, false) + "\n")
    r.children(&sb, n, "", maxDepth)
    return sb.String()
}

// Summary describes the shape of n in one line.
func (r *Renderer) Summary(n *search.Node) string {
    if n == nil {
        return ""
    }
    return fmt.Sprintf("nodes=%d leaves=%d height=%d\n", n.Size(), n.Leaves(), n.Height())
}

func (r *Renderer) children(sb *strings.Builder, n *search.Node, prefix string, depth int) {
    if len(n.Children) == 0 {
        return
    }
    if depth == 0 {
        fmt.Fprintf(sb, "%s└─ … %d more nodes\n", prefix, n.Size()-1)
        return
    }
    for i, c := range n.Children {
        branch, next := "├─ ", "│  "
        if i == len(n.Children)-1 {
            branch, next = "└─ ", "   "
        }
        sb.WriteString(prefix + branch + r.label(c, c.Move == n.Best) + "\n")
        r.children(sb, c, prefix+next, depth-1)
    }
}

func (r *Renderer) label(n *search.Node, best bool) string {
    var sb strings.Builder
    if n.Move == search.NoMove {
        sb.WriteString("root")
    } else {
        fmt.Fprintf(&sb, "%s@%d", n.Board[n.Move], n.Move)
    }
    fmt.Fprintf(&sb, " score=%d %s", n.Score, r.outcome(n.Outcome))
    if n.Best != search.NoMove {
        fmt.Fprintf(&sb, " best=%d", n.Best)
    }
    if best {
        sb.WriteString(" " + r.style("*", "11", true))
    }
    return sb.String()
}

func (r *Renderer) outcome(o search.Outcome) string {
    switch o {
    case search.WinX:
        return r.style(o.String(), "9", false)
    case search.WinO:
        return r.style(o.String(), "12", false)
    case search.Tie:
        return r.style(o.String(), "10", false)
    default:
        return r.style(o.String(), "8", false)
    }
}
