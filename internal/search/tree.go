package search

import "github.com/jaminalder/tic-tac-toe-solver/internal/domain"

// Node is one position visited by a search. Children hold the moves actually
// explored, in the order they were searched; moves skipped by a cutoff have
// no node.
type Node struct {
    Board    domain.Board `json:"board"`
    Move     int          `json:"move"`
    Ply      int          `json:"ply"`
    Score    int          `json:"score"`
    Outcome  Outcome      `json:"outcome"`
    Best     int          `json:"best"`
    Children []*Node      `json:"children,omitempty"`
}

// SearchTree runs the same search as SearchWindow with the widest window and
// records every visited position. The root node has Move == NoMove.
func SearchTree(b domain.Board, depth int, maximizing bool, opts Options) (Result, *Node, error) {
    if err := validate(b, depth, -Infinity, Infinity); err != nil {
        return Result{}, nil, err
    }
    rec := &recorder{}
    s := &searcher{prune: !opts.DisablePruning, obs: rec}
    v := s.alphaBeta(b, depth, maximizing, -Infinity, Infinity, NoMove, 0)
    return s.result(v), rec.root, nil
}

// recorder builds the tree from enter/exit events.
type recorder struct {
    root  *Node
    stack []*Node
}

func (r *recorder) enter(b domain.Board, move, ply int) {
    n := &Node{Board: b, Move: move, Ply: ply, Best: NoMove}
    if len(r.stack) == 0 {
        r.root = n
    } else {
        parent := r.stack[len(r.stack)-1]
        parent.Children = append(parent.Children, n)
    }
    r.stack = append(r.stack, n)
}

func (r *recorder) exit(v value) {
    n := r.stack[len(r.stack)-1]
    n.Score = v.score
    n.Outcome = v.outcome
    n.Best = v.move
    r.stack = r.stack[:len(r.stack)-1]
}

// Walk calls fn for n and its descendants depth-first, parents first. It
// stops descending into a node's children when fn returns false.
func (n *Node) Walk(fn func(*Node) bool) {
    if n == nil || !fn(n) {
        return
    }
    for _, c := range n.Children {
        c.Walk(fn)
    }
}

// Size counts the nodes in the tree.
func (n *Node) Size() int {
    total := 0
    n.Walk(func(*Node) bool { total++; return true })
    return total
}

// Leaves counts nodes without children.
func (n *Node) Leaves() int {
    total := 0
    n.Walk(func(c *Node) bool {
        if len(c.Children) == 0 {
            total++
        }
        return true
    })
    return total
}

// Height is the longest root-to-leaf path in edges.
func (n *Node) Height() int {
    if n == nil {
        return 0
    }
    h := 0
    for _, c := range n.Children {
        if ch := c.Height() + 1; ch > h {
            h = ch
        }
    }
    return h
}

// Child returns the explored child reached by move.
func (n *Node) Child(move int) (*Node, bool) {
    if n == nil {
        return nil, false
    }
    for _, c := range n.Children {
        if c.Move == move {
            return c, true
        }
    }
    return nil, false
}

// Truncate returns a copy limited to maxDepth levels below n. A negative
// maxDepth copies the whole tree.
func (n *Node) Truncate(maxDepth int) *Node {
    if n == nil {
        return nil
    }
    cp := *n
    cp.Children = nil
    if maxDepth == 0 {
        return &cp
    }
    if len(n.Children) > 0 {
        cp.Children = make([]*Node, len(n.Children))
        for i, c := range n.Children {
            cp.Children[i] = c.Truncate(maxDepth - 1)
        }
    }
    return &cp
}
