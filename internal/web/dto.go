package web

import (
    "encoding/json"
    "net/http"
    "time"

    "github.com/jaminalder/tic-tac-toe-solver/internal/app"
    "github.com/jaminalder/tic-tac-toe-solver/internal/search"
)

// StateResponse is the JSON view of a game.
type StateResponse struct {
    ID         string        `json:"id"`
    Board      string        `json:"board"`
    Turn       string        `json:"turn"`
    Status     string        `json:"status"`
    Winner     string        `json:"winner,omitempty"`
    Line       []int         `json:"line,omitempty"`
    Moves      int           `json:"moves"`
    Mode       app.Mode      `json:"mode"`
    Difficulty string        `json:"difficulty"`
    BotSide    string        `json:"bot_side"`
    Decision   *app.Decision `json:"decision,omitempty"`
    UpdatedAt  int64         `json:"updated_at_ms"`
}

func stateDTO(gs app.GameState) StateResponse {
    g := gs.Game
    resp := StateResponse{
        ID:         gs.ID,
        Board:      g.Board.String(),
        Turn:       g.Turn.String(),
        Status:     g.Status().String(),
        Line:       g.Line,
        Moves:      g.Moves,
        Mode:       gs.Mode,
        Difficulty: gs.Difficulty.String(),
        BotSide:    gs.BotSide.String(),
        Decision:   gs.Decision,
        UpdatedAt:  gs.Updated.UnixMilli(),
    }
    if g.Over {
        resp.Winner = g.Winner.String()
    }
    return resp
}

// SearchRequest asks for a one-off solve of a position.
type SearchRequest struct {
    Board      string `json:"board"`
    Depth      *int   `json:"depth,omitempty"`
    Difficulty string `json:"difficulty,omitempty"`
    // Maximizing defaults to the side to move being O.
    Maximizing *bool `json:"maximizing,omitempty"`
    // Tree includes the decision tree, capped at the configured depth.
    Tree bool `json:"tree,omitempty"`
    // DisablePruning runs plain minimax.
    DisablePruning bool `json:"disable_pruning,omitempty"`
}

type SearchResponse struct {
    Score      int            `json:"score"`
    Outcome    search.Outcome `json:"outcome"`
    Move       int            `json:"move"`
    Depth      int            `json:"depth"`
    Maximizing bool           `json:"maximizing"`
    Stats      search.Stats   `json:"stats"`
    Took       time.Duration  `json:"took_ns"`
    // ImmediateWin is the first cell that wins at once for the searching side.
    ImmediateWin *int         `json:"immediate_win,omitempty"`
    Tree         *search.Node `json:"tree,omitempty"`
}

type AnalysisResponse struct {
    ID    string             `json:"id"`
    Board string             `json:"board"`
    Turn  string             `json:"turn"`
    Moves []search.MoveScore `json:"moves"`
    Best  *search.MoveScore  `json:"best,omitempty"`
}

type errorResponse struct {
    Error string `json:"error"`
}

type wsMessage struct {
    Type    string          `json:"type"`
    Payload json.RawMessage `json:"payload,omitempty"`
}

func mustMarshal(v any) json.RawMessage {
    data, _ := json.Marshal(v)
    return data
}

func writeJSON(w http.ResponseWriter, status int, data any) {
    w.Header().Set("Content-Type", "application/json; charset=utf-8")
    w.WriteHeader(status)
    _ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
    writeJSON(w, status, errorResponse{Error: err.Error()})
}
