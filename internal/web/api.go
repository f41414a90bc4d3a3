package web

import (
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"
    "strconv"
    "time"

    "github.com/go-chi/chi/v5"

    "github.com/jaminalder/tic-tac-toe-solver/internal/app"
    "github.com/jaminalder/tic-tac-toe-solver/internal/config"
    "github.com/jaminalder/tic-tac-toe-solver/internal/domain"
    "github.com/jaminalder/tic-tac-toe-solver/internal/render"
    "github.com/jaminalder/tic-tac-toe-solver/internal/search"
)

var errBadJSON = errors.New("bad json")

func (h *handlers) state(w http.ResponseWriter, r *http.Request) {
    gs, ok := h.svc.Get(chi.URLParam(r, "id"))
    if !ok {
        writeError(w, http.StatusNotFound, app.ErrNotFound)
        return
    }
    writeJSON(w, http.StatusOK, stateDTO(*gs))
}

// treeDepth reads ?depth, falling back to the configured cap.
func (h *handlers) treeDepth(r *http.Request) (int, error) {
    v := r.URL.Query().Get("depth")
    if v == "" {
        return h.svc.Config().Get().TreeMaxDepth, nil
    }
    n, err := strconv.Atoi(v)
    if err != nil || n < -1 {
        return 0, fmt.Errorf("invalid depth %q", v)
    }
    return n, nil
}

func (h *handlers) decisionTree(w http.ResponseWriter, r *http.Request) (*search.Node, int, bool) {
    depth, err := h.treeDepth(r)
    if err != nil {
        writeError(w, http.StatusBadRequest, err)
        return nil, 0, false
    }
    d, err := h.svc.Decision(chi.URLParam(r, "id"))
    if err != nil {
        writeError(w, http.StatusNotFound, err)
        return nil, 0, false
    }
    if d.Tree == nil {
        writeError(w, http.StatusNotFound, errors.New("decision tree not recorded"))
        return nil, 0, false
    }
    return d.Tree, depth, true
}

func (h *handlers) tree(w http.ResponseWriter, r *http.Request) {
    n, depth, ok := h.decisionTree(w, r)
    if !ok {
        return
    }
    writeJSON(w, http.StatusOK, n.Truncate(depth))
}

func (h *handlers) treeText(w http.ResponseWriter, r *http.Request) {
    n, depth, ok := h.decisionTree(w, r)
    if !ok {
        return
    }
    w.Header().Set("Content-Type", "text/plain; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    plain := render.NewPlain()
    _, _ = w.Write([]byte(plain.Summary(n) + plain.Tree(n, depth)))
}

func (h *handlers) analysis(w http.ResponseWriter, r *http.Request) {
    moves, gs, err := h.svc.Analyze(r.Context(), chi.URLParam(r, "id"))
    switch {
    case errors.Is(err, app.ErrNotFound):
        writeError(w, http.StatusNotFound, err)
        return
    case err != nil:
        h.log.Warn().Err(err).Msg("analysis failed")
        writeError(w, http.StatusInternalServerError, err)
        return
    }
    resp := AnalysisResponse{ID: gs.ID, Board: gs.Game.Board.String(), Turn: gs.Game.Turn.String(), Moves: moves}
    if best, ok := search.Best(moves, gs.Game.Turn == domain.O); ok {
        resp.Best = &best
    }
    writeJSON(w, http.StatusOK, resp)
}

// searchDepth resolves the requested depth. An explicit depth wins over a
// difficulty name; neither means the configured default difficulty.
func (h *handlers) searchDepth(req SearchRequest) (int, error) {
    cfg := h.svc.Config().Get()
    if req.Depth != nil {
        if *req.Depth < 0 || *req.Depth > config.MaxDepth {
            return 0, fmt.Errorf("%w: %d", search.ErrInvalidDepth, *req.Depth)
        }
        return *req.Depth, nil
    }
    if req.Difficulty != "" {
        d, err := config.ParseDifficulty(req.Difficulty)
        if err != nil {
            return 0, err
        }
        return cfg.Depth(d), nil
    }
    return cfg.Depth(cfg.DefaultDifficulty), nil
}

func (h *handlers) solve(w http.ResponseWriter, r *http.Request) {
    var req SearchRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        writeError(w, http.StatusBadRequest, errBadJSON)
        return
    }
    b, err := domain.ParseBoard(req.Board)
    if err != nil {
        writeError(w, http.StatusBadRequest, err)
        return
    }
    depth, err := h.searchDepth(req)
    if err != nil {
        writeError(w, http.StatusBadRequest, err)
        return
    }
    maximizing := b.ToMove() == domain.O
    if req.Maximizing != nil {
        maximizing = *req.Maximizing
    }
    opts := search.Options{DisablePruning: req.DisablePruning}

    start := time.Now()
    var (
        res  search.Result
        tree *search.Node
    )
    if req.Tree {
        res, tree, err = search.SearchTree(b, depth, maximizing, opts)
    } else {
        res, err = search.SearchWindow(b, depth, maximizing, -search.Infinity, search.Infinity, opts)
    }
    if err != nil {
        writeError(w, http.StatusBadRequest, err)
        return
    }
    resp := SearchResponse{
        Score:      res.Score,
        Outcome:    res.Outcome,
        Move:       res.Move,
        Depth:      depth,
        Maximizing: maximizing,
        Stats:      res.Stats,
        Took:       time.Since(start),
    }
    side := domain.X
    if maximizing {
        side = domain.O
    }
    if !domain.Evaluate(b).Status.Terminal() {
        if m, ok := b.WinningMove(side); ok {
            resp.ImmediateWin = &m
        }
    }
    if tree != nil {
        resp.Tree = tree.Truncate(h.svc.Config().Get().TreeMaxDepth)
    }
    h.log.Debug().
        Str("board", b.String()).
        Int("depth", depth).
        Int("score", res.Score).
        Int("move", res.Move).
        Int("nodes", res.Stats.Nodes).
        Msg("search")
    writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) getConfig(w http.ResponseWriter, r *http.Request) {
    writeJSON(w, http.StatusOK, h.svc.Config().Get())
}

// putConfig merges the body into the live config. Addr and logging settings
// only take effect on restart.
func (h *handlers) putConfig(w http.ResponseWriter, r *http.Request) {
    raw, err := io.ReadAll(r.Body)
    if err != nil {
        writeError(w, http.StatusBadRequest, err)
        return
    }
    cfg, err := h.svc.Config().Modify(func(c *config.Config) error {
        if err := json.Unmarshal(raw, c); err != nil {
            return errBadJSON
        }
        return nil
    })
    if err != nil {
        writeError(w, http.StatusBadRequest, err)
        return
    }
    h.log.Info().
        Int("easy", cfg.Depths.Easy).
        Int("medium", cfg.Depths.Medium).
        Int("hard", cfg.Depths.Hard).
        Int("bot_delay_ms", cfg.BotDelayMs).
        Str("log_level", cfg.LogLevel).
        Msg("config-updated")
    writeJSON(w, http.StatusOK, cfg)
}

func healthz(w http.ResponseWriter, r *http.Request) {
    writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
