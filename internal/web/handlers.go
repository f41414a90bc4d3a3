package web

import (
    "errors"
    "fmt"
    "html/template"
    "io"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/rs/zerolog"

    "github.com/jaminalder/tic-tac-toe-solver/internal/app"
    "github.com/jaminalder/tic-tac-toe-solver/internal/config"
    "github.com/jaminalder/tic-tac-toe-solver/internal/domain"
)

type handlers struct {
    svc *app.Service
    tpl *templates
    log zerolog.Logger
}

func statusText(gs app.GameState) string {
    g := gs.Game
    switch {
    case g.Over && g.Winner != domain.Empty:
        return g.Winner.String() + " wins"
    case g.Over:
        return "Draw"
    case gs.BotTurn():
        return "Bot is thinking…"
    default:
        return g.Turn.String() + " to move"
    }
}

func (h *handlers) renderBoard(gs app.GameState, errMsg string) []byte {
    data := boardData{ID: gs.ID, Line: gs.Game.Line, Status: statusText(gs), Error: errMsg, Decision: gs.Decision}
    data.Game.Board = gs.Game.Board
    return renderTemplate(h.tpl.board, "", data)
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
    data := indexData{
        Difficulties: []config.Difficulty{config.Easy, config.Medium, config.Hard},
        Default:      h.svc.Config().Get().DefaultDifficulty,
    }
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(renderTemplate(h.tpl.index, "", data))
}

// gameOptions reads the create form. Missing fields fall back to a bot game
// at the configured default difficulty.
func (h *handlers) gameOptions(r *http.Request) (app.GameOptions, error) {
    opts := app.GameOptions{Mode: app.ModeBot, Difficulty: h.svc.Config().Get().DefaultDifficulty}
    if v := r.Form.Get("mode"); v != "" {
        m, err := app.ParseMode(v)
        if err != nil {
            return opts, err
        }
        opts.Mode = m
    }
    if v := r.Form.Get("difficulty"); v != "" {
        d, err := config.ParseDifficulty(v)
        if err != nil {
            return opts, err
        }
        opts.Difficulty = d
    }
    switch strings.ToLower(r.Form.Get("bot_side")) {
    case "", "o":
        opts.BotSide = domain.O
    case "x":
        opts.BotSide = domain.X
    default:
        return opts, fmt.Errorf("unknown bot side %q", r.Form.Get("bot_side"))
    }
    if v := r.Form.Get("board"); v != "" {
        b, err := domain.ParseBoard(v)
        if err != nil {
            return opts, err
        }
        opts.Start = &b
    }
    return opts, nil
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
    _ = r.ParseForm()
    opts, err := h.gameOptions(r)
    if err != nil {
        http.Error(w, err.Error(), http.StatusBadRequest)
        return
    }
    gs, err := h.svc.CreateGame(opts)
    if err != nil {
        if errors.Is(err, app.ErrBadOptions) {
            http.Error(w, err.Error(), http.StatusBadRequest)
            return
        }
        http.Error(w, "failed to create", http.StatusInternalServerError)
        return
    }
    http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    // ensure cookie and auto-claim seat
    pid := ensurePlayerCookie(w, r)
    _, _, _ = h.svc.Join(id, pid)

    gs, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    data := struct {
        Game  struct{ ID string }
        Board template.HTML
    }{}
    data.Game.ID = gs.ID
    data.Board = template.HTML(h.renderBoard(*gs, ""))

    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(renderTemplate(h.tpl.game, "", data))
}

func (h *handlers) join(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    _, gs, err := h.svc.Join(id, pid)
    if err != nil || gs == nil {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    _, _ = w.Write(h.renderBoard(*gs, ""))
}

func playErrorMessage(err error) string {
    switch {
    case errors.Is(err, app.ErrNotYourTurn):
        return "Not your turn"
    case errors.Is(err, app.ErrNotAPlayer):
        return "You are a spectator"
    case errors.Is(err, domain.ErrOccupied):
        return "Cell is occupied"
    case errors.Is(err, domain.ErrOutOfBounds):
        return "Out of bounds"
    case errors.Is(err, domain.ErrGameOver):
        return "Game is over"
    default:
        return "Invalid move"
    }
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    _ = r.ParseForm()
    ri, errR := strconv.Atoi(r.Form.Get("r"))
    ci, errC := strconv.Atoi(r.Form.Get("c"))
    var gs *app.GameState
    var err error
    if errR != nil || errC != nil {
        err = domain.ErrOutOfBounds
    } else {
        gs, err = h.svc.Play(id, pid, ri, ci)
    }
    var errMsg string
    if err != nil {
        if gs == nil {
            if g, ok := h.svc.Get(id); ok { gs = g }
        }
        errMsg = playErrorMessage(err)
    }
    if gs == nil {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    _, _ = w.Write(h.renderBoard(*gs, errMsg))
}

func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    gs, err := h.svc.Reset(id)
    if err != nil {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    _, _ = w.Write(h.renderBoard(*gs, ""))
}

var heartbeatInterval = 15 * time.Second

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    if _, ok := h.svc.Get(id); !ok {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("X-Accel-Buffering", "no")
    // In tests or non-EventSource requests, just acknowledge headers and return
    if r.Header.Get("Accept") != "text/event-stream" {
        w.WriteHeader(http.StatusOK)
        return
    }
    flusher, ok := w.(http.Flusher)
    if !ok {
        w.WriteHeader(http.StatusOK)
        return
    }
    ctx := r.Context()
    ch, _ := h.svc.Subscribe(ctx, id)
    ticker := time.NewTicker(heartbeatInterval)
    defer ticker.Stop()
    flusher.Flush()
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            _, _ = io.WriteString(w, ": ping\n\n")
            flusher.Flush()
        case b, ok := <-ch:
            if !ok { return }
            // SSE data lines cannot contain newlines
            _, _ = fmt.Fprintf(w, "event: board\n")
            for _, line := range strings.Split(string(b), "\n") {
                _, _ = fmt.Fprintf(w, "data: %s\n", line)
            }
            _, _ = io.WriteString(w, "\n")
            flusher.Flush()
        }
    }
}
