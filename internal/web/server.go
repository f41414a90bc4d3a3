package web

import (
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "github.com/rs/zerolog"

    "github.com/jaminalder/tic-tac-toe-solver/internal/app"
)

// ServerOption customises NewServer.
type ServerOption func(*handlers)

func WithLogger(log zerolog.Logger) ServerOption { return func(h *handlers) { h.log = log } }

// NewServer wires routes and returns an http.Handler. It installs the board
// fragment renderer on s so SSE subscribers receive HTML.
func NewServer(s *app.Service, opts ...ServerOption) http.Handler {
    h := &handlers{svc: s, tpl: loadTemplates(), log: zerolog.Nop()}
    for _, opt := range opts {
        opt(h)
    }
    s.SetRenderer(func(gs app.GameState) []byte { return h.renderBoard(gs, "") })

    r := chi.NewRouter()
    r.Use(middleware.RequestID)
    r.Use(middleware.RealIP)
    r.Use(accessLog(h.log))
    r.Use(middleware.Recoverer)

    r.Get("/", h.index)
    r.Get("/healthz", healthz)
    r.Post("/game", h.create)
    r.Route("/game/{id}", func(r chi.Router) {
        r.Get("/", h.view)
        r.Post("/join", h.join)
        r.Post("/play", h.play)
        r.Post("/reset", h.reset)
        r.Get("/events", h.events)
        r.Get("/ws", h.stream)
        r.Get("/state", h.state)
        r.Get("/tree", h.tree)
        r.Get("/tree.txt", h.treeText)
        r.Get("/analysis", h.analysis)
    })
    r.Route("/api", func(r chi.Router) {
        r.Post("/search", h.solve)
        r.Get("/config", h.getConfig)
        r.Put("/config", h.putConfig)
    })
    return r
}

func accessLog(log zerolog.Logger) func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
            start := time.Now()
            defer func() {
                log.Info().
                    Str("req", middleware.GetReqID(r.Context())).
                    Str("method", r.Method).
                    Str("path", r.URL.Path).
                    Int("status", ww.Status()).
                    Int("bytes", ww.BytesWritten()).
                    Dur("took", time.Since(start)).
                    Msg("http")
            }()
            next.ServeHTTP(ww, r)
        })
    }
}
