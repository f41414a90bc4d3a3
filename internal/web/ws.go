package web

import (
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/gorilla/websocket"
)

var wsIdlePingInterval = 30 * time.Second

// stream pushes the game state as JSON over a websocket after every change.
// Any client message is answered with a fresh state.
func (h *handlers) stream(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    if _, ok := h.svc.Get(id); !ok {
        http.NotFound(w, r)
        return
    }
    upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
    conn, err := upgrader.Upgrade(w, r, nil)
    if err != nil {
        return
    }
    updates, unsub := h.svc.Subscribe(r.Context(), id)

    send := make(chan []byte, 16)
    refresh := make(chan struct{}, 1)
    push := func() {
        gs, ok := h.svc.Get(id)
        if !ok {
            return
        }
        select {
        case send <- mustMarshal(wsMessage{Type: "state", Payload: mustMarshal(stateDTO(*gs))}):
        default:
        }
    }
    push()

    // send is owned by this goroutine and closed once the subscription ends.
    go func() {
        defer close(send)
        for {
            select {
            case _, ok := <-updates:
                if !ok {
                    return
                }
                push()
            case <-refresh:
                push()
            }
        }
    }()

    done := make(chan struct{})
    go func() {
        defer close(done)
        defer conn.Close()
        if err := writeWSWithHeartbeat(conn, send); err != nil {
            h.log.Debug().Err(err).Str("game", id).Msg("ws write")
        }
    }()

    for {
        if _, _, err := conn.ReadMessage(); err != nil {
            unsub()
            <-done
            return
        }
        select {
        case refresh <- struct{}{}:
        default:
        }
    }
}

func writeWSWithHeartbeat(conn *websocket.Conn, send <-chan []byte) error {
    ticker := time.NewTicker(wsIdlePingInterval)
    defer ticker.Stop()
    lastWrite := time.Now()
    pingPayload := mustMarshal(wsMessage{Type: "ping"})

    for {
        select {
        case msg, ok := <-send:
            if !ok {
                return nil
            }
            if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
                return err
            }
            lastWrite = time.Now()
        case <-ticker.C:
            if time.Since(lastWrite) < wsIdlePingInterval {
                continue
            }
            if err := conn.WriteMessage(websocket.TextMessage, pingPayload); err != nil {
                return err
            }
            lastWrite = time.Now()
        }
    }
}
