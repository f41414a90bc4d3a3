package logging

import (
    "bytes"
    "encoding/json"
    "strings"
    "testing"
)

func TestJSONLogger(t *testing.T) {
    var buf bytes.Buffer
    log, err := New(&buf, "debug", "json")
    if err != nil {
        t.Fatalf("New: %v", err)
    }
    log.Info().Int("move", 4).Msg("bot-move")
    var entry map[string]any
    if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
        t.Fatalf("expected a JSON line, got %q: %v", buf.String(), err)
    }
    if entry["message"] != "bot-move" || entry["move"] != float64(4) || entry["level"] != "info" {
        t.Fatalf("unexpected entry %v", entry)
    }
}

func TestLevelFilters(t *testing.T) {
    var buf bytes.Buffer
    log, err := New(&buf, "warn", "json")
    if err != nil {
        t.Fatalf("New: %v", err)
    }
    log.Info().Msg("hidden")
    log.Warn().Msg("shown")
    out := buf.String()
    if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
        t.Fatalf("unexpected output %q", out)
    }
}

func TestConsoleLogger(t *testing.T) {
    var buf bytes.Buffer
    log, err := New(&buf, "", "console")
    if err != nil {
        t.Fatalf("New: %v", err)
    }
    log.Info().Str("game", "abc").Msg("created")
    if !strings.Contains(buf.String(), "created") || !strings.Contains(buf.String(), "game=") {
        t.Fatalf("unexpected console output %q", buf.String())
    }
}

func TestRejectsBadSettings(t *testing.T) {
    if _, err := New(&bytes.Buffer{}, "loud", "json"); err == nil {
        t.Fatalf("expected error for unknown level")
    }
    if _, err := New(&bytes.Buffer{}, "info", "xml"); err == nil {
        t.Fatalf("expected error for unknown format")
    }
}
