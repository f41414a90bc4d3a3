// Package logging builds the zerolog loggers used by the server and CLI.
package logging

import (
    "fmt"
    "io"
    "time"

    "github.com/rs/zerolog"
)

// New returns a logger writing to w. format is "console" or "json".
func New(w io.Writer, level, format string) (zerolog.Logger, error) {
    lvl, err := zerolog.ParseLevel(level)
    if err != nil {
        return zerolog.Nop(), fmt.Errorf("log level: %w", err)
    }
    if lvl == zerolog.NoLevel {
        lvl = zerolog.InfoLevel
    }
    switch format {
    case "json":
    case "console":
        w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
    default:
        return zerolog.Nop(), fmt.Errorf("unknown log format %q", format)
    }
    return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}
