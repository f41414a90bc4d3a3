// Package config holds the service settings, including the mapping from
// difficulty levels to search depth.
package config

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "strconv"
    "strings"
    "sync"
    "time"

    "github.com/rs/zerolog"
)

// MaxDepth is the deepest useful search on a 3x3 board.
const MaxDepth = 9

var ErrInvalidConfig = errors.New("invalid config")

// Difficulty is a named search strength.
type Difficulty uint8

const (
    Easy Difficulty = iota
    Medium
    Hard
)

func (d Difficulty) String() string {
    switch d {
    case Easy:
        return "easy"
    case Medium:
        return "medium"
    case Hard:
        return "hard"
    default:
        return "difficulty(" + strconv.Itoa(int(d)) + ")"
    }
}

// ParseDifficulty accepts the level names in any case.
func ParseDifficulty(s string) (Difficulty, error) {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "easy":
        return Easy, nil
    case "medium":
        return Medium, nil
    case "hard":
        return Hard, nil
    default:
        return Easy, fmt.Errorf("unknown difficulty %q", s)
    }
}

func (d Difficulty) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Difficulty) UnmarshalText(b []byte) error {
    v, err := ParseDifficulty(string(b))
    if err != nil {
        return err
    }
    *d = v
    return nil
}

// Depths maps each difficulty to a search depth in plies.
type Depths struct {
    Easy   int `json:"easy"`
    Medium int `json:"medium"`
    Hard   int `json:"hard"`
}

// Config is the full service configuration.
type Config struct {
    Addr              string     `json:"addr"`
    BotDelayMs        int        `json:"bot_delay_ms"`
    Depths            Depths     `json:"depths"`
    DefaultDifficulty Difficulty `json:"default_difficulty"`
    LogLevel          string     `json:"log_level"`
    LogFormat         string     `json:"log_format"`
    // RecordTrees keeps the decision tree of every bot move.
    RecordTrees bool `json:"record_trees"`
    // TreeMaxDepth caps the levels served by tree endpoints; -1 serves all.
    TreeMaxDepth int `json:"tree_max_depth"`
}

func Default() Config {
    return Config{
        Addr:              ":8080",
        BotDelayMs:        400,
        Depths:            Depths{Easy: 2, Medium: 4, Hard: MaxDepth},
        DefaultDifficulty: Medium,
        LogLevel:          "info",
        LogFormat:         "console",
        RecordTrees:       true,
        TreeMaxDepth:      3,
    }
}

// Depth returns the search depth configured for d.
func (c Config) Depth(d Difficulty) int {
    switch d {
    case Easy:
        return c.Depths.Easy
    case Medium:
        return c.Depths.Medium
    default:
        return c.Depths.Hard
    }
}

func (c Config) BotDelay() time.Duration {
    return time.Duration(c.BotDelayMs) * time.Millisecond
}

// Validate rejects settings the service cannot run with.
func (c Config) Validate() error {
    for _, d := range []Difficulty{Easy, Medium, Hard} {
        if v := c.Depth(d); v < 0 || v > MaxDepth {
            return fmt.Errorf("%w: %s depth %d outside 0..%d", ErrInvalidConfig, d, v, MaxDepth)
        }
    }
    if c.DefaultDifficulty > Hard {
        return fmt.Errorf("%w: default difficulty %d", ErrInvalidConfig, c.DefaultDifficulty)
    }
    if c.BotDelayMs < 0 {
        return fmt.Errorf("%w: negative bot delay", ErrInvalidConfig)
    }
    if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
        return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
    }
    switch c.LogFormat {
    case "console", "json":
    default:
        return fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.LogFormat)
    }
    if c.TreeMaxDepth < -1 {
        return fmt.Errorf("%w: tree max depth %d", ErrInvalidConfig, c.TreeMaxDepth)
    }
    return nil
}

// Load starts from Default, applies the JSON file at path when path is not
// empty, then environment overrides.
func Load(path string) (Config, error) {
    cfg := Default()
    if path != "" {
        raw, err := os.ReadFile(path)
        if err != nil {
            return cfg, fmt.Errorf("read config: %w", err)
        }
        if err := json.Unmarshal(raw, &cfg); err != nil {
            return cfg, fmt.Errorf("parse config %s: %w", path, err)
        }
    }
    if err := applyEnv(&cfg, os.LookupEnv); err != nil {
        return cfg, err
    }
    return cfg, cfg.Validate()
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
    if v, ok := lookup("TTT_ADDR"); ok {
        cfg.Addr = v
    }
    if v, ok := lookup("TTT_LOG_LEVEL"); ok {
        cfg.LogLevel = v
    }
    if v, ok := lookup("TTT_LOG_FORMAT"); ok {
        cfg.LogFormat = v
    }
    if v, ok := lookup("TTT_DIFFICULTY"); ok {
        d, err := ParseDifficulty(v)
        if err != nil {
            return fmt.Errorf("%w: TTT_DIFFICULTY: %v", ErrInvalidConfig, err)
        }
        cfg.DefaultDifficulty = d
    }
    ints := []struct {
        key string
        dst *int
    }{
        {"TTT_BOT_DELAY_MS", &cfg.BotDelayMs},
        {"TTT_DEPTH_EASY", &cfg.Depths.Easy},
        {"TTT_DEPTH_MEDIUM", &cfg.Depths.Medium},
        {"TTT_DEPTH_HARD", &cfg.Depths.Hard},
        {"TTT_TREE_MAX_DEPTH", &cfg.TreeMaxDepth},
    }
    for _, e := range ints {
        v, ok := lookup(e.key)
        if !ok {
            continue
        }
        n, err := strconv.Atoi(v)
        if err != nil {
            return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, e.key, v)
        }
        *e.dst = n
    }
    return nil
}

// Store guards a Config that can be replaced while the service runs.
type Store struct {
    mu  sync.RWMutex
    cfg Config
}

func NewStore(cfg Config) *Store { return &Store{cfg: cfg} }

func (s *Store) Get() Config {
    s.mu.RLock()
    defer s.mu.RUnlock()
    return s.cfg
}

// Modify applies fn to a copy of the live config and installs the result if
// it validates. The store stays locked while fn runs.
func (s *Store) Modify(fn func(*Config) error) (Config, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    cfg := s.cfg
    if err := fn(&cfg); err != nil {
        return s.cfg, err
    }
    if err := cfg.Validate(); err != nil {
        return s.cfg, err
    }
    s.cfg = cfg
    return cfg, nil
}
