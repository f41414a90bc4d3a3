package app

import (
    "context"
    "errors"
    "fmt"
    "sync"
    "time"

    "github.com/rs/zerolog"

    "github.com/jaminalder/tic-tac-toe-solver/internal/config"
    "github.com/jaminalder/tic-tac-toe-solver/internal/domain"
    "github.com/jaminalder/tic-tac-toe-solver/internal/search"
)

// Errors exposed by the service layer.
var (
    ErrNotFound    = errors.New("game not found")
    ErrNotYourTurn = errors.New("not your turn")
    ErrNotAPlayer  = errors.New("not a player")
    ErrBadOptions  = errors.New("invalid game options")
    ErrNoDecision  = errors.New("no bot decision yet")
)

// GameOptions configure a new game.
type GameOptions struct {
    Mode       Mode
    Difficulty config.Difficulty
    // BotSide is the engine's mark in bot games; Empty means O.
    BotSide domain.Cell
    // Start resumes from a position instead of the empty board.
    Start *domain.Board
}

// GameState is the in-memory state tracked per game.
type GameState struct {
    ID         string
    Game       domain.Game
    X          string
    O          string
    Mode       Mode
    Difficulty config.Difficulty
    BotSide    domain.Cell
    Created    time.Time
    Updated    time.Time
    // Decision is the bot's most recent move decision.
    Decision *Decision

    start domain.Game
}

// BotTurn reports whether the engine is due to move.
func (gs GameState) BotTurn() bool {
    return gs.Mode == ModeBot && !gs.Game.Over && gs.Game.Turn == gs.BotSide
}

type subscriber struct {
    ch        chan []byte
    closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service manages games and subscribers.
type Service struct {
    mu       sync.Mutex
    games    map[string]*GameState
    subs     map[string]map[*subscriber]struct{}
    render   func(GameState) []byte
    cfg      *config.Store
    log      zerolog.Logger
    schedule func(time.Duration, func())
    closed   bool
}

// Option customises a Service.
type Option func(*Service)

func WithRenderer(renderer func(GameState) []byte) Option {
    return func(s *Service) {
        if renderer != nil {
            s.render = renderer
        }
    }
}

func WithLogger(log zerolog.Logger) Option { return func(s *Service) { s.log = log } }

func WithConfig(store *config.Store) Option {
    return func(s *Service) {
        if store != nil {
            s.cfg = store
        }
    }
}

// WithScheduler replaces how delayed bot moves are run.
func WithScheduler(schedule func(time.Duration, func())) Option {
    return func(s *Service) {
        if schedule != nil {
            s.schedule = schedule
        }
    }
}

func afterDelay(d time.Duration, f func()) {
    if d <= 0 {
        f()
        return
    }
    time.AfterFunc(d, f)
}

// NewService creates a service. Without options it renders nothing, logs
// nothing and uses the default configuration.
func NewService(opts ...Option) *Service {
    s := &Service{
        games:    make(map[string]*GameState),
        subs:     make(map[string]map[*subscriber]struct{}),
        render:   func(gs GameState) []byte { return nil },
        cfg:      config.NewStore(config.Default()),
        log:      zerolog.Nop(),
        schedule: afterDelay,
    }
    for _, opt := range opts {
        opt(s)
    }
    return s
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if renderer == nil {
        s.render = func(gs GameState) []byte { return nil }
        return
    }
    s.render = renderer
}

// Config returns the live configuration store.
func (s *Service) Config() *config.Store { return s.cfg }

// Close stops pending bot moves from being applied.
func (s *Service) Close() {
    s.mu.Lock()
    s.closed = true
    s.mu.Unlock()
}

// CreateGame creates and registers a new game. In bot games where the engine
// moves first, its move is scheduled right away.
func (s *Service) CreateGame(opts GameOptions) (*GameState, error) {
    g := domain.New()
    if opts.Start != nil {
        var err error
        if g, err = domain.FromBoard(*opts.Start); err != nil {
            return nil, fmt.Errorf("%w: %v", ErrBadOptions, err)
        }
    }
    if opts.Mode > ModeBot {
        return nil, fmt.Errorf("%w: mode %d", ErrBadOptions, opts.Mode)
    }
    if opts.Difficulty > config.Hard {
        return nil, fmt.Errorf("%w: difficulty %d", ErrBadOptions, opts.Difficulty)
    }
    side := opts.BotSide
    if side == domain.Empty {
        side = domain.O
    }
    if side != domain.X && side != domain.O {
        return nil, fmt.Errorf("%w: bot side %d", ErrBadOptions, side)
    }

    s.mu.Lock()
    id := newGameID()
    now := time.Now()
    gs := &GameState{
        ID:         id,
        Game:       g,
        Mode:       opts.Mode,
        Difficulty: opts.Difficulty,
        BotSide:    side,
        Created:    now,
        Updated:    now,
        start:      g,
    }
    if opts.Mode == ModeBot {
        if side == domain.X {
            gs.X = BotPlayer
        } else {
            gs.O = BotPlayer
        }
    }
    s.games[id] = gs
    cp := *gs
    s.mu.Unlock()

    s.log.Debug().Str("game", id).Stringer("mode", opts.Mode).Stringer("difficulty", opts.Difficulty).Msg("game-created")
    if cp.BotTurn() {
        s.scheduleBot(id, cp.Game.Moves)
        if latest, ok := s.Get(id); ok {
            return latest, nil
        }
    }
    return &cp, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
    s.mu.Lock()
    defer s.mu.Unlock()
    gs, ok := s.games[id]
    if !ok {
        return nil, false
    }
    cp := *gs
    return &cp, true
}

// Join assigns a seat to the player if available; returns Empty for spectators.
// The first player to join a study board owns both seats and gets X.
func (s *Service) Join(id, playerID string) (domain.Cell, *GameState, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    gs, ok := s.games[id]
    if !ok {
        return domain.Empty, nil, ErrNotFound
    }
    side := domain.Empty
    if gs.Mode == ModeStudy {
        if gs.X == "" || gs.X == playerID {
            gs.X, gs.O = playerID, playerID
            side = domain.X
        }
    } else if gs.X == "" || gs.X == playerID {
        gs.X = playerID
        side = domain.X
    } else if gs.O == "" || gs.O == playerID {
        gs.O = playerID
        side = domain.O
    }
    gs.Updated = time.Now()
    cp := *gs
    return side, &cp, nil
}

// Play validates seat and turn, applies a move, updates timestamps, and
// broadcasts. In bot games the engine's reply is scheduled after the
// configured delay; with no delay it is applied before Play returns.
func (s *Service) Play(id, playerID string, r, c int) (*GameState, error) {
    s.mu.Lock()
    gs, ok := s.games[id]
    if !ok {
        s.mu.Unlock()
        return nil, ErrNotFound
    }
    // Validate player is seated
    var seat domain.Cell
    if playerID == BotPlayer {
        seat = domain.Empty
    } else if gs.Mode == ModeStudy && gs.X == playerID {
        seat = gs.Game.Turn
    } else if gs.X == playerID {
        seat = domain.X
    } else if gs.O == playerID {
        seat = domain.O
    }
    if seat == domain.Empty {
        s.mu.Unlock()
        return nil, ErrNotAPlayer
    }
    // Validate turn
    if seat != gs.Game.Turn {
        s.mu.Unlock()
        return nil, ErrNotYourTurn
    }
    if err := gs.Game.Play(r, c); err != nil {
        s.mu.Unlock()
        return nil, err
    }
    gs.Updated = time.Now()
    cp := *gs
    s.publishLocked(id, cp)

    if cp.BotTurn() {
        s.scheduleBot(id, cp.Game.Moves)
        if latest, ok := s.Get(id); ok {
            return latest, nil
        }
    }
    return &cp, nil
}

// Reset restarts the game from its starting position, keeping seats.
func (s *Service) Reset(id string) (*GameState, error) {
    s.mu.Lock()
    gs, ok := s.games[id]
    if !ok {
        s.mu.Unlock()
        return nil, ErrNotFound
    }
    gs.Game = gs.start
    gs.Decision = nil
    gs.Updated = time.Now()
    cp := *gs
    s.publishLocked(id, cp)

    s.log.Debug().Str("game", id).Msg("game-reset")
    if cp.BotTurn() {
        s.scheduleBot(id, cp.Game.Moves)
        if latest, ok := s.Get(id); ok {
            return latest, nil
        }
    }
    return &cp, nil
}

// Decision returns the bot's last decision for a game.
func (s *Service) Decision(id string) (*Decision, error) {
    gs, ok := s.Get(id)
    if !ok {
        return nil, ErrNotFound
    }
    if gs.Decision == nil {
        return nil, ErrNoDecision
    }
    return gs.Decision, nil
}

// Analyze scores every legal move for the side to move with a full-depth
// search.
func (s *Service) Analyze(ctx context.Context, id string) ([]search.MoveScore, *GameState, error) {
    gs, ok := s.Get(id)
    if !ok {
        return nil, nil, ErrNotFound
    }
    if gs.Game.Over {
        return []search.MoveScore{}, gs, nil
    }
    moves, err := search.Analyze(ctx, gs.Game.Board, config.MaxDepth, gs.Game.Turn == domain.O)
    if err != nil {
        return nil, gs, err
    }
    return moves, gs, nil
}

func (s *Service) scheduleBot(id string, moves int) {
    s.schedule(s.cfg.Get().BotDelay(), func() { s.botMove(id, moves) })
}

// botMove plays the engine's move if the game is still where it was when
// the move was scheduled.
func (s *Service) botMove(id string, moves int) {
    s.mu.Lock()
    gs, ok := s.games[id]
    if !ok || s.closed || gs.Game.Moves != moves || !gs.BotTurn() {
        s.mu.Unlock()
        return
    }
    board, side, difficulty := gs.Game.Board, gs.BotSide, gs.Difficulty
    s.mu.Unlock()

    cfg := s.cfg.Get()
    depth := cfg.Depth(difficulty)
    d, err := decide(board, side, depth, cfg.RecordTrees)
    if err != nil {
        s.log.Error().Err(err).Str("game", id).Msg("bot-move-failed")
        return
    }
    d.Difficulty = difficulty

    s.mu.Lock()
    gs, ok = s.games[id]
    if !ok || s.closed || gs.Game.Moves != moves || gs.Game.Board != board {
        s.mu.Unlock()
        return
    }
    if err := gs.Game.PlayIndex(d.Move); err != nil {
        s.mu.Unlock()
        s.log.Error().Err(err).Str("game", id).Int("move", d.Move).Msg("bot-move-rejected")
        return
    }
    gs.Decision = &d
    gs.Updated = time.Now()
    cp := *gs
    s.publishLocked(id, cp)

    s.log.Info().
        Str("game", id).
        Int("move", d.Move).
        Int("score", d.Score).
        Stringer("outcome", d.Outcome).
        Int("depth", depth).
        Int("nodes", d.Stats.Nodes).
        Int("cutoffs", d.Stats.Cutoffs).
        Bool("immediate", d.Immediate).
        Bool("fallback", d.Fallback).
        Dur("took", d.Took).
        Msg("bot-move")
}

// publishLocked renders cp, releases s.mu and fans the payload out.
func (s *Service) publishLocked(id string, cp GameState) {
    subs := s.copySubsLocked(id)
    payload := s.render(cp)
    s.mu.Unlock()

    var toDrop []*subscriber
    // Fan-out; drop slow subscribers by closing and marking for deletion
    for sub := range subs {
        select {
        case sub.ch <- payload:
        default:
            sub.close()
            toDrop = append(toDrop, sub)
        }
    }
    if len(toDrop) > 0 {
        s.mu.Lock()
        for _, sub := range toDrop {
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
            }
        }
        s.mu.Unlock()
        s.log.Debug().Str("game", id).Int("dropped", len(toDrop)).Msg("slow-subscribers-dropped")
    }
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
// For unknown games the channel is already closed.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func()) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.games[id]; !ok {
        ch := make(chan []byte)
        close(ch)
        return ch, func() {}
    }
    set := s.subs[id]
    if set == nil {
        set = make(map[*subscriber]struct{})
        s.subs[id] = set
    }
    sub := &subscriber{ch: make(chan []byte, 1)}
    set[sub] = struct{}{}

    unsubOnce := &sync.Once{}
    unsub := func() {
        unsubOnce.Do(func() {
            s.mu.Lock()
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
            }
            s.mu.Unlock()
            sub.close()
        })
    }
    go func() {
        <-ctx.Done()
        unsub()
    }()
    return sub.ch, unsub
}

func (s *Service) copySubsLocked(id string) map[*subscriber]struct{} {
    out := make(map[*subscriber]struct{})
    if set, ok := s.subs[id]; ok {
        for k := range set {
            out[k] = struct{}{}
        }
    }
    return out
}
