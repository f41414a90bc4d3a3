// Command tictactoe plays against the engine in the terminal or solves a
// single position.
package main

import (
    "bufio"
    "context"
    "errors"
    "flag"
    "fmt"
    "io"
    "os"
    "strconv"
    "strings"
    "time"

    "github.com/jaminalder/tic-tac-toe-solver/internal/app"
    "github.com/jaminalder/tic-tac-toe-solver/internal/config"
    "github.com/jaminalder/tic-tac-toe-solver/internal/domain"
    "github.com/jaminalder/tic-tac-toe-solver/internal/logging"
    "github.com/jaminalder/tic-tac-toe-solver/internal/render"
    "github.com/jaminalder/tic-tac-toe-solver/internal/search"
)

const human = "human"

var (
    difficultyFlag = flag.String("difficulty", "hard", "easy, medium or hard")
    depthFlag      = flag.Int("depth", -1, "search depth in plies; overrides -difficulty when >= 0")
    treeFlag       = flag.Int("tree", 0, "print this many levels of the decision tree after each bot move")
    botFlag        = flag.String("bot", "o", "side the bot plays (o or x)")
    boardFlag      = flag.String("board", "", "solve this position (e.g. OO.XX....) and exit")
    analyzeFlag    = flag.Bool("analyze", false, "with -board, also score every legal move")
    plainFlag      = flag.Bool("plain", false, "disable colours")
    logFlag        = flag.String("log", "warn", "log level")
)

func main() {
    flag.Parse()
    r := render.New(os.Stdout)
    if *plainFlag {
        r = render.NewPlain()
    }
    var err error
    if *boardFlag != "" {
        err = solve(os.Stdout, r, *boardFlag)
    } else {
        err = play(os.Stdin, os.Stdout, r)
    }
    if err != nil {
        fmt.Fprintln(os.Stderr, "tictactoe:", err)
        os.Exit(1)
    }
}

// settings resolves the flags into a config and the chosen difficulty.
func settings() (config.Config, config.Difficulty, error) {
    cfg := config.Default()
    cfg.BotDelayMs = 0
    cfg.LogLevel = *logFlag
    cfg.RecordTrees = *treeFlag > 0
    d, err := config.ParseDifficulty(*difficultyFlag)
    if err != nil {
        return cfg, d, err
    }
    if *depthFlag >= 0 {
        switch d {
        case config.Easy:
            cfg.Depths.Easy = *depthFlag
        case config.Medium:
            cfg.Depths.Medium = *depthFlag
        default:
            cfg.Depths.Hard = *depthFlag
        }
    }
    return cfg, d, cfg.Validate()
}

func solve(w io.Writer, r *render.Renderer, s string) error {
    cfg, d, err := settings()
    if err != nil {
        return err
    }
    b, err := domain.ParseBoard(s)
    if err != nil {
        return err
    }
    depth := cfg.Depth(d)
    maximizing := b.ToMove() == domain.O
    res, tree, err := search.SearchTree(b, depth, maximizing, search.Options{})
    if err != nil {
        return err
    }
    fmt.Fprint(w, r.Board(b, nil))
    fmt.Fprintf(w, "%s to move, depth %d: score=%d outcome=%s move=%d nodes=%d cutoffs=%d\n",
        b.ToMove(), depth, res.Score, res.Outcome, res.Move, res.Stats.Nodes, res.Stats.Cutoffs)
    if !domain.Evaluate(b).Status.Terminal() {
        if m, ok := b.WinningMove(b.ToMove()); ok && m != res.Move {
            fmt.Fprintf(w, "immediate win at %d\n", m)
        }
    }
    if *treeFlag > 0 {
        fmt.Fprint(w, r.Summary(tree)+r.Tree(tree, *treeFlag))
    }
    if *analyzeFlag && depth > 0 {
        moves, err := search.Analyze(context.Background(), b, depth, maximizing)
        if err != nil {
            return err
        }
        for _, m := range moves {
            fmt.Fprintf(w, "  %d: score=%d %s (%d nodes)\n", m.Move, m.Score, m.Outcome, m.Nodes)
        }
    }
    return nil
}

func play(in io.Reader, w io.Writer, r *render.Renderer) error {
    cfg, d, err := settings()
    if err != nil {
        return err
    }
    log, err := logging.New(os.Stderr, cfg.LogLevel, "console")
    if err != nil {
        return err
    }
    side := domain.O
    if strings.EqualFold(*botFlag, "x") {
        side = domain.X
    }
    svc := app.NewService(app.WithConfig(config.NewStore(cfg)), app.WithLogger(log))
    defer svc.Close()

    gs, err := svc.CreateGame(app.GameOptions{Mode: app.ModeBot, Difficulty: d, BotSide: side})
    if err != nil {
        return err
    }
    if _, _, err := svc.Join(gs.ID, human); err != nil {
        return err
    }
    fmt.Fprintf(w, "You play %s against the %s bot (depth %d).\n", side.Opponent(), d, cfg.Depth(d))
    var last time.Time
    report(w, r, gs, &last)

    sc := bufio.NewScanner(in)
    for !gs.Game.Over {
        fmt.Fprintf(w, "%s, enter a cell (0-8, q to quit): ", side.Opponent())
        if !sc.Scan() {
            return sc.Err()
        }
        line := strings.TrimSpace(sc.Text())
        if line == "q" {
            return nil
        }
        i, err := strconv.Atoi(line)
        if err != nil || i < 0 || i > 8 {
            fmt.Fprintln(w, "Enter a number from 0 to 8.")
            continue
        }
        next, err := svc.Play(gs.ID, human, i/3, i%3)
        switch {
        case errors.Is(err, domain.ErrOccupied):
            fmt.Fprintln(w, "Cell already occupied.")
            continue
        case err != nil:
            return err
        }
        gs = next
        report(w, r, gs, &last)
    }
    return nil
}

// report prints the board, preceded by the bot's decision when it is newer
// than last.
func report(w io.Writer, r *render.Renderer, gs *app.GameState, last *time.Time) {
    if d := gs.Decision; d != nil && d.At.After(*last) {
        *last = d.At
        note := ""
        switch {
        case d.Immediate:
            note = " (immediate win)"
        case d.Fallback:
            note = " (no search result, first free cell)"
        }
        fmt.Fprintf(w, "Bot plays %d%s: score=%d %s, %d nodes, %d cutoffs, %s\n",
            d.Move, note, d.Score, d.Outcome, d.Stats.Nodes, d.Stats.Cutoffs, d.Took)
        if *treeFlag > 0 && d.Tree != nil {
            fmt.Fprint(w, r.Summary(d.Tree)+r.Tree(d.Tree, *treeFlag))
        }
    }
    fmt.Fprint(w, r.Board(gs.Game.Board, gs.Game.Line))
    if gs.Game.Over {
        if gs.Game.Winner == domain.Empty {
            fmt.Fprintln(w, "Draw.")
        } else {
            fmt.Fprintf(w, "%s wins.\n", gs.Game.Winner)
        }
    }
}
