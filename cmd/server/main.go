package main

import (
    "context"
    "errors"
    "flag"
    "fmt"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "golang.org/x/sync/errgroup"

    "github.com/jaminalder/tic-tac-toe-solver/internal/app"
    "github.com/jaminalder/tic-tac-toe-solver/internal/config"
    "github.com/jaminalder/tic-tac-toe-solver/internal/logging"
    "github.com/jaminalder/tic-tac-toe-solver/internal/web"
)

var (
    configFlag = flag.String("config", "", "path to a JSON config file")
    addrFlag   = flag.String("addr", "", "listen address (overrides config)")
)

func main() {
    flag.Parse()
    if err := run(); err != nil {
        fmt.Fprintln(os.Stderr, "server:", err)
        os.Exit(1)
    }
}

func run() error {
    cfg, err := config.Load(*configFlag)
    if err != nil {
        return err
    }
    if *addrFlag != "" {
        cfg.Addr = *addrFlag
    }
    log, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
    if err != nil {
        return err
    }

    svc := app.NewService(app.WithConfig(config.NewStore(cfg)), app.WithLogger(log))
    defer svc.Close()
    server := &http.Server{
        Addr:              cfg.Addr,
        Handler:           web.NewServer(svc, web.WithLogger(log)),
        ReadHeaderTimeout: 5 * time.Second,
    }

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()
    g, ctx := errgroup.WithContext(ctx)
    g.Go(func() error {
        log.Info().
            Str("addr", cfg.Addr).
            Int("easy", cfg.Depths.Easy).
            Int("medium", cfg.Depths.Medium).
            Int("hard", cfg.Depths.Hard).
            Msg("listening")
        if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            return err
        }
        return nil
    })
    g.Go(func() error {
        <-ctx.Done()
        log.Info().Msg("shutting down")
        shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()
        if err := server.Shutdown(shutdownCtx); err != nil {
            log.Warn().Err(err).Msg("graceful shutdown failed")
            return server.Close()
        }
        return nil
    })
    return g.Wait()
}
