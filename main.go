package main

import (
    "context"
    "flag"
    "fmt"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/joho/godotenv"
    "github.com/rs/zerolog"
)

// newLogger builds the console logger.  Debug mode keeps the level at
// Debug; kiosk runs log at Info so the cleared screen stays quiet.
func newLogger(debug bool) zerolog.Logger {
    level := zerolog.InfoLevel
    if debug {
        level = zerolog.DebugLevel
    }
    w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
    return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Entry point for the GPIO-controlled video looper
func main() {
    // A .env file next to the binary may supply VIDLOOPER_* defaults for
    // any flag; missing files are fine.
    _ = godotenv.Load()

    cfg, err := LoadConfig(os.Args[1:])
    if err != nil {
        if err == flag.ErrHelp {
            os.Exit(0)
        }
        fmt.Fprintf(os.Stderr, "vidlooper: %v\n", err)
        os.Exit(2)
    }
    logger := newLogger(cfg.Debug)

    // Optional countdown so a headless Pi can be interrupted over SSH
    // before the screen is taken over.
    for n := cfg.Countdown; n > 0; n-- {
        fmt.Printf("\rvidlooper starting in %d seconds (Ctrl-C to abort)... ", n)
        time.Sleep(time.Second)
    }
    if cfg.Countdown > 0 {
        fmt.Println()
    }

    looper, err := NewLooper(cfg, Deps{
        GPIO:      newGPIO(),
        NewPlayer: newVLCPlayer,
        Viewer:    newViewer(),
        Host:      systemHost{},
        Log:       logger,
    })
    if err != nil {
        logger.Fatal().Err(err).Msg("invalid configuration")
    }
    defer looper.Teardown()

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    if err := looper.Start(ctx); err != nil {
        looper.Teardown()
        logger.Fatal().Err(err).Msg("playback failed")
    }
}
