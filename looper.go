package main

import (
    "context"
    "fmt"
    "os"
    "sync"
    "time"

    "github.com/google/uuid"
    "github.com/rs/zerolog"
)

const (
    // debounceWindow is the minimum spacing between accepted button edges.
    debounceWindow = 200 * time.Millisecond
    // pollInterval is how often the idle loop samples the engine state.
    pollInterval = 500 * time.Millisecond
)

// GPIO is the narrow contract the controller needs from the pin hardware.
// Inputs are pulled up and edge-detected on the falling edge; outputs start
// LOW.  Implementations live in hal.go (stub) and hal_rpi.go (periph.io).
type GPIO interface {
    SetupInput(pin int) error
    SetupOutput(pin int) error
    Write(pin int, high bool) error
    Watch(pin int, debounce time.Duration, handler func(pin int)) error
    Close() error
}

// Viewer shows a static splash image while no video is playing.
type Viewer interface {
    Show(path string) error
    Kill()
}

// Host performs the privileged system shutdown triggered by the optional
// shutdown pin.
type Host interface {
    Shutdown() error
}

// Deps bundles the external capabilities injected into the controller, so
// the switching logic is testable without hardware, a playback engine or
// process spawning.
type Deps struct {
    GPIO      GPIO
    NewPlayer PlayerFactory
    Viewer    Viewer
    Host      Host
    Log       zerolog.Logger
}

// Looper owns the playlist, the button/LED wiring and the single active
// playback session.  Button edges arrive asynchronously from the GPIO
// watchers; switchVid is the only mutation path and is guarded by mu.
type Looper struct {
    cfg    *Config
    videos []string
    gpio   GPIO
    player Player
    viewer Viewer
    host   Host
    log    zerolog.Logger

    mu     sync.Mutex // guards active and the playback session swap
    active string     // currently playing video, "" when idle

    errCh    chan error // fatal engine errors from the callback path
    teardown sync.Once
}

// NewLooper validates the configuration, resolves the playlist and only
// then constructs the playback engine.  A bad video path or an
// over-subscribed pin map therefore fails before any engine or GPIO state
// exists.
func NewLooper(cfg *Config, deps Deps) (*Looper, error) {
    videos, err := cfg.resolveVideos()
    if err != nil {
        return nil, err
    }
    if len(videos) > len(cfg.Pins) {
        return nil, fmt.Errorf("not enough GPIO pins configured for %d videos (%d pins)",
            len(videos), len(cfg.Pins))
    }
    player, err := deps.NewPlayer(PlayerOptions{Audio: cfg.Audio, NoOSD: cfg.NoOSD})
    if err != nil {
        return nil, err
    }
    return &Looper{
        cfg:    cfg,
        videos: videos,
        gpio:   deps.GPIO,
        player: player,
        viewer: deps.Viewer,
        host:   deps.Host,
        log:    deps.Log,
        errCh:  make(chan error, 1),
    }, nil
}

// switchVid is the sole button-press handler.  It lights the LED belonging
// to the pressed pin (and dims all others), then swaps the playback session
// to that pin's video.  Pressing the button of the already-active video is
// ignored unless restart-on-press is set.  Concurrent presses serialise on
// the mutex.
func (l *Looper) switchVid(pin int) {
    l.mu.Lock()
    defer l.mu.Unlock()

    for _, pp := range l.cfg.Pins {
        if pp.HasOut() {
            l.gpio.Write(pp.Out, pp.In == pin)
        }
    }

    idx := -1
    for i, pp := range l.cfg.Pins {
        if pp.In == pin {
            idx = i
            break
        }
    }
    if idx < 0 || idx >= len(l.videos) {
        // A configured pin with no video assigned; nothing to play.
        l.log.Debug().Int("pin", pin).Msg("press on pin with no video")
        return
    }

    video := l.videos[idx]
    if video == l.active && !l.cfg.RestartOnPress {
        return
    }

    session := uuid.NewString()
    l.log.Info().Int("pin", pin).Str("video", video).Str("session", session).
        Msg("switching video")

    l.player.Stop()
    if err := l.player.Load(video); err != nil {
        l.fail(fmt.Errorf("unable to load %q: %w", video, err))
        return
    }
    if err := l.player.Play(); err != nil {
        l.fail(fmt.Errorf("unable to play %q: %w", video, err))
        return
    }
    if l.cfg.Loop {
        if err := l.player.SetRepeat(true); err != nil {
            l.log.Error().Err(err).Str("session", session).Msg("unable to enable repeat")
        }
    }
    l.active = video
}

// fail forwards a fatal engine error to the main loop.  Only the first
// error matters; later ones are dropped.
func (l *Looper) fail(err error) {
    select {
    case l.errCh <- err:
    default:
    }
}

// Start configures the pins, registers the edge watchers and runs the idle
// loop until ctx is cancelled or the engine fails.  Teardown runs on every
// exit path.
func (l *Looper) Start(ctx context.Context) error {
    defer l.Teardown()

    if !l.cfg.Debug {
        clearScreen()
        hideCursor()
    }

    for _, pp := range l.cfg.Pins {
        if err := l.gpio.SetupInput(pp.In); err != nil {
            return err
        }
        if pp.HasOut() {
            if err := l.gpio.SetupOutput(pp.Out); err != nil {
                return err
            }
        }
    }

    if l.cfg.ShutdownPin >= 0 {
        if err := l.gpio.SetupInput(l.cfg.ShutdownPin); err != nil {
            return err
        }
        err := l.gpio.Watch(l.cfg.ShutdownPin, debounceWindow, func(int) {
            l.log.Info().Msg("shutdown pin pressed, powering off")
            if err := l.host.Shutdown(); err != nil {
                l.log.Error().Err(err).Msg("shutdown command failed")
            }
        })
        if err != nil {
            return err
        }
    }

    if l.cfg.Autostart {
        if l.cfg.Splash != "" {
            if err := l.viewer.Show(l.cfg.Splash); err != nil {
                l.log.Error().Err(err).Str("image", l.cfg.Splash).
                    Msg("unable to show splash image")
            }
        } else {
            l.switchVid(l.cfg.Pins[0].In)
        }
    }

    for _, pp := range l.cfg.Pins {
        if err := l.gpio.Watch(pp.In, debounceWindow, l.switchVid); err != nil {
            return err
        }
    }

    l.log.Info().Int("videos", len(l.videos)).Int("pins", len(l.cfg.Pins)).
        Msg("ready, waiting for button presses")

    ticker := time.NewTicker(pollInterval)
    defer ticker.Stop()
    for {
        select {
        case <-ctx.Done():
            return nil
        case err := <-l.errCh:
            return err
        case <-ticker.C:
            if !l.cfg.Loop {
                l.checkEnded()
            }
        }
    }
}

// checkEnded returns the controller to the idle state once a non-looping
// video runs off the end: every LED goes dark and the active record clears,
// so the next press of any button, including the same one, starts afresh.
func (l *Looper) checkEnded() {
    l.mu.Lock()
    defer l.mu.Unlock()
    if l.active == "" {
        return
    }
    state, err := l.player.State()
    if err != nil || state != StateEnded {
        return
    }
    l.log.Info().Str("video", l.active).Msg("playback ended, going idle")
    for _, pp := range l.cfg.Pins {
        if pp.HasOut() {
            l.gpio.Write(pp.Out, false)
        }
    }
    l.active = ""
}

// Teardown releases everything the controller owns: GPIO registrations,
// the playback session and the splash viewer.  It is idempotent and safe
// to call from any exit path, including twice.
func (l *Looper) Teardown() {
    l.teardown.Do(func() {
        if !l.cfg.Debug {
            showCursor()
        }
        if l.gpio != nil {
            if err := l.gpio.Close(); err != nil {
                l.log.Error().Err(err).Msg("unable to release GPIO pins")
            }
        }
        if l.player != nil {
            l.player.Stop()
            l.player.Release()
        }
        if l.viewer != nil {
            l.viewer.Kill()
        }
        l.log.Info().Msg("stopped")
    })
}

// Terminal cosmetics for kiosk use: the console behind the video should be
// blank with no blinking cursor.  Plain ANSI escapes, no termcap needed.

func clearScreen() { fmt.Fprint(os.Stdout, "\033[2J\033[H") }
func hideCursor()  { fmt.Fprint(os.Stdout, "\033[?25l") }
func showCursor()  { fmt.Fprint(os.Stdout, "\033[?25h") }
