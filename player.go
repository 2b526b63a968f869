package main

// This file defines the narrow interface the controller uses to drive a
// media-playback engine.  The production implementation (vlc.go) wraps
// libVLC; tests substitute an in-memory fake.

// PlaybackState is the coarse engine state the controller cares about.  It
// only needs to distinguish "still going" from "ran off the end".
type PlaybackState int

const (
    StateIdle PlaybackState = iota // no media loaded, or stopped
    StatePlaying                   // opening, buffering or playing
    StateEnded                     // reached end of stream
    StateError                     // engine reported a media error
)

// String returns a short lowercase name for logging.
func (s PlaybackState) String() string {
    switch s {
    case StateIdle:
        return "idle"
    case StatePlaying:
        return "playing"
    case StateEnded:
        return "ended"
    case StateError:
        return "error"
    default:
        return "unknown"
    }
}

// Player owns a single playback session.  Load replaces any previously
// loaded media; SetRepeat applies to the currently loaded media and must be
// called after Load.  Release tears the engine down and must be called
// exactly once, after which the Player is unusable.
type Player interface {
    Load(source string) error
    Play() error
    Stop() error
    SetRepeat(on bool) error
    State() (PlaybackState, error)
    Release() error
}

// PlayerOptions carries the engine settings fixed at construction time.
type PlayerOptions struct {
    Audio string // audio route: "hdmi", "local" or "both"
    NoOSD bool   // suppress the engine's on-screen display
}

// PlayerFactory constructs a Player.  The controller calls it only after
// the rest of the configuration has validated, so a missing video file
// never leaves a half-initialised engine behind.
type PlayerFactory func(opts PlayerOptions) (Player, error)
