package main

import (
    "fmt"

    vlc "github.com/adrg/libvlc-go/v3"
)

// vlcPlayer implements Player on top of libVLC.  A process hosts at most
// one instance: libVLC keeps engine state in a process-wide singleton, so
// newVLCPlayer must not be called twice without an intervening Release.
type vlcPlayer struct {
    player *vlc.Player
    media  *vlc.Media
}

// newVLCPlayer initialises the libVLC engine with the configured audio
// route and returns a Player wrapping a fresh media player.  It satisfies
// PlayerFactory.
func newVLCPlayer(opts PlayerOptions) (Player, error) {
    args := []string{"--aout=" + opts.Audio, "--quiet"}
    if opts.NoOSD {
        args = append(args, "--no-osd")
    }
    if err := vlc.Init(args...); err != nil {
        return nil, fmt.Errorf("unable to initialise playback engine: %w", err)
    }
    p, err := vlc.NewPlayer()
    if err != nil {
        vlc.Release()
        return nil, fmt.Errorf("unable to create media player: %w", err)
    }
    return &vlcPlayer{player: p}, nil
}

// Load replaces the current media with the given file path or stream URL.
func (v *vlcPlayer) Load(source string) error {
    if v.media != nil {
        v.media.Release()
        v.media = nil
    }
    var (
        m   *vlc.Media
        err error
    )
    if isStreamURL(source) {
        m, err = v.player.LoadMediaFromURL(source)
    } else {
        m, err = v.player.LoadMediaFromPath(source)
    }
    if err != nil {
        return fmt.Errorf("unable to load %q: %w", source, err)
    }
    v.media = m
    return nil
}

func (v *vlcPlayer) Play() error {
    return v.player.Play()
}

func (v *vlcPlayer) Stop() error {
    return v.player.Stop()
}

// SetRepeat configures the loaded media to repeat indefinitely.  Repeat-off
// needs no action: a freshly loaded media does not repeat.
func (v *vlcPlayer) SetRepeat(on bool) error {
    if !on || v.media == nil {
        return nil
    }
    return v.media.AddOptions("input-repeat=-1")
}

// State maps libVLC's media state onto the controller's coarse states.
func (v *vlcPlayer) State() (PlaybackState, error) {
    s, err := v.player.MediaState()
    if err != nil {
        return StateIdle, err
    }
    switch s {
    case vlc.MediaOpening, vlc.MediaBuffering, vlc.MediaPlaying, vlc.MediaPaused:
        return StatePlaying, nil
    case vlc.MediaEnded:
        return StateEnded, nil
    case vlc.MediaError:
        return StateError, nil
    default:
        return StateIdle, nil
    }
}

// Release stops playback and tears down the engine singleton.
func (v *vlcPlayer) Release() error {
    v.player.Stop()
    if v.media != nil {
        v.media.Release()
        v.media = nil
    }
    v.player.Release()
    return vlc.Release()
}
