package main

import (
    "flag"
    "fmt"
    "os"
    "path/filepath"
    "sort"
    "strconv"
    "strings"
)

// videoExts lists the file extensions recognised when scanning a directory
// for playable videos.  Extensions are compared case-sensitively, matching
// how files are normally named on the Pi's media partition.
var videoExts = []string{".mp4", ".m4v", ".mov", ".avi", ".mkv"}

// defaultPinSpec is the wiring used when --gpio-pins is not given: four
// button inputs each paired with an LED output, in BCM numbering.
const defaultPinSpec = "26:21,19:20,13:16,6:12"

// PinPair associates a button input pin with an optional LED output pin.
// Out is -1 when the pair has no output.  The order of pairs is
// significant: the Nth video in the playlist is assigned to the Nth pair.
type PinPair struct {
    In  int
    Out int
}

// HasOut reports whether the pair drives an LED output.
func (p PinPair) HasOut() bool { return p.Out >= 0 }

// Config enumerates every runtime option with a named, typed field.  It is
// populated once at startup from the environment and command line and is
// not modified afterwards.
type Config struct {
    Audio          string    // audio route: "hdmi", "local" or "both"
    Autostart      bool      // start playing (or show splash) immediately
    RestartOnPress bool      // restart the active video when its own button is pressed
    VideoDir       string    // directory to scan for videos when none are listed explicitly
    Videos         []string  // explicit video paths or stream URLs
    Pins           []PinPair // ordered button/LED wiring
    Loop           bool      // repeat the active video indefinitely
    NoOSD          bool      // suppress the playback engine's on-screen display
    ShutdownPin    int       // input pin that powers the host off, -1 when disabled
    Splash         string    // image shown while idle, "" when disabled
    Debug          bool      // keep terminal output and cursor visible
    Countdown      int       // seconds to wait before starting
}

// envOr returns the value of the environment variable key, or fallback when
// it is unset or empty.  A .env file loaded at startup can therefore supply
// defaults for any of the flag values below.
func envOr(key, fallback string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return fallback
}

// envIntOr is envOr for integer-valued variables.  A value that does not
// parse is ignored in favour of the fallback.
func envIntOr(key string, fallback int) int {
    if v := os.Getenv(key); v != "" {
        if n, err := strconv.Atoi(v); err == nil {
            return n
        }
    }
    return fallback
}

// ParsePinSpec parses a comma-separated list of IN[:OUT] pin pairs, e.g.
// "26:21,19:20" or "17:27,22".  Input pins must be unique; an input without
// a colon-separated output simply has no LED.  The returned slice preserves
// the order pairs were written in.
func ParsePinSpec(spec string) ([]PinPair, error) {
    var pairs []PinPair
    seen := make(map[int]bool)
    for _, field := range strings.Split(spec, ",") {
        parts := strings.Split(field, ":")
        if len(parts) > 2 {
            return nil, fmt.Errorf("invalid pin pair %q: at most one output per input", field)
        }
        in, err := strconv.Atoi(strings.TrimSpace(parts[0]))
        if err != nil {
            return nil, fmt.Errorf("input pin must be a number, got %q", parts[0])
        }
        out := -1
        if len(parts) == 2 {
            out, err = strconv.Atoi(strings.TrimSpace(parts[1]))
            if err != nil {
                return nil, fmt.Errorf("output pin must be a number, got %q", parts[1])
            }
        }
        if seen[in] {
            return nil, fmt.Errorf("duplicate input pin: %d", in)
        }
        seen[in] = true
        pairs = append(pairs, PinPair{In: in, Out: out})
    }
    return pairs, nil
}

// LoadConfig builds a Config from command-line arguments, with defaults
// taken from the environment where a VIDLOOPER_* variable is set.  Only
// syntactic validation happens here; existence of video files is checked
// later, when the controller is constructed.
func LoadConfig(args []string) (*Config, error) {
    cwd, err := os.Getwd()
    if err != nil {
        cwd = "."
    }

    fs := flag.NewFlagSet("vidlooper", flag.ContinueOnError)
    audio := fs.String("audio", envOr("VIDLOOPER_AUDIO", "hdmi"),
        "audio output route: hdmi, local (headphone jack) or both")
    noAutostart := fs.Bool("no-autostart", false,
        "don't start playing a video on startup")
    noLoop := fs.Bool("no-loop", false,
        "don't loop the active video")
    restart := fs.Bool("restart-on-press", false,
        "restart the active video when its own button is pressed (otherwise ignored)")
    videoDir := fs.String("video-dir", envOr("VIDLOOPER_VIDEO_DIR", cwd),
        "directory containing video files; mutually exclusive with listing videos as arguments")
    pinSpec := fs.String("gpio-pins", envOr("VIDLOOPER_GPIO_PINS", defaultPinSpec),
        "comma-separated IN:OUT pin pairs, or bare IN pins with no LED output")
    debug := fs.Bool("debug", false,
        "debug mode: don't clear the screen or hide the cursor")
    countdown := fs.Int("countdown", 0,
        "seconds to count down before starting")
    splash := fs.String("splash", envOr("VIDLOOPER_SPLASH", ""),
        "splash image to show when no video is playing")
    noOSD := fs.Bool("no-osd", false,
        "don't show the on-screen display when changing videos")
    shutdownPin := fs.Int("shutdown-pin", envIntOr("VIDLOOPER_SHUTDOWN_PIN", -1),
        "input pin that triggers a system shutdown, -1 to disable")

    if err := fs.Parse(args); err != nil {
        return nil, err
    }

    videos := fs.Args()

    // The video source is either a directory scan or an explicit list,
    // never both.  fs.Visit only sees flags given on the command line, so
    // an env-provided default directory does not count as explicit.
    dirGiven := false
    fs.Visit(func(f *flag.Flag) {
        if f.Name == "video-dir" {
            dirGiven = true
        }
    })
    if dirGiven && len(videos) > 0 {
        return nil, fmt.Errorf("use either --video-dir or an explicit video list, not both")
    }

    switch *audio {
    case "hdmi", "local", "both":
    default:
        return nil, fmt.Errorf("invalid audio route %q: must be hdmi, local or both", *audio)
    }

    pins, err := ParsePinSpec(*pinSpec)
    if err != nil {
        return nil, fmt.Errorf("invalid --gpio-pins: %w", err)
    }

    if *countdown < 0 {
        return nil, fmt.Errorf("countdown must not be negative")
    }

    return &Config{
        Audio:          *audio,
        Autostart:      !*noAutostart,
        RestartOnPress: *restart,
        VideoDir:       *videoDir,
        Videos:         videos,
        Pins:           pins,
        Loop:           !*noLoop,
        NoOSD:          *noOSD,
        ShutdownPin:    *shutdownPin,
        Splash:         *splash,
        Debug:          *debug,
        Countdown:      *countdown,
    }, nil
}

// resolveVideos returns the playlist the controller will use.  An explicit
// list is checked path by path; otherwise VideoDir is scanned for known
// video extensions, sorted by filename.  Both failure modes are
// configuration errors and abort startup.
func (c *Config) resolveVideos() ([]string, error) {
    if len(c.Videos) > 0 {
        for _, v := range c.Videos {
            if isStreamURL(v) {
                continue
            }
            if _, err := os.Stat(v); err != nil {
                return nil, fmt.Errorf("video %q not found", v)
            }
        }
        return c.Videos, nil
    }

    entries, err := os.ReadDir(c.VideoDir)
    if err != nil {
        return nil, fmt.Errorf("unable to read video directory %q: %w", c.VideoDir, err)
    }
    var videos []string
    for _, e := range entries {
        if e.IsDir() {
            continue
        }
        ext := filepath.Ext(e.Name())
        for _, v := range videoExts {
            if ext == v {
                videos = append(videos, filepath.Join(c.VideoDir, e.Name()))
                break
            }
        }
    }
    sort.Strings(videos)
    if len(videos) == 0 {
        return nil, fmt.Errorf("no videos found in %q; specify a different directory or list files explicitly", c.VideoDir)
    }
    return videos, nil
}

// isStreamURL reports whether a video reference is a network stream rather
// than a local file.
func isStreamURL(s string) bool {
    return strings.Contains(s, "://")
}
