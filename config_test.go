package main

import (
    "os"
    "path/filepath"
    "reflect"
    "testing"
)

func TestParsePinSpecPairs(t *testing.T) {
    got, err := ParsePinSpec("26:21,19:20,13:16,6:12")
    if err != nil {
        t.Fatal(err)
    }
    want := []PinPair{{26, 21}, {19, 20}, {13, 16}, {6, 12}}
    if !reflect.DeepEqual(got, want) {
        t.Fatalf("want %v, got %v", want, got)
    }
}

func TestParsePinSpecWithoutOutput(t *testing.T) {
    got, err := ParsePinSpec("17:27,22")
    if err != nil {
        t.Fatal(err)
    }
    if len(got) != 2 {
        t.Fatalf("want 2 pairs, got %d", len(got))
    }
    if got[0] != (PinPair{17, 27}) {
        t.Fatalf("want 17:27, got %v", got[0])
    }
    if got[1].In != 22 || got[1].HasOut() {
        t.Fatalf("pin 22 should have no output, got %v", got[1])
    }
}

func TestParsePinSpecErrors(t *testing.T) {
    cases := []struct {
        name string
        spec string
    }{
        {"duplicate input", "17:27,17:5"},
        {"non-numeric input", "a:1"},
        {"non-numeric output", "1:b"},
        {"empty", ""},
        {"too many fields", "1:2:3"},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            if _, err := ParsePinSpec(tc.spec); err == nil {
                t.Fatalf("ParsePinSpec(%q) should fail", tc.spec)
            }
        })
    }
}

func TestLoadConfigDefaults(t *testing.T) {
    cfg, err := LoadConfig(nil)
    if err != nil {
        t.Fatal(err)
    }
    if cfg.Audio != "hdmi" {
        t.Errorf("default audio: want hdmi, got %q", cfg.Audio)
    }
    if !cfg.Autostart || !cfg.Loop {
        t.Error("autostart and loop should default to on")
    }
    if cfg.RestartOnPress || cfg.Debug || cfg.NoOSD {
        t.Error("restart-on-press, debug and no-osd should default to off")
    }
    if cfg.ShutdownPin != -1 {
        t.Errorf("shutdown pin should default to -1, got %d", cfg.ShutdownPin)
    }
    if len(cfg.Pins) != 4 || cfg.Pins[0] != (PinPair{26, 21}) {
        t.Errorf("unexpected default pins: %v", cfg.Pins)
    }
}

func TestLoadConfigFlags(t *testing.T) {
    cfg, err := LoadConfig([]string{
        "--audio", "local", "--no-loop", "--restart-on-press",
        "--gpio-pins", "17:27,22", "--shutdown-pin", "5",
        "a.mp4", "b.mp4",
    })
    if err != nil {
        t.Fatal(err)
    }
    if cfg.Audio != "local" || cfg.Loop || !cfg.RestartOnPress {
        t.Errorf("flags not applied: %+v", cfg)
    }
    if cfg.ShutdownPin != 5 {
        t.Errorf("want shutdown pin 5, got %d", cfg.ShutdownPin)
    }
    if !reflect.DeepEqual(cfg.Videos, []string{"a.mp4", "b.mp4"}) {
        t.Errorf("want explicit videos, got %v", cfg.Videos)
    }
}

func TestLoadConfigRejectsBothVideoSources(t *testing.T) {
    _, err := LoadConfig([]string{"--video-dir", "/tmp", "a.mp4"})
    if err == nil {
        t.Fatal("explicit videos together with --video-dir should fail")
    }
}

func TestLoadConfigRejectsBadAudio(t *testing.T) {
    if _, err := LoadConfig([]string{"--audio", "spdif"}); err == nil {
        t.Fatal("unknown audio route should fail")
    }
}

func TestLoadConfigEnvDefaults(t *testing.T) {
    t.Setenv("VIDLOOPER_AUDIO", "both")
    t.Setenv("VIDLOOPER_GPIO_PINS", "4:5")
    t.Setenv("VIDLOOPER_SHUTDOWN_PIN", "3")
    cfg, err := LoadConfig(nil)
    if err != nil {
        t.Fatal(err)
    }
    if cfg.Audio != "both" {
        t.Errorf("env audio not applied, got %q", cfg.Audio)
    }
    if !reflect.DeepEqual(cfg.Pins, []PinPair{{4, 5}}) {
        t.Errorf("env pins not applied, got %v", cfg.Pins)
    }
    if cfg.ShutdownPin != 3 {
        t.Errorf("env shutdown pin not applied, got %d", cfg.ShutdownPin)
    }
    // An explicit flag still wins over the environment.
    cfg, err = LoadConfig([]string{"--audio", "local"})
    if err != nil {
        t.Fatal(err)
    }
    if cfg.Audio != "local" {
        t.Errorf("flag should override env, got %q", cfg.Audio)
    }
}

func TestResolveVideosScansSorted(t *testing.T) {
    dir := t.TempDir()
    for _, name := range []string{"b.mp4", "a.mp4", "notes.txt", "d.mkv", "sub"} {
        if name == "sub" {
            if err := os.Mkdir(filepath.Join(dir, name), 0o755); err != nil {
                t.Fatal(err)
            }
            continue
        }
        if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
            t.Fatal(err)
        }
    }
    cfg := &Config{VideoDir: dir}
    got, err := cfg.resolveVideos()
    if err != nil {
        t.Fatal(err)
    }
    want := []string{
        filepath.Join(dir, "a.mp4"),
        filepath.Join(dir, "b.mp4"),
        filepath.Join(dir, "d.mkv"),
    }
    if !reflect.DeepEqual(got, want) {
        t.Fatalf("want %v, got %v", want, got)
    }
}

func TestResolveVideosEmptyDirFails(t *testing.T) {
    cfg := &Config{VideoDir: t.TempDir()}
    if _, err := cfg.resolveVideos(); err == nil {
        t.Fatal("empty video directory should fail")
    }
}

func TestResolveVideosMissingExplicitFails(t *testing.T) {
    cfg := &Config{Videos: []string{filepath.Join(t.TempDir(), "nope.mp4")}}
    if _, err := cfg.resolveVideos(); err == nil {
        t.Fatal("nonexistent explicit video should fail")
    }
}

func TestResolveVideosAcceptsStreamURLs(t *testing.T) {
    cfg := &Config{Videos: []string{"rtsp://camera.local/feed"}}
    got, err := cfg.resolveVideos()
    if err != nil {
        t.Fatal(err)
    }
    if len(got) != 1 || got[0] != "rtsp://camera.local/feed" {
        t.Fatalf("stream URL should pass through, got %v", got)
    }
}
