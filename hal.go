//go:build !linux || (!arm && !arm64) || disablegpio

package main

// This file provides the stub implementation of the GPIO interface (defined
// in looper.go) selected when building for anything other than a Raspberry
// Pi, or when the build tag "disablegpio" is specified.  It lets the looper
// run on a desktop machine for development: pin setup is accepted but no
// edges ever fire, so the program just plays whatever autostart selects.

import "time"

type stubGPIO struct{}

// newGPIO returns the platform GPIO implementation.  The Raspberry Pi
// version lives in hal_rpi.go, guarded by the inverse build tag.
func newGPIO() GPIO {
    return stubGPIO{}
}

func (stubGPIO) SetupInput(pin int) error  { return nil }
func (stubGPIO) SetupOutput(pin int) error { return nil }

func (stubGPIO) Write(pin int, high bool) error { return nil }

// Watch never invokes the handler: there is no hardware to edge-detect.
func (stubGPIO) Watch(pin int, debounce time.Duration, handler func(pin int)) error {
    return nil
}

func (stubGPIO) Close() error { return nil }
