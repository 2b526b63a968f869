//go:build linux && (arm || arm64) && !disablegpio

// This file provides the Raspberry Pi implementation of the GPIO interface
// using the periph.io library.  When cross-compiling on other platforms or
// when the build tag "disablegpio" is specified, the stub in hal.go is used
// instead.  Pins are addressed by their BCM numbers.

package main

import (
    "fmt"
    "sync"
    "time"

    // Use the new periph module layout.  See https://periph.io/news/2020/a_new_start/
    "periph.io/x/conn/v3/gpio"
    "periph.io/x/conn/v3/gpio/gpioreg"
    "periph.io/x/host/v3"
)

// rpiGPIO drives real pins through periph.io.  Edge detection runs one
// goroutine per watched input; the 200ms debounce window is enforced here
// because periph reports every raw edge.
type rpiGPIO struct {
    mu   sync.Mutex
    ins  map[int]gpio.PinIO
    outs map[int]gpio.PinIO
    done chan struct{}
    wg   sync.WaitGroup
}

// newGPIO initialises periph host state and returns the Pi implementation.
// host.Init can safely be called multiple times; subsequent calls are
// no-ops.
func newGPIO() GPIO {
    return &rpiGPIO{
        ins:  make(map[int]gpio.PinIO),
        outs: make(map[int]gpio.PinIO),
        done: make(chan struct{}),
    }
}

// pinByNumber resolves a BCM pin number to a periph pin handle.
func pinByNumber(pin int) (gpio.PinIO, error) {
    if _, err := host.Init(); err != nil {
        return nil, fmt.Errorf("unable to initialise GPIO host: %w", err)
    }
    p := gpioreg.ByName(fmt.Sprintf("GPIO%d", pin))
    if p == nil {
        return nil, fmt.Errorf("no such GPIO pin: %d", pin)
    }
    return p, nil
}

// SetupInput configures pin as a pulled-up input with falling-edge
// detection, matching a button that shorts the pin to ground.
func (g *rpiGPIO) SetupInput(pin int) error {
    p, err := pinByNumber(pin)
    if err != nil {
        return err
    }
    if err := p.In(gpio.PullUp, gpio.FallingEdge); err != nil {
        return fmt.Errorf("unable to configure input pin %d: %w", pin, err)
    }
    g.mu.Lock()
    g.ins[pin] = p
    g.mu.Unlock()
    return nil
}

// SetupOutput configures pin as an output driven LOW.
func (g *rpiGPIO) SetupOutput(pin int) error {
    p, err := pinByNumber(pin)
    if err != nil {
        return err
    }
    if err := p.Out(gpio.Low); err != nil {
        return fmt.Errorf("unable to configure output pin %d: %w", pin, err)
    }
    g.mu.Lock()
    g.outs[pin] = p
    g.mu.Unlock()
    return nil
}

// Write drives a configured output pin high or low.
func (g *rpiGPIO) Write(pin int, high bool) error {
    g.mu.Lock()
    p, ok := g.outs[pin]
    g.mu.Unlock()
    if !ok {
        return fmt.Errorf("pin %d is not configured as an output", pin)
    }
    return p.Out(gpio.Level(high))
}

// Watch invokes handler once per debounced falling edge on a previously
// configured input pin.  The handler runs on the watcher goroutine, so
// edges arriving while it executes are observed afterwards and suppressed
// if they fall inside the debounce window.
func (g *rpiGPIO) Watch(pin int, debounce time.Duration, handler func(pin int)) error {
    g.mu.Lock()
    p, ok := g.ins[pin]
    g.mu.Unlock()
    if !ok {
        return fmt.Errorf("pin %d is not configured as an input", pin)
    }
    g.wg.Add(1)
    go func() {
        defer g.wg.Done()
        var last time.Time
        for {
            select {
            case <-g.done:
                return
            default:
            }
            // The timeout keeps the goroutine responsive to Close
            // without busy-waiting.
            if !p.WaitForEdge(time.Second) {
                continue
            }
            now := time.Now()
            if !last.IsZero() && now.Sub(last) < debounce {
                continue
            }
            last = now
            handler(pin)
        }
    }()
    return nil
}

// Close stops all edge watchers and releases every configured pin.  Safe to
// call more than once.
func (g *rpiGPIO) Close() error {
    g.mu.Lock()
    select {
    case <-g.done:
    default:
        close(g.done)
    }
    pins := make([]gpio.PinIO, 0, len(g.ins)+len(g.outs))
    for _, p := range g.ins {
        pins = append(pins, p)
    }
    for _, p := range g.outs {
        pins = append(pins, p)
    }
    g.mu.Unlock()
    g.wg.Wait()
    var firstErr error
    for _, p := range pins {
        if err := p.Halt(); err != nil && firstErr == nil {
            firstErr = err
        }
    }
    return firstErr
}
