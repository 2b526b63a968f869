package main

// This file implements the two external-process capabilities the controller
// depends on.  Both are behind small interfaces (see looper.go) so the
// switching logic can be tested without spawning anything.

import (
    "fmt"
    "os/exec"
    "sync"
    "syscall"
)

// fbiViewer shows a splash image with the fbi framebuffer viewer.  fbi
// forks helpers of its own, so the process is started in its own process
// group and the whole group is killed on teardown.
type fbiViewer struct {
    mu  sync.Mutex
    cmd *exec.Cmd
}

func newViewer() *fbiViewer {
    return &fbiViewer{}
}

// Show launches the viewer on the given image.  Only one viewer runs at a
// time; a second Show kills the previous one first.
func (v *fbiViewer) Show(path string) error {
    v.mu.Lock()
    defer v.mu.Unlock()
    v.killLocked()
    cmd := exec.Command("fbi", "--noverbose", "-a", path)
    cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
    if err := cmd.Start(); err != nil {
        return fmt.Errorf("unable to launch image viewer: %w", err)
    }
    v.cmd = cmd
    return nil
}

// Kill forcefully terminates the viewer's process group.  Calling it when
// no viewer is running is a no-op.
func (v *fbiViewer) Kill() {
    v.mu.Lock()
    defer v.mu.Unlock()
    v.killLocked()
}

func (v *fbiViewer) killLocked() {
    if v.cmd == nil || v.cmd.Process == nil {
        return
    }
    if pgid, err := syscall.Getpgid(v.cmd.Process.Pid); err == nil {
        syscall.Kill(-pgid, syscall.SIGKILL)
    } else {
        v.cmd.Process.Kill()
    }
    v.cmd.Wait()
    v.cmd = nil
}

// systemHost performs the privileged power-off.  Fire-and-forget: the
// command is started and never waited on, since the host is about to go
// down anyway.
type systemHost struct{}

func (systemHost) Shutdown() error {
    return exec.Command("shutdown", "-h", "now").Start()
}
