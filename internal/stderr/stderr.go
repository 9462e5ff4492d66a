//go:build !windows

// Package stderr captures output C libraries write directly to file
// descriptor 2 (ALSA, via the speaker backend), bypassing Go's
// os.Stderr. Left alone, those writes corrupt the TUI layout; captured
// lines surface on Messages for the status line instead.
package stderr

import (
	"bufio"
	"os"
	"strings"
	"syscall"
)

// Messages receives captured stderr lines.
var Messages = make(chan string, 100)

var (
	origStderr int
	pipeRead   *os.File
	pipeWrite  *os.File
	started    bool
)

// Start begins capturing stderr. Call early in main, before the
// speaker initializes. The program can continue without capture when
// setup fails; the noise just reaches the terminal.
func Start() error {
	if started {
		return nil
	}

	r, w, err := os.Pipe()
	if err != nil {
		return err
	}

	origStderr, err = syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return err
	}

	if err := syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		syscall.Close(origStderr)
		r.Close()
		w.Close()
		return err
	}

	pipeRead = r
	pipeWrite = w
	started = true

	go func() {
		scanner := bufio.NewScanner(pipeRead)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			select {
			case Messages <- line:
			default:
				// Full channel: drop rather than block the reader.
			}
		}
	}()

	return nil
}

// Stop restores the original stderr. Call on program exit.
func Stop() {
	if !started {
		return
	}

	_ = syscall.Dup2(origStderr, int(os.Stderr.Fd()))
	_ = syscall.Close(origStderr)

	pipeWrite.Close()
	pipeRead.Close()

	close(Messages)
	started = false
}
