//go:build windows

// Package stderr is a no-op on Windows; the audio backend there does
// not write to file descriptor 2 the way ALSA does.
package stderr

// Messages receives captured stderr lines. Never written on Windows.
var Messages = make(chan string)

// Start is a no-op on Windows.
func Start() error {
	return nil
}

// Stop is a no-op on Windows.
func Stop() {}
