package app

import "github.com/llehouerou/nano/internal/session"

// SongsLoadedMsg carries the library list from the catalog.
type SongsLoadedMsg struct {
	Songs []session.Song
}

// SongChangedMsg mirrors a session song change into the view.
type SongChangedMsg struct {
	Song *session.Song
}

// StateChangedMsg mirrors the play/pause intent.
type StateChangedMsg struct {
	Playing bool
}

// TimeChangedMsg mirrors playback position updates.
type TimeChangedMsg struct {
	Seconds float64
}

// PlaylistChangedMsg mirrors playlist replacement.
type PlaylistChangedMsg struct {
	Songs []session.Song
}

// SessionClosedMsg means the subscription was torn down.
type SessionClosedMsg struct{}

// ErrorMsg is a human-readable failure for the status line.
type ErrorMsg struct {
	Message string
	From    <-chan string // non-nil when more errors may follow
}
