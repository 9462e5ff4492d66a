package session

// SongChange is emitted when the current song changes, including when it
// is cleared (Current nil) and when hydration restores a saved song.
type SongChange struct {
	Previous *Song
	Current  *Song
}

// StateChange is emitted when the play intent flag changes.
type StateChange struct {
	Playing bool
}

// TimeChange is emitted on every playback position update.
type TimeChange struct {
	Seconds float64
}

// PlaylistChange is emitted when the active playlist is replaced.
type PlaylistChange struct {
	Songs []Song
}
