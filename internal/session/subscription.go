package session

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
type Subscription struct {
	SongChanged     <-chan SongChange
	StateChanged    <-chan StateChange
	TimeChanged     <-chan TimeChange
	PlaylistChanged <-chan PlaylistChange
	Done            <-chan struct{}

	// Internal write channels
	songCh     chan SongChange
	stateCh    chan StateChange
	timeCh     chan TimeChange
	playlistCh chan PlaylistChange
	doneCh     chan struct{}
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		songCh:     make(chan SongChange, eventBufferSize),
		stateCh:    make(chan StateChange, eventBufferSize),
		timeCh:     make(chan TimeChange, eventBufferSize),
		playlistCh: make(chan PlaylistChange, eventBufferSize),
		doneCh:     make(chan struct{}),
	}
	s.SongChanged = s.songCh
	s.StateChanged = s.stateCh
	s.TimeChanged = s.timeCh
	s.PlaylistChanged = s.playlistCh
	s.Done = s.doneCh
	return s
}

// close signals the subscriber to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// sendSong sends a song change event (non-blocking).
func (s *Subscription) sendSong(e SongChange) {
	select {
	case s.songCh <- e:
	default:
		// Drop if buffer full
	}
}

// sendState sends a state change event (non-blocking).
func (s *Subscription) sendState(e StateChange) {
	select {
	case s.stateCh <- e:
	default:
	}
}

// sendTime sends a time change event (non-blocking).
func (s *Subscription) sendTime(e TimeChange) {
	select {
	case s.timeCh <- e:
	default:
	}
}

// sendPlaylist sends a playlist change event (non-blocking).
func (s *Subscription) sendPlaylist(e PlaylistChange) {
	select {
	case s.playlistCh <- e:
	default:
	}
}
