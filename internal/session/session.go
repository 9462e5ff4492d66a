// Package session holds the in-memory playback session: what song is
// current, whether playback is intended, the last known position and the
// ordered playlist used for next/previous navigation. It is the single
// source of truth the UI, the persistence layer and the media element
// reconcile against.
package session

import "sync"

// Session is the mutable playback state, created once at startup and
// alive for the process lifetime. All operations are total: navigating
// with no current song or an empty playlist is a defined no-op, never an
// error.
type Session struct {
	mu sync.RWMutex

	current      *Song
	playing      bool
	currentTime  float64
	restoredTime *float64
	playlist     []Song

	subs   []*Subscription
	subsMu sync.RWMutex
}

// New creates an empty session. Callers that want the last run's state
// back must hydrate it through the state adapter before exposing it.
func New() *Session {
	return &Session{}
}

// SetCurrentSong sets the current song, or clears it when song is nil.
// Any pending restored position is dropped: an explicit selection always
// overrides restoration. Play intent is left untouched; callers that
// want playback to start must also call SetPlaying(true).
func (s *Session) SetCurrentSong(song *Song) {
	s.mu.Lock()
	prev := s.current
	s.setCurrentSongLocked(song)
	cur := s.current
	s.mu.Unlock()

	s.emitSong(SongChange{Previous: prev, Current: cur})
}

// setCurrentSongLocked implements the selection side effects shared by
// SetCurrentSong, PlayNext and PlayPrevious. Caller holds mu.
func (s *Session) setCurrentSongLocked(song *Song) {
	s.restoredTime = nil
	if song == nil {
		s.current = nil
		return
	}
	c := *song
	s.current = &c
	s.currentTime = 0
}

// SetPlaying records play intent. It does not talk to the media element;
// the element controller translates intent into play()/pause() calls and
// reports the element's own play/pause/ended events back through here.
func (s *Session) SetPlaying(playing bool) {
	s.mu.Lock()
	s.playing = playing
	s.mu.Unlock()

	s.emitState(StateChange{Playing: playing})
}

// SetCurrentTime overwrites the playback position. Seeking backward is
// valid; monotonicity is not enforced here.
func (s *Session) SetCurrentTime(seconds float64) {
	s.mu.Lock()
	s.currentTime = seconds
	s.mu.Unlock()

	s.emitTime(TimeChange{Seconds: seconds})
}

// SetPlaylist replaces the active playlist wholesale. Insertion order is
// playback order. The current song and play intent are unaffected, even
// when the current song is not in the new list.
func (s *Session) SetPlaylist(songs []Song) {
	list := make([]Song, len(songs))
	copy(list, songs)

	s.mu.Lock()
	s.playlist = list
	s.mu.Unlock()

	s.emitPlaylist(PlaylistChange{Songs: list})
}

// PlayNext advances to the song after the current one in playlist order
// and forces play intent on. At the end of the list, or when the current
// song is no longer in the list, there is nothing more to play: intent
// goes off and the current song stays put.
func (s *Session) PlayNext() {
	s.advance(1)
}

// PlayPrevious is the symmetric operation: the song before the current
// one, stopping at the head of the list.
func (s *Session) PlayPrevious() {
	s.advance(-1)
}

func (s *Session) advance(step int) {
	s.mu.Lock()
	if s.current == nil || len(s.playlist) == 0 {
		s.mu.Unlock()
		return
	}

	// Lookup by ID, never by the Index field: the playlist may have been
	// rebuilt with different numbering since the song was selected.
	idx := s.indexOfLocked(s.current.ID)
	target := idx + step
	if idx < 0 || target < 0 || target >= len(s.playlist) {
		s.playing = false
		s.mu.Unlock()
		s.emitState(StateChange{Playing: false})
		return
	}

	prev := s.current
	next := s.playlist[target]
	s.setCurrentSongLocked(&next)
	cur := s.current
	s.playing = true
	s.mu.Unlock()

	s.emitSong(SongChange{Previous: prev, Current: cur})
	s.emitState(StateChange{Playing: true})
}

func (s *Session) indexOfLocked(id string) int {
	for i := range s.playlist {
		if s.playlist[i].ID == id {
			return i
		}
	}
	return -1
}

// Restore loads a persisted song and position into the session. It is
// the hydration entry point used by the state adapter, before the UI is
// up. A restored session never autoplays, and the position is kept both
// as the live position and as the one-shot seek target for the element
// controller to apply when the media resource is ready.
func (s *Session) Restore(song Song, seconds float64) {
	s.mu.Lock()
	prev := s.current
	c := song
	s.current = &c
	s.currentTime = seconds
	t := seconds
	s.restoredTime = &t
	s.playing = false
	cur := s.current
	s.mu.Unlock()

	s.emitSong(SongChange{Previous: prev, Current: cur})
	s.emitState(StateChange{Playing: false})
}

// ClearRestoredTime consumes the one-shot restoration target. Called by
// the element controller once the saved position has been applied to the
// media resource.
func (s *Session) ClearRestoredTime() {
	s.mu.Lock()
	s.restoredTime = nil
	s.mu.Unlock()
}

// CurrentSong returns a copy of the current song, or nil if none.
func (s *Session) CurrentSong() *Song {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	c := *s.current
	return &c
}

// IsPlaying returns the play intent flag.
func (s *Session) IsPlaying() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playing
}

// CurrentTime returns the last known playback position in seconds.
func (s *Session) CurrentTime() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentTime
}

// RestoredTime returns the pending one-shot seek target, if any.
func (s *Session) RestoredTime() (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.restoredTime == nil {
		return 0, false
	}
	return *s.restoredTime, true
}

// Playlist returns a copy of the active playlist.
func (s *Session) Playlist() []Song {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]Song, len(s.playlist))
	copy(list, s.playlist)
	return list
}

// Snapshot returns the current song and position read under one lock, so
// the pair is consistent. The persistence mirror writes exactly this.
func (s *Session) Snapshot() (*Song, float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, s.currentTime
	}
	c := *s.current
	return &c, s.currentTime
}

// Subscribe creates a new event subscription.
func (s *Session) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	s.subs = append(s.subs, sub)
	return sub
}

// Unsubscribe removes a subscription and closes its Done channel.
func (s *Session) Unsubscribe(sub *Subscription) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for i, existing := range s.subs {
		if existing == sub {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			sub.close()
			return
		}
	}
}

func (s *Session) emitSong(e SongChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendSong(e)
	}
}

func (s *Session) emitState(e StateChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendState(e)
	}
}

func (s *Session) emitTime(e TimeChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendTime(e)
	}
}

func (s *Session) emitPlaylist(e PlaylistChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendPlaylist(e)
	}
}
