package session

import "testing"

func songA() Song {
	return Song{ID: "1", Index: 5, Name: "Alpha", FilePath: "u/1.mp3", Duration: 120}
}

func songB() Song {
	return Song{ID: "2", Index: 1, Name: "Beta", FilePath: "u/2.mp3", Duration: 90}
}

func songC() Song {
	return Song{ID: "3", Index: 9, Name: "Gamma", FilePath: "u/3.mp3", Duration: 200}
}

func TestNew_Empty(t *testing.T) {
	s := New()

	if s.CurrentSong() != nil {
		t.Error("CurrentSong() should be nil for a new session")
	}
	if s.IsPlaying() {
		t.Error("IsPlaying() should be false for a new session")
	}
	if s.CurrentTime() != 0 {
		t.Errorf("CurrentTime() = %v, want 0", s.CurrentTime())
	}
	if _, ok := s.RestoredTime(); ok {
		t.Error("RestoredTime() should be absent for a new session")
	}
	if len(s.Playlist()) != 0 {
		t.Errorf("len(Playlist()) = %d, want 0", len(s.Playlist()))
	}
}

func TestSetCurrentSong_ResetsTime(t *testing.T) {
	s := New()
	s.SetCurrentTime(42)

	a := songA()
	s.SetCurrentSong(&a)

	cur := s.CurrentSong()
	if cur == nil || cur.ID != "1" {
		t.Fatalf("CurrentSong() = %+v, want song 1", cur)
	}
	if s.CurrentTime() != 0 {
		t.Errorf("CurrentTime() = %v, want 0 after selection", s.CurrentTime())
	}
}

func TestSetCurrentSong_DoesNotTouchIntent(t *testing.T) {
	s := New()
	s.SetPlaying(true)

	a := songA()
	s.SetCurrentSong(&a)

	if !s.IsPlaying() {
		t.Error("SetCurrentSong must not change play intent")
	}
}

func TestSetCurrentSong_NilClearsSong(t *testing.T) {
	s := New()
	a := songA()
	s.SetCurrentSong(&a)

	s.SetCurrentSong(nil)

	if s.CurrentSong() != nil {
		t.Error("CurrentSong() should be nil after clearing")
	}
}

func TestSetCurrentSong_ClearsRestoredTime(t *testing.T) {
	s := New()
	s.Restore(songA(), 42)

	if got, ok := s.RestoredTime(); !ok || got != 42 {
		t.Fatalf("RestoredTime() = %v, %v; want 42, true", got, ok)
	}

	b := songB()
	s.SetCurrentSong(&b)

	if _, ok := s.RestoredTime(); ok {
		t.Error("explicit selection must clear the restored time")
	}
	if s.CurrentTime() != 0 {
		t.Errorf("CurrentTime() = %v, want 0", s.CurrentTime())
	}
}

func TestSetCurrentSong_StoresCopy(t *testing.T) {
	s := New()
	a := songA()
	s.SetCurrentSong(&a)

	a.Name = "mutated"

	if s.CurrentSong().Name != "Alpha" {
		t.Error("session must hold its own copy of the song")
	}
}

func TestRestore_RoundTrip(t *testing.T) {
	s := New()
	s.SetPlaying(true)

	s.Restore(songA(), 42)

	cur := s.CurrentSong()
	if cur == nil || cur.ID != "1" {
		t.Fatalf("CurrentSong() = %+v, want song 1", cur)
	}
	if s.CurrentTime() != 42 {
		t.Errorf("CurrentTime() = %v, want 42", s.CurrentTime())
	}
	if got, ok := s.RestoredTime(); !ok || got != 42 {
		t.Errorf("RestoredTime() = %v, %v; want 42, true", got, ok)
	}
	if s.IsPlaying() {
		t.Error("a restored session must not autoplay")
	}
}

func TestRestore_Idempotent(t *testing.T) {
	s := New()

	s.Restore(songA(), 42)
	s.Restore(songA(), 42)

	if s.CurrentTime() != 42 {
		t.Errorf("CurrentTime() = %v, want 42", s.CurrentTime())
	}
	if got, ok := s.RestoredTime(); !ok || got != 42 {
		t.Errorf("RestoredTime() = %v, %v; want 42, true", got, ok)
	}
}

func TestClearRestoredTime(t *testing.T) {
	s := New()
	s.Restore(songA(), 42)

	s.ClearRestoredTime()

	if _, ok := s.RestoredTime(); ok {
		t.Error("RestoredTime() should be absent after consumption")
	}
	if s.CurrentTime() != 42 {
		t.Errorf("CurrentTime() = %v, want 42 (unaffected)", s.CurrentTime())
	}
}

func TestSetPlaylist_DoesNotAffectCurrentSong(t *testing.T) {
	s := New()
	a := songA()
	s.SetCurrentSong(&a)
	s.SetPlaying(true)

	s.SetPlaylist([]Song{songB(), songC()})

	if s.CurrentSong().ID != "1" {
		t.Error("SetPlaylist must not change the current song")
	}
	if !s.IsPlaying() {
		t.Error("SetPlaylist must not change play intent")
	}
}

// PlayNext walks playlist order by ID, ignoring the non-monotonic Index
// values stamped on the songs.
func TestPlayNext_ByIdentityNotIndex(t *testing.T) {
	s := New()
	s.SetPlaylist([]Song{songA(), songB(), songC()})
	a := songA()
	s.SetCurrentSong(&a)

	s.PlayNext()
	if got := s.CurrentSong(); got == nil || got.ID != "2" {
		t.Fatalf("CurrentSong() = %+v, want song 2", got)
	}
	if !s.IsPlaying() {
		t.Error("PlayNext must force play intent on")
	}

	s.PlayNext()
	if got := s.CurrentSong(); got == nil || got.ID != "3" {
		t.Fatalf("CurrentSong() = %+v, want song 3", got)
	}

	// At the end of the list there is nothing more to play.
	s.PlayNext()
	if got := s.CurrentSong(); got == nil || got.ID != "3" {
		t.Errorf("CurrentSong() = %+v, want song 3 unchanged", got)
	}
	if s.IsPlaying() {
		t.Error("IsPlaying() should be false at end of playlist")
	}
}

func TestPlayNext_NoCurrentSong(t *testing.T) {
	s := New()
	s.SetPlaylist([]Song{songA(), songB()})
	s.SetPlaying(true)

	s.PlayNext()

	if s.CurrentSong() != nil {
		t.Error("PlayNext with no current song must be a no-op")
	}
	if !s.IsPlaying() {
		t.Error("PlayNext no-op must not touch play intent")
	}
}

func TestPlayNext_EmptyPlaylist(t *testing.T) {
	s := New()
	a := songA()
	s.SetCurrentSong(&a)
	s.SetPlaying(true)

	s.PlayNext()

	if s.CurrentSong().ID != "1" {
		t.Error("PlayNext with empty playlist must leave current song")
	}
	if !s.IsPlaying() {
		t.Error("PlayNext with empty playlist must not touch play intent")
	}
}

func TestPlayNext_SongRemovedFromPlaylist(t *testing.T) {
	s := New()
	x := Song{ID: "x", Name: "Gone", FilePath: "u/x.mp3"}
	s.SetCurrentSong(&x)
	s.SetPlaylist([]Song{songA(), songB()})
	s.SetPlaying(true)

	s.PlayNext()

	if s.CurrentSong().ID != "x" {
		t.Error("removed song must stay current")
	}
	if s.IsPlaying() {
		t.Error("IsPlaying() should be false when current song left the list")
	}
}

func TestPlayNext_ClearsRestoredTime(t *testing.T) {
	s := New()
	s.Restore(songA(), 42)
	s.SetPlaylist([]Song{songA(), songB()})

	s.PlayNext()

	if _, ok := s.RestoredTime(); ok {
		t.Error("advancing must clear the restored time for the new song")
	}
}

func TestPlayPrevious_Walks(t *testing.T) {
	s := New()
	s.SetPlaylist([]Song{songA(), songB(), songC()})
	c := songC()
	s.SetCurrentSong(&c)

	s.PlayPrevious()

	if got := s.CurrentSong(); got == nil || got.ID != "2" {
		t.Fatalf("CurrentSong() = %+v, want song 2", got)
	}
	if !s.IsPlaying() {
		t.Error("PlayPrevious must force play intent on")
	}
}

func TestPlayPrevious_AtHeadStops(t *testing.T) {
	s := New()
	s.SetPlaylist([]Song{songA(), songB()})
	a := songA()
	s.SetCurrentSong(&a)
	s.SetPlaying(true)

	s.PlayPrevious()

	if s.CurrentSong().ID != "1" {
		t.Error("PlayPrevious at head must leave current song")
	}
	if s.IsPlaying() {
		t.Error("IsPlaying() should be false at head of playlist")
	}
}

func TestPlayPrevious_SongRemovedFromPlaylist(t *testing.T) {
	s := New()
	x := Song{ID: "x", Name: "Gone", FilePath: "u/x.mp3"}
	s.SetCurrentSong(&x)
	s.SetPlaylist([]Song{songA(), songB()})
	s.SetPlaying(true)

	s.PlayPrevious()

	if s.CurrentSong().ID != "x" {
		t.Error("removed song must stay current")
	}
	if s.IsPlaying() {
		t.Error("IsPlaying() should be false when current song left the list")
	}
}

func TestSetCurrentTime_Overwrites(t *testing.T) {
	s := New()

	s.SetCurrentTime(30)
	s.SetCurrentTime(10) // backward seek is valid

	if s.CurrentTime() != 10 {
		t.Errorf("CurrentTime() = %v, want 10", s.CurrentTime())
	}
}

func TestSnapshot_Consistent(t *testing.T) {
	s := New()
	a := songA()
	s.SetCurrentSong(&a)
	s.SetCurrentTime(12.5)

	song, seconds := s.Snapshot()

	if song == nil || song.ID != "1" {
		t.Fatalf("Snapshot song = %+v, want song 1", song)
	}
	if seconds != 12.5 {
		t.Errorf("Snapshot time = %v, want 12.5", seconds)
	}
}

func TestPlaylist_ReturnsCopy(t *testing.T) {
	s := New()
	s.SetPlaylist([]Song{songA()})

	list := s.Playlist()
	list[0].Name = "mutated"

	if s.Playlist()[0].Name != "Alpha" {
		t.Error("Playlist() must return a copy")
	}
}
