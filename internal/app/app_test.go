package app

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/nano/internal/catalog"
	"github.com/llehouerou/nano/internal/element"
	"github.com/llehouerou/nano/internal/session"
)

type stubCatalog struct {
	files []catalog.AudioFile
	err   error
}

func (s stubCatalog) List(context.Context, string) ([]catalog.AudioFile, error) {
	return s.files, s.err
}

func testSongs() []session.Song {
	return []session.Song{
		{ID: "a", Index: 0, Name: "Alpha", FilePath: "u/a.mp3", Duration: 120},
		{ID: "b", Index: 1, Name: "Beta", FilePath: "u/b.mp3", Duration: 95},
		{ID: "c", Index: 2, Name: "Gamma", FilePath: "u/c.mp3", Duration: 61},
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	sess := session.New()
	m := New(sess, element.NewMock(), stubCatalog{}, "user-1")
	t.Cleanup(func() { sess.Unsubscribe(m.sub) })

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)
	updated, _ = m.Update(SongsLoadedMsg{Songs: testSongs()})
	return updated.(Model)
}

func keyMsg(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{59, "0:59"},
		{61, "1:01"},
		{120, "2:00"},
		{3599, "59:59"},
		{-3, "0:00"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.seconds); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestSongsLoadedSetsPlaylist(t *testing.T) {
	m := newTestModel(t)

	if m.loading {
		t.Error("loading should be cleared")
	}
	got := m.Session.Playlist()
	if len(got) != 3 || got[0].ID != "a" {
		t.Errorf("session playlist = %v", got)
	}
}

func TestCursorMovement(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(keyMsg("j"))
	m = updated.(Model)
	if m.cursor != 1 {
		t.Errorf("cursor = %d after j, want 1", m.cursor)
	}

	updated, _ = m.Update(keyMsg("k"))
	m = updated.(Model)
	if m.cursor != 0 {
		t.Errorf("cursor = %d after k, want 0", m.cursor)
	}

	// Does not move past the edges.
	updated, _ = m.Update(keyMsg("k"))
	m = updated.(Model)
	if m.cursor != 0 {
		t.Errorf("cursor = %d at top after k, want 0", m.cursor)
	}

	updated, _ = m.Update(keyMsg("G"))
	m = updated.(Model)
	if m.cursor != 2 {
		t.Errorf("cursor = %d after G, want 2", m.cursor)
	}
	updated, _ = m.Update(keyMsg("j"))
	m = updated.(Model)
	if m.cursor != 2 {
		t.Errorf("cursor = %d at bottom after j, want 2", m.cursor)
	}
}

func TestEnterSelectsSong(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(keyMsg("j"))
	m = updated.(Model)
	updated, _ = m.Update(keyMsg("enter"))
	m = updated.(Model)

	cur := m.Session.CurrentSong()
	if cur == nil || cur.ID != "b" {
		t.Fatalf("CurrentSong() = %+v, want song b", cur)
	}
	if !m.Session.IsPlaying() {
		t.Error("selecting a song should start playback")
	}
}

func TestSpaceTogglesIntent(t *testing.T) {
	m := newTestModel(t)

	// No current song: space is a no-op.
	updated, _ := m.Update(keyMsg(" "))
	m = updated.(Model)
	if m.Session.IsPlaying() {
		t.Error("space with no song should not start playback")
	}

	updated, _ = m.Update(keyMsg("enter"))
	m = updated.(Model)
	song := m.Session.CurrentSong()
	updated, _ = m.Update(SongChangedMsg{Song: song})
	m = updated.(Model)

	updated, _ = m.Update(keyMsg(" "))
	m = updated.(Model)
	if m.Session.IsPlaying() {
		t.Error("space should pause")
	}
}

func TestVolumeKeys(t *testing.T) {
	sess := session.New()
	mock := element.NewMock()
	m := New(sess, mock, stubCatalog{}, "user-1")
	defer sess.Unsubscribe(m.sub)

	m.Update(keyMsg("-"))
	if got := mock.Volume(); got != 0.95 {
		t.Errorf("Volume() = %v after -, want 0.95", got)
	}

	m.Update(keyMsg("+"))
	if got := mock.Volume(); got != 1.0 {
		t.Errorf("Volume() = %v after +, want 1.0", got)
	}
}

func TestErrorMsgShownInView(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(ErrorMsg{Message: "session save: disk full"})
	m = updated.(Model)

	if !strings.Contains(m.View(), "session save: disk full") {
		t.Error("error message not rendered")
	}
}

func TestViewMarksCurrentSong(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(keyMsg("enter"))
	m = updated.(Model)
	song := m.Session.CurrentSong()
	updated, _ = m.Update(SongChangedMsg{Song: song})
	m = updated.(Model)
	updated, _ = m.Update(StateChangedMsg{Playing: true})
	m = updated.(Model)

	view := m.View()
	if !strings.Contains(view, playSymbol) {
		t.Error("view does not mark the playing song")
	}
	if !strings.Contains(view, "Alpha") {
		t.Error("view does not list songs")
	}
}

func TestFocusFollowsRestoredSong(t *testing.T) {
	sess := session.New()
	sess.Restore(testSongs()[2], 30)
	m := New(sess, element.NewMock(), stubCatalog{}, "user-1")
	defer sess.Unsubscribe(m.sub)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)
	updated, _ = m.Update(SongsLoadedMsg{Songs: testSongs()})
	m = updated.(Model)

	if m.cursor != 2 {
		t.Errorf("cursor = %d, want the restored song's row 2", m.cursor)
	}
}
