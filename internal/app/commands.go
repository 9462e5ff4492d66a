package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/nano/internal/catalog"
	"github.com/llehouerou/nano/internal/errmsg"
)

const loadTimeout = 30 * time.Second

// loadSongs fetches the library from the catalog.
func (m Model) loadSongs() tea.Cmd {
	cat, userID := m.Catalog, m.UserID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		files, err := cat.List(ctx, userID)
		if err != nil {
			return ErrorMsg{Message: errmsg.Format(errmsg.OpLibraryLoad, err)}
		}
		return SongsLoadedMsg{Songs: catalog.Songs(files)}
	}
}

// watchSession waits for the next session event and converts it to a
// message. Update re-issues it after each event.
func (m Model) watchSession() tea.Cmd {
	sub := m.sub
	return func() tea.Msg {
		select {
		case e := <-sub.SongChanged:
			return SongChangedMsg{Song: e.Current}
		case e := <-sub.StateChanged:
			return StateChangedMsg{Playing: e.Playing}
		case e := <-sub.TimeChanged:
			return TimeChangedMsg{Seconds: e.Seconds}
		case e := <-sub.PlaylistChanged:
			return PlaylistChangedMsg{Songs: e.Songs}
		case <-sub.Done:
			return SessionClosedMsg{}
		}
	}
}

// watchErrors waits for the next reported failure on ch.
func watchErrors(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return ErrorMsg{Message: msg, From: ch}
	}
}
