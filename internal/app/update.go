package app

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case SongsLoadedMsg:
		m.songs = msg.Songs
		m.loading = false
		m.Session.SetPlaylist(msg.Songs)
		m.focusCurrent()
		return m, nil

	case SongChangedMsg:
		m.current = msg.Song
		if msg.Song != nil {
			m.position = 0
		}
		m.focusCurrent()
		return m, m.watchSession()

	case StateChangedMsg:
		m.playing = msg.Playing
		return m, m.watchSession()

	case TimeChangedMsg:
		m.position = msg.Seconds
		return m, m.watchSession()

	case PlaylistChangedMsg:
		// The session playlist is replaced by SongsLoadedMsg above, so
		// this only matters when another component swaps it.
		m.songs = msg.Songs
		return m, m.watchSession()

	case SessionClosedMsg:
		return m, tea.Quit

	case ErrorMsg:
		m.errorMsg = msg.Message
		if msg.From != nil {
			return m, watchErrors(msg.From)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.Session.Unsubscribe(m.sub)
		return m, tea.Quit

	case "j", "down":
		if m.cursor < len(m.songs)-1 {
			m.cursor++
		}

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case "g":
		m.cursor = 0

	case "G":
		if len(m.songs) > 0 {
			m.cursor = len(m.songs) - 1
		}

	case "enter":
		if m.cursor < len(m.songs) {
			song := m.songs[m.cursor]
			m.Session.SetCurrentSong(&song)
			m.Session.SetPlaying(true)
		}

	case " ":
		if m.current != nil {
			m.Session.SetPlaying(!m.Session.IsPlaying())
		}

	case "n":
		m.Session.PlayNext()

	case "p":
		m.Session.PlayPrevious()

	case "+", "=":
		m.Element.SetVolume(m.Element.Volume() + volumeStep)

	case "-":
		m.Element.SetVolume(m.Element.Volume() - volumeStep)
	}

	return m, nil
}

// focusCurrent moves the cursor to the playing song when the list has
// it, so the restored song is visible on startup.
func (m *Model) focusCurrent() {
	if m.current == nil {
		return
	}
	for i, s := range m.songs {
		if s.ID == m.current.ID {
			m.cursor = i
			return
		}
	}
}
