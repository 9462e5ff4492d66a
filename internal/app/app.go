// Package app is the terminal front end: a library list over the
// playback session, with a player bar mirroring the media element.
package app

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/nano/internal/catalog"
	"github.com/llehouerou/nano/internal/element"
	"github.com/llehouerou/nano/internal/session"
)

const volumeStep = 0.05

// Catalog is the subset of the catalog client the app needs.
type Catalog interface {
	List(ctx context.Context, userID string) ([]catalog.AudioFile, error)
}

// Model is the root application model.
type Model struct {
	Session *session.Session
	Element element.Element
	Catalog Catalog
	UserID  string

	sub     *session.Subscription
	errorCh []<-chan string

	songs    []session.Song
	cursor   int
	loading  bool
	spin     spinner.Model
	errorMsg string
	current  *session.Song
	playing  bool
	position float64

	width  int
	height int
}

// New builds the model around an already-hydrated session. errorChs
// are drained into the status line (persistence and playback
// failures).
func New(sess *session.Session, el element.Element, cat Catalog, userID string, errorChs ...<-chan string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	m := Model{
		Session: sess,
		Element: el,
		Catalog: cat,
		UserID:  userID,
		sub:     sess.Subscribe(),
		errorCh: errorChs,
		loading: true,
		spin:    sp,
	}

	// A hydrated session already has a current song before the library
	// list arrives.
	if song := sess.CurrentSong(); song != nil {
		m.current = song
		m.position = sess.CurrentTime()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick, m.loadSongs(), m.watchSession()}
	for _, ch := range m.errorCh {
		cmds = append(cmds, watchErrors(ch))
	}
	return tea.Batch(cmds...)
}
