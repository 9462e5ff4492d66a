package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	playSymbol  = "▶"
	pauseSymbol = "⏸"
	filledBlock = "▓"
	emptyBlock  = "░"
)

var (
	colorPrimary = lipgloss.Color("#a78bfa")
	colorMuted   = lipgloss.Color("#808080")
	colorSuccess = lipgloss.Color("#42b883")
	colorError   = lipgloss.Color("#ff5555")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	cursorStyle  = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("#303030"))
	playingStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("nano"))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(m.spin.View())
		b.WriteString(" Loading library...")
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderList())
	}

	b.WriteString("\n")
	b.WriteString(m.renderPlayerBar())
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	return b.String()
}

func (m Model) renderList() string {
	if len(m.songs) == 0 {
		return mutedStyle.Render("Library is empty. Add songs with: nano upload FILE...") + "\n"
	}

	// Keep the cursor inside the visible window.
	visible := m.listHeight()
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(start+visible, len(m.songs))

	var b strings.Builder
	for i := start; i < end; i++ {
		song := m.songs[i]

		marker := "  "
		if m.current != nil && song.ID == m.current.ID {
			if m.playing {
				marker = playingStyle.Render(playSymbol) + " "
			} else {
				marker = playingStyle.Render(pauseSymbol) + " "
			}
		}

		duration := mutedStyle.Render(formatDuration(song.Duration))
		line := fmt.Sprintf("%s%s %s", marker, song.Name, duration)

		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderPlayerBar() string {
	if m.current == nil {
		return mutedStyle.Render("Nothing playing")
	}

	status := pauseSymbol
	if m.playing {
		status = playSymbol
	}

	posStr := formatDuration(m.position)
	durStr := formatDuration(m.current.Duration)
	volume := fmt.Sprintf("vol %d%%", int(m.Element.Volume()*100+0.5))

	// Format: ▶  Title  1:23 ▓▓▓░░░ 4:56  vol 80%
	fixed := lipgloss.Width(status) + 2 + lipgloss.Width(m.current.Name) + 2 +
		lipgloss.Width(posStr) + 1 + 1 + lipgloss.Width(durStr) + 2 + lipgloss.Width(volume)
	barWidth := m.width - fixed

	var bar string
	if barWidth >= 5 {
		var ratio float64
		if m.current.Duration > 0 {
			ratio = m.position / m.current.Duration
		}
		filled := min(int(float64(barWidth)*ratio), barWidth)
		bar = " " + strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, barWidth-filled) + " "
	} else {
		bar = " / "
	}

	return fmt.Sprintf("%s  %s  %s%s%s  %s",
		playingStyle.Render(status), m.current.Name, posStr, bar, durStr, mutedStyle.Render(volume))
}

func (m Model) renderStatusLine() string {
	if m.errorMsg != "" {
		return errorStyle.Render(m.errorMsg)
	}
	return mutedStyle.Render("enter play · space pause · n/p next/prev · +/- volume · q quit")
}

// listHeight is the number of list rows that fit between the header
// and the player bar.
func (m Model) listHeight() int {
	h := m.height - 5
	if h < 1 {
		return 1
	}
	return h
}

// formatDuration renders seconds as m:ss.
func formatDuration(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
