package slides

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/slidedeck/internal/deck"
	"github.com/jask/slidedeck/internal/theme"
)

// Fallback stands in for a slide whose load failed. It takes no input, so
// the deck stays navigable around it.
type Fallback struct {
	Err error
}

func (f Fallback) Render(p deck.Props, width, height int) string {
	title := p.String("title")
	if title == "" {
		title = "Slide unavailable"
	}
	msg := "This slide could not be loaded."
	if f.Err != nil {
		msg = ansi.Truncate(f.Err.Error(), max(10, width-8), "…")
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Dimmed).
		Padding(1, 3).
		Render(lipgloss.JoinVertical(lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Subtext0).Bold(true).Render(title),
			"",
			lipgloss.NewStyle().Foreground(theme.Muted).Render(msg),
		))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// Placeholder is drawn while the active slide is still loading. spin is
// the current spinner frame.
func Placeholder(spin string, p deck.Props, width, height int) string {
	label := "Loading"
	if title := p.String("title"); title != "" {
		label += " " + title
	}
	line := lipgloss.NewStyle().Foreground(theme.Muted).Render(spin + " " + label + "…")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, line)
}
