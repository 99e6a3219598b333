package slides

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/slidedeck/internal/deck"
	"github.com/jask/slidedeck/internal/theme"
)

// Title is a centered title card.
type Title struct{}

func (Title) Render(p deck.Props, width, height int) string {
	accent := theme.AccentFor(p.String("accent"), p.Int("section"))
	lines := make([]string, 0, 4)
	if sec := p.Int("section"); sec > 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Muted).Render(fmt.Sprintf("SECTION %02d", sec)), "")
	}
	lines = append(lines, lipgloss.NewStyle().
		Bold(true).
		Foreground(accent).
		Border(lipgloss.ThickBorder(), false, false, true, false).
		BorderForeground(accent).
		Padding(0, 2).
		Render(p.String("title")))
	if sub := p.String("subtitle"); sub != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(theme.Subtext0).Render(sub))
	}
	block := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block)
}
