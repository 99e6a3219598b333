package slides

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/slidedeck/internal/deck"
	"github.com/jask/slidedeck/internal/theme"
)

// TOC lists every slide and jumps to the highlighted one on enter.
type TOC struct {
	titles []string
	cursor int
}

func NewTOC(titles []string) *TOC {
	return &TOC{titles: titles}
}

func (t *TOC) Cursor() int { return t.cursor }

func (t *TOC) Render(p deck.Props, width, height int) string {
	accent := theme.AccentFor(p.String("accent"), p.Int("section"))
	title := p.String("title")
	if title == "" {
		title = "Contents"
	}
	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(accent).Render(title),
		"",
	}
	for i, name := range t.titles {
		marker := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == p.Index {
			style = style.Foreground(theme.Muted)
		}
		if i == t.cursor {
			marker = "> "
			style = style.Foreground(accent).Bold(true)
		}
		lines = append(lines, style.Render(fmt.Sprintf("%s%2d  %s", marker, i+1, name)))
	}
	if p.OnNavigate != nil {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(theme.Muted).Render("↑/↓ select · enter open"))
	}
	block := clipHeight(strings.Join(lines, "\n"), height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block)
}

func (t *TOC) HandleKey(p deck.Props, key string) (bool, error) {
	switch key {
	case "up", "k":
		if t.cursor > 0 {
			t.cursor--
		}
		return true, nil
	case "down", "j":
		if t.cursor < len(t.titles)-1 {
			t.cursor++
		}
		return true, nil
	case "enter":
		if p.OnNavigate == nil {
			return false, nil
		}
		return true, p.OnNavigate(t.cursor)
	}
	return false, nil
}
