package slides

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/slidedeck/internal/deck"
	"github.com/jask/slidedeck/internal/theme"
)

// Markdown renders a markdown body through glamour. The rendering is kept
// for the last width seen.
type Markdown struct {
	source string
	style  string
	width  int
	out    string
}

// NewMarkdown returns a slide for source. style is a glamour standard style
// name such as "dark" or "notty".
func NewMarkdown(source, style string) *Markdown {
	if style == "" {
		style = "dark"
	}
	return &Markdown{source: source, style: style}
}

func (m *Markdown) Render(p deck.Props, width, height int) string {
	accent := theme.AccentFor(p.String("accent"), p.Int("section"))
	var header string
	if title := p.String("title"); title != "" {
		header = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(accent).
			PaddingLeft(1).
			Render(title)
	}
	bodyW := max(20, width-4)
	body := m.rendered(bodyW)
	out := lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, header, body))
	return clipHeight(out, height)
}

func (m *Markdown) rendered(width int) string {
	if m.out != "" && m.width == width {
		return m.out
	}
	m.width = width
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		m.out = m.source
		return m.out
	}
	out, err := r.Render(m.source)
	if err != nil {
		m.out = m.source
		return m.out
	}
	m.out = strings.Trim(out, "\n")
	return m.out
}

// MarkdownFile loads a markdown slide from disk.
func MarkdownFile(path, style string) deck.Loader {
	return func(ctx context.Context) (deck.Module, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read markdown: %w", err)
		}
		return NewMarkdown(string(b), style), nil
	}
}

func clipHeight(s string, height int) string {
	if height <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}
