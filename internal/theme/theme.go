// Package theme holds the shared palette for deck chrome and slides.
package theme

import "github.com/charmbracelet/lipgloss"

// ---------------------------------------------------------------------------
// Catppuccin Mocha palette — true-color hex values
// https://catppuccin.com/palette
// ---------------------------------------------------------------------------

const (
	Rosewater lipgloss.Color = "#f5e0dc"
	Pink      lipgloss.Color = "#f5c2e7"
	Mauve     lipgloss.Color = "#cba6f7"
	Red       lipgloss.Color = "#f38ba8"
	Peach     lipgloss.Color = "#fab387"
	Yellow    lipgloss.Color = "#f9e2af"
	Green     lipgloss.Color = "#a6e3a1"
	Teal      lipgloss.Color = "#94e2d5"
	Sky       lipgloss.Color = "#89dceb"
	Sapphire  lipgloss.Color = "#74c7ec"
	Blue      lipgloss.Color = "#89b4fa"
	Lavender  lipgloss.Color = "#b4befe"

	Text     lipgloss.Color = "#cdd6f4"
	Subtext0 lipgloss.Color = "#a6adc8"
	Overlay1 lipgloss.Color = "#7f849c"
	Overlay0 lipgloss.Color = "#6c7086"
	Surface1 lipgloss.Color = "#45475a"
	Surface0 lipgloss.Color = "#313244"
	Base     lipgloss.Color = "#1e1e2e"
	Mantle   lipgloss.Color = "#181825"
)

// Semantic aliases.
const (
	Accent  = Pink
	Focus   = Lavender
	Success = Green
	Error   = Red
	Warning = Yellow
	Muted   = Overlay1
	Dimmed  = Surface1
)

// SectionAccents is the accent rotation for slides that do not name one,
// indexed by section number.
func SectionAccents() []lipgloss.Color {
	return []lipgloss.Color{
		Mauve, Teal, Peach, Blue,
		Green, Pink, Sapphire, Yellow,
	}
}

// AccentFor picks the accent for a slide: its own hex color if set,
// otherwise the section rotation, otherwise Accent.
func AccentFor(hex string, section int) lipgloss.Color {
	if hex != "" {
		return lipgloss.Color(hex)
	}
	if section > 0 {
		acc := SectionAccents()
		return acc[(section-1)%len(acc)]
	}
	return Accent
}
