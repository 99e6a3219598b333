package tui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/jask/slidedeck/internal/config"
)

type keyMap struct {
	Next  key.Binding
	Prev  key.Binding
	First key.Binding
	Last  key.Binding
	Jump  key.Binding
	Help  key.Binding
	Quit  key.Binding
}

// newKeyMap binds the default keys plus any extras from config. Defaults
// are never removed, so arrows and space always work.
func newKeyMap(extra config.KeysConfig) keyMap {
	return keyMap{
		Next:  binding([]string{"right", " ", "l", "pgdown"}, extra.Next, "→/space", "next"),
		Prev:  binding([]string{"left", "h", "pgup", "backspace"}, extra.Prev, "←", "prev"),
		First: binding([]string{"home", "g"}, extra.First, "home/g", "first"),
		Last:  binding([]string{"end", "G"}, extra.Last, "end/G", "last"),
		Jump:  binding([]string{":"}, extra.Jump, ":", "jump"),
		Help:  binding([]string{"?"}, extra.Help, "?", "help"),
		Quit:  binding([]string{"q", "ctrl+c"}, extra.Quit, "q", "quit"),
	}
}

func binding(defaults, extra []string, helpKey, desc string) key.Binding {
	keys := slices.Clone(defaults)
	for _, k := range extra {
		k = normalizeKey(k)
		if k != "" && !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(helpKey, desc))
}

// normalizeKey maps config spellings to tea key strings.
func normalizeKey(k string) string {
	switch strings.TrimSpace(k) {
	case "":
		return ""
	case "space", "Space":
		return " "
	}
	k = strings.TrimSpace(k)
	if len(k) == 1 {
		return k
	}
	return strings.ToLower(k)
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Jump, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.First, k.Last},
		{k.Jump, k.Help, k.Quit},
	}
}
