package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/slidedeck/internal/deck"
)

// Navigator is the part of the deck controller input sources drive.
type Navigator interface {
	Next() bool
	Prev() bool
	GoTo(i int) error
	Total() int
}

type action int

const (
	actionNone action = iota
	actionNavigate
	actionJumpPrompt
	actionHelp
	actionQuit
)

type routed struct {
	action action
	err    error
}

// Router turns keys and clicks into navigator calls. It does nothing
// until attached and again after the returned detach func runs.
type Router struct {
	keys       keyMap
	clickZones bool
	nav        Navigator
	digits     string
}

func NewRouter(keys keyMap, clickZones bool) *Router {
	return &Router{keys: keys, clickZones: clickZones}
}

// Attach binds the router to nav. A second Attach before detaching fails
// with deck.ErrRouterAttached.
func (r *Router) Attach(nav Navigator) (func(), error) {
	if r.nav != nil {
		return nil, deck.ErrRouterAttached
	}
	r.nav = nav
	detached := false
	return func() {
		if detached {
			return
		}
		detached = true
		r.nav = nil
		r.digits = ""
	}, nil
}

func (r *Router) Attached() bool { return r.nav != nil }

// PendingDigits is the slide number typed so far.
func (r *Router) PendingDigits() string { return r.digits }

func (r *Router) HandleKey(msg tea.KeyMsg) routed {
	if r.nav == nil {
		return routed{}
	}
	s := msg.String()
	if len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
		if len(r.digits) < 4 {
			r.digits += s
		}
		return routed{}
	}
	if r.digits != "" {
		switch s {
		case "enter":
			n, _ := strconv.Atoi(r.digits)
			r.digits = ""
			if err := r.nav.GoTo(n - 1); err != nil {
				return routed{action: actionNavigate, err: err}
			}
			return routed{action: actionNavigate}
		case "esc":
			r.digits = ""
			return routed{}
		}
		r.digits = ""
	}

	switch {
	case key.Matches(msg, r.keys.Next):
		r.nav.Next()
		return routed{action: actionNavigate}
	case key.Matches(msg, r.keys.Prev):
		r.nav.Prev()
		return routed{action: actionNavigate}
	case key.Matches(msg, r.keys.First):
		return routed{action: actionNavigate, err: r.nav.GoTo(0)}
	case key.Matches(msg, r.keys.Last):
		return routed{action: actionNavigate, err: r.nav.GoTo(r.nav.Total() - 1)}
	case key.Matches(msg, r.keys.Jump):
		return routed{action: actionJumpPrompt}
	case key.Matches(msg, r.keys.Help):
		return routed{action: actionHelp}
	case key.Matches(msg, r.keys.Quit):
		return routed{action: actionQuit}
	}
	return routed{}
}

// HandleClick maps a left click in the left or right third of a screen
// of the given width to prev or next.
func (r *Router) HandleClick(msg tea.MouseMsg, width int) routed {
	if r.nav == nil || !r.clickZones || width <= 0 {
		return routed{}
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return routed{}
	}
	switch {
	case msg.X < width/3:
		r.nav.Prev()
		return routed{action: actionNavigate}
	case msg.X >= width-width/3:
		r.nav.Next()
		return routed{action: actionNavigate}
	}
	return routed{}
}
