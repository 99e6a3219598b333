package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/slidedeck/internal/deck"
	"github.com/jask/slidedeck/internal/slides"
	"github.com/jask/slidedeck/internal/theme"
)

var (
	headerStyle   = lipgloss.NewStyle().Foreground(theme.Text).Background(theme.Surface0).Bold(true)
	counterStyle  = lipgloss.NewStyle().Foreground(theme.Subtext0).Background(theme.Surface0)
	statusStyle   = lipgloss.NewStyle().Foreground(theme.Muted)
	errorStyle    = lipgloss.NewStyle().Foreground(theme.Error)
	outgoingStyle = lipgloss.NewStyle().Faint(true)
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	chromeLines   = 3
)

func (a *App) View() string {
	w, h := a.width, a.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	bodyH := max(1, h-chromeLines)
	return lipgloss.JoinVertical(lipgloss.Left,
		a.renderHeader(w),
		a.renderBody(w, bodyH),
		a.bar.ViewAs(a.position()),
		a.renderFooter(w),
	)
}

func (a *App) position() float64 {
	total := a.ctrl.Total()
	if total <= 1 {
		return 1
	}
	return float64(a.ctrl.Current()) / float64(total-1)
}

func (a *App) renderHeader(w int) string {
	cur := a.ctrl.Current()
	left := " " + a.title
	if t := a.ctrl.Props(cur).String("title"); t != "" {
		if a.title != "" {
			left += " · "
		}
		left += t
	}
	right := fmt.Sprintf("%d/%d ", cur+1, a.ctrl.Total())
	if sec := a.ctrl.Props(cur).Int("section"); sec > 0 {
		right = fmt.Sprintf("§%d  ", sec) + right
	}
	if d := a.router.PendingDigits(); d != "" {
		right = "go " + d + "  " + right
	}
	left = ansi.Truncate(left, max(0, w-ansi.StringWidth(right)-1), "…")
	gap := max(0, w-ansi.StringWidth(left)-ansi.StringWidth(right))
	return headerStyle.Render(left+strings.Repeat(" ", gap)) + counterStyle.Render(right)
}

func (a *App) renderFooter(w int) string {
	if a.jumping {
		return a.jump.View()
	}
	if a.status != "" && !a.help.ShowAll {
		style := statusStyle
		if a.statusErr {
			style = errorStyle
		}
		return style.Render(ansi.Truncate(a.status, w, "…"))
	}
	return a.help.View(a.keys)
}

// renderBody draws the slide area. During a transition the outgoing
// slide slides out dimmed, then the incoming one slides in, both offset
// horizontally by frame progress.
func (a *App) renderBody(w, h int) string {
	if a.help.ShowAll {
		h = max(1, h-len(a.keys.FullHelp()[0])+1)
	}
	f := a.ctrl.Frame()
	switch f.Phase {
	case deck.PhaseExiting:
		dx := int(f.Progress * float64(w))
		if f.Incoming > f.Outgoing {
			dx = -dx
		}
		return outgoingStyle.Render(shift(a.renderSlide(f.Outgoing, w, h), dx, w))
	case deck.PhaseEntering:
		dx := int((1 - f.Progress) * float64(w))
		if f.Incoming < f.Outgoing {
			dx = -dx
		}
		return shift(a.renderSlide(f.Incoming, w, h), dx, w)
	}
	return a.renderSlide(a.ctrl.Current(), w, h)
}

// renderSlide draws slide i at exactly w by h cells: the module if it
// loaded, a fallback if it failed, a placeholder while pending.
func (a *App) renderSlide(i, w, h int) string {
	props := a.ctrl.Props(i)
	var out string
	fut, ok := a.ctrl.Cache().Peek(i)
	switch {
	case !ok || !fut.Settled():
		out = slides.Placeholder(a.spin.View(), props, w, h)
	default:
		mod, err := fut.Result()
		if err != nil {
			out = slides.Fallback{Err: err}.Render(props, w, h)
		} else {
			out = mod.Render(props, w, h)
		}
	}
	return fit(out, w, h)
}

// fit clips or pads s to exactly w columns and h lines.
func fit(s string, w, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	for i, l := range lines {
		l = ansi.Truncate(l, w, "")
		if pad := w - ansi.StringWidth(l); pad > 0 {
			l += strings.Repeat(" ", pad)
		}
		lines[i] = l
	}
	return strings.Join(lines, "\n")
}

// shift moves each line of a w-wide block dx columns right, or left for
// negative dx, keeping the width fixed.
func shift(s string, dx, w int) string {
	if dx == 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if dx > 0 {
			l = strings.Repeat(" ", min(dx, w)) + ansi.Truncate(l, max(0, w-dx), "")
		} else {
			l = ansi.Cut(l, -dx, w)
			if pad := w - ansi.StringWidth(l); pad > 0 {
				l += strings.Repeat(" ", pad)
			}
		}
		lines[i] = l
	}
	return strings.Join(lines, "\n")
}
