package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jask/slidedeck/internal/config"
	"github.com/jask/slidedeck/internal/deck"
	"github.com/jask/slidedeck/internal/theme"
)

// Recorder receives every change of the current slide.
type Recorder interface {
	Record(ctx context.Context, from, to int, at time.Time) error
}

type Options struct {
	Title      string
	Controller *deck.Controller
	Keys       config.KeysConfig
	ClickZones bool
	FPS        int
	Recorder   Recorder
	Logger     zerolog.Logger
	Now        func() time.Time
}

type navEvent struct {
	from, to int
	at       time.Time
}

// App is the presenter screen: one deck controller driven by a router.
type App struct {
	ctx    context.Context
	log    zerolog.Logger
	title  string
	ctrl   *deck.Controller
	router    *Router
	detach    func()
	unobserve func()
	keys   keyMap
	now    func() time.Time
	frame  time.Duration
	rec    Recorder

	help    help.Model
	spin    spinner.Model
	bar     progress.Model
	jump    textinput.Model
	jumping bool

	width, height int
	status        string
	statusErr     bool
	events        []navEvent
}

func New(ctx context.Context, opts Options) *App {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = 30
	}
	keys := newKeyMap(opts.Keys)

	ti := textinput.New()
	ti.Prompt = "jump to: "
	ti.Placeholder = "slide number or title"
	ti.CharLimit = 64

	bar := progress.New(progress.WithSolidFill(string(theme.Accent)), progress.WithoutPercentage())

	a := &App{
		ctx:    ctx,
		log:    opts.Logger,
		title:  opts.Title,
		ctrl:   opts.Controller,
		router: NewRouter(keys, opts.ClickZones),
		keys:   keys,
		now:    opts.Now,
		frame:  time.Second / time.Duration(fps),
		rec:    opts.Recorder,
		help:   help.New(),
		spin:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		bar:    bar,
		jump:   ti,
	}
	a.unobserve = a.ctrl.OnChange(func(from, to int) {
		a.events = append(a.events, navEvent{from: from, to: to, at: a.now()})
	})
	return a
}

// Init attaches the router to the controller. The router stays attached
// until quit or Close.
func (a *App) Init() tea.Cmd {
	if a.detach == nil {
		detach, err := a.router.Attach(a.ctrl)
		if err != nil {
			a.log.Warn().Err(err).Msg("attach input router")
		} else {
			a.detach = detach
		}
	}
	return tea.Batch(a.spin.Tick, a.waitSlide(a.ctrl.Current()))
}

// Close detaches input and stops observing the controller. Safe to call
// more than once.
func (a *App) Close() {
	if a.detach != nil {
		a.detach()
		a.detach = nil
	}
	if a.unobserve != nil {
		a.unobserve()
		a.unobserve = nil
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.bar.Width = m.Width
		a.help.Width = m.Width
		a.jump.Width = max(10, m.Width-len(a.jump.Prompt)-2)
		return a, nil
	case tea.KeyMsg:
		return a.handleKey(m)
	case tea.MouseMsg:
		gen := a.ctrl.Frame().Gen
		r := a.router.HandleClick(m, a.width)
		return a, a.afterRoute(r, gen)
	case frameMsg:
		if m.gen != a.ctrl.Frame().Gen {
			return a, nil
		}
		if !a.ctrl.Tick(m.at) {
			return a, a.drainEvents()
		}
		cmds := []tea.Cmd{a.frameCmd(a.ctrl.Frame().Gen), a.drainEvents()}
		if a.ctrl.Frame().Gen != m.gen {
			cmds = append(cmds, a.waitSlide(a.ctrl.Current()))
		}
		return a, tea.Batch(cmds...)
	case slideLoadedMsg:
		if fut, ok := a.ctrl.Cache().Peek(m.index); ok {
			if _, err := fut.Result(); err != nil && m.index == a.ctrl.Current() {
				a.setStatus(err.Error(), true)
			}
		}
		return a, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(m)
		return a, cmd
	case errMsg:
		a.log.Error().Err(m.error).Msg("rehearsal record")
		a.setStatus("rehearsal: "+m.Error(), true)
		return a, nil
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.jumping {
		return a.handleJumpKey(msg)
	}
	if msg.String() == "ctrl+c" {
		return a.quit()
	}
	gen := a.ctrl.Frame().Gen

	if a.router.Attached() && a.router.PendingDigits() == "" {
		if ok, err := a.offerToSlide(msg.String()); ok {
			return a, a.afterRoute(routed{action: actionNavigate, err: err}, gen)
		}
	}

	r := a.router.HandleKey(msg)
	switch r.action {
	case actionQuit:
		return a.quit()
	case actionHelp:
		a.help.ShowAll = !a.help.ShowAll
		return a, nil
	case actionJumpPrompt:
		a.jumping = true
		a.jump.SetValue("")
		return a, a.jump.Focus()
	}
	return a, a.afterRoute(r, gen)
}

// offerToSlide lets the active slide consume key first. Only the slide
// at Current is interactive, and only once it has loaded.
func (a *App) offerToSlide(key string) (bool, error) {
	cur := a.ctrl.Current()
	fut, ok := a.ctrl.Cache().Peek(cur)
	if !ok {
		return false, nil
	}
	mod, err := fut.Result()
	if err != nil || mod == nil {
		return false, nil
	}
	h, ok := mod.(deck.KeyHandler)
	if !ok {
		return false, nil
	}
	return h.HandleKey(a.ctrl.Props(cur), key)
}

func (a *App) handleJumpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		a.closeJump()
		return a, nil
	case "enter":
		query := a.jump.Value()
		a.closeJump()
		gen := a.ctrl.Frame().Gen
		idx, err := resolveJump(query, a.ctrl.Registry().Titles())
		if err == nil {
			err = a.ctrl.GoTo(idx)
		}
		return a, a.afterRoute(routed{action: actionNavigate, err: err}, gen)
	}
	var cmd tea.Cmd
	a.jump, cmd = a.jump.Update(msg)
	return a, cmd
}

func (a *App) closeJump() {
	a.jumping = false
	a.jump.Blur()
	a.jump.SetValue("")
}

func (a *App) quit() (tea.Model, tea.Cmd) {
	a.Close()
	return a, tea.Quit
}

// afterRoute turns the outcome of an input into commands: a frame loop
// if a new transition began, a load wait for the new slide, and
// rehearsal records.
func (a *App) afterRoute(r routed, prevGen uint64) tea.Cmd {
	var cmds []tea.Cmd
	if r.err != nil {
		var ie *deck.IndexError
		if errors.As(r.err, &ie) {
			a.setStatus(fmt.Sprintf("no slide %d (deck has %d)", ie.Index+1, ie.Len), true)
		} else {
			a.setStatus(r.err.Error(), true)
		}
	} else if r.action == actionNavigate {
		a.setStatus("", false)
	}
	f := a.ctrl.Frame()
	if f.Gen != prevGen {
		if f.Phase != deck.PhaseIdle {
			cmds = append(cmds, a.frameCmd(f.Gen))
		}
		cmds = append(cmds, a.waitSlide(a.ctrl.Current()))
	}
	cmds = append(cmds, a.drainEvents())
	return tea.Batch(cmds...)
}

func (a *App) frameCmd(gen uint64) tea.Cmd {
	return tea.Tick(a.frame, func(t time.Time) tea.Msg {
		return frameMsg{gen: gen, at: t}
	})
}

// waitSlide reports when slide i settles. It returns nil if it already
// has.
func (a *App) waitSlide(i int) tea.Cmd {
	fut, ok := a.ctrl.Cache().Peek(i)
	if !ok || fut.Settled() {
		return nil
	}
	ctx := a.ctx
	return func() tea.Msg {
		select {
		case <-fut.Done():
		case <-ctx.Done():
		}
		return slideLoadedMsg{index: i}
	}
}

func (a *App) drainEvents() tea.Cmd {
	if len(a.events) == 0 {
		return nil
	}
	events := a.events
	a.events = nil
	if a.rec == nil {
		return nil
	}
	rec, ctx := a.rec, a.ctx
	return func() tea.Msg {
		for _, ev := range events {
			if err := rec.Record(ctx, ev.from, ev.to, ev.at); err != nil {
				return errMsg{err}
			}
		}
		return nil
	}
}

func (a *App) setStatus(text string, isErr bool) {
	a.status = text
	a.statusErr = isErr
}
