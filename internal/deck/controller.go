package deck

import (
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
)

// Policy decides what a navigation request does while a transition is in
// flight.
type Policy string

const (
	// PolicySupersede cancels the in-flight transition and starts a new one
	// towards the latest target.
	PolicySupersede Policy = "supersede"
	// PolicyQueue lets the in-flight transition finish, then runs one more
	// towards the latest target. Only the latest request is kept.
	PolicyQueue Policy = "queue"
)

// ParsePolicy maps a config string to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicySupersede, "":
		return PolicySupersede, nil
	case PolicyQueue:
		return PolicyQueue, nil
	}
	return "", fmt.Errorf("unknown transition policy %q", s)
}

// State is a read-only view of the deck position.
type State struct {
	Current int
	Total   int
	Phase   Phase
}

// Controller owns the current slide index. It is not safe for concurrent
// use; drive it from the event loop.
type Controller struct {
	reg       *Registry
	sched     *Scheduler
	orch      *Orchestrator
	policy    Policy
	clock     func() time.Time
	log       zerolog.Logger
	slideNav  bool
	current   int
	pending   int
	queued    bool
	observers []*observer
}

type observer struct {
	fn func(from, to int)
}

type Option func(*Controller)

func WithPolicy(p Policy) Option { return func(c *Controller) { c.policy = p } }

func WithClock(now func() time.Time) Option { return func(c *Controller) { c.clock = now } }

func WithLogger(l zerolog.Logger) Option { return func(c *Controller) { c.log = l } }

// WithSlideNavigation controls whether slides get an OnNavigate callback.
func WithSlideNavigation(enabled bool) Option {
	return func(c *Controller) { c.slideNav = enabled }
}

// NewController starts on slide 0 and immediately loads it and its
// neighbours.
func NewController(reg *Registry, sched *Scheduler, orch *Orchestrator, opts ...Option) *Controller {
	c := &Controller{
		reg:      reg,
		sched:    sched,
		orch:     orch,
		policy:   PolicySupersede,
		clock:    time.Now,
		log:      zerolog.Nop(),
		slideNav: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.warm(0)
	return c
}

func (c *Controller) Current() int { return c.current }

func (c *Controller) Total() int { return c.reg.Len() }

func (c *Controller) Registry() *Registry { return c.reg }

func (c *Controller) Cache() *Cache { return c.sched.Cache() }

func (c *Controller) State() State {
	return State{Current: c.current, Total: c.reg.Len(), Phase: c.orch.Phase()}
}

// Frame is the transition frame to render.
func (c *Controller) Frame() Frame { return c.orch.Frame() }

// Target is the latest requested destination: the queued target if any,
// otherwise Current.
func (c *Controller) Target() int {
	if c.queued {
		return c.pending
	}
	return c.current
}

// OnChange registers fn to run each time Current changes. The returned
// func unregisters it.
func (c *Controller) OnChange(fn func(from, to int)) func() {
	o := &observer{fn: fn}
	c.observers = append(c.observers, o)
	return func() {
		c.observers = slices.DeleteFunc(c.observers, func(x *observer) bool { return x == o })
	}
}

// Next advances one slide. At the last slide it does nothing.
func (c *Controller) Next() bool {
	t := c.Target()
	if t >= c.reg.Len()-1 {
		return false
	}
	return c.request(t + 1)
}

// Prev goes back one slide. At the first slide it does nothing.
func (c *Controller) Prev() bool {
	t := c.Target()
	if t <= 0 {
		return false
	}
	return c.request(t - 1)
}

// GoTo jumps to slide i. Out-of-range indices are an error and leave the
// state untouched.
func (c *Controller) GoTo(i int) error {
	if i < 0 || i >= c.reg.Len() {
		return &IndexError{Index: i, Len: c.reg.Len()}
	}
	c.request(i)
	return nil
}

// Tick advances the transition to now. It reports whether animation is
// still running, including a queued transition that just started.
func (c *Controller) Tick(now time.Time) bool {
	if _, running := c.orch.Advance(now); running {
		return true
	}
	if c.queued {
		c.start(c.pending, now)
		return c.orch.Phase() != PhaseIdle
	}
	return false
}

// Props builds the slide contract for slide i, with callbacks bound to
// this controller.
func (c *Controller) Props(i int) Props {
	p := Props{
		Index:  i,
		Total:  c.reg.Len(),
		OnNext: func() { c.Next() },
		OnPrev: func() { c.Prev() },
	}
	if d, err := c.reg.Get(i); err == nil {
		p.Static = d.Props
	}
	if c.slideNav {
		p.OnNavigate = c.GoTo
	}
	return p
}

func (c *Controller) request(to int) bool {
	if to == c.Target() {
		return false
	}
	now := c.clock()
	if c.policy == PolicyQueue && c.orch.Phase() != PhaseIdle {
		if to == c.current {
			c.queued = false
		} else {
			c.pending, c.queued = to, true
		}
		c.log.Debug().Int("target", to).Msg("navigation queued")
		return true
	}
	c.start(to, now)
	return true
}

func (c *Controller) start(to int, now time.Time) {
	from := c.current
	if c.orch.Phase() != PhaseIdle {
		c.log.Debug().Int("from", from).Int("to", to).Msg("transition superseded")
	}
	c.current = to
	c.queued = false
	c.orch.Begin(from, to, now)
	c.warm(to)
	c.log.Debug().Int("from", from).Int("to", to).Msg("navigate")
	for _, o := range slices.Clone(c.observers) {
		o.fn(from, to)
	}
}

func (c *Controller) warm(i int) {
	if _, err := c.sched.Cache().Load(i); err != nil {
		c.log.Warn().Err(err).Int("slide", i).Msg("load current slide")
	}
	if idx := c.sched.Schedule(i); len(idx) > 0 {
		c.log.Debug().Ints("slides", idx).Msg("preload scheduled")
	}
}
