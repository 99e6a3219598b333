package deck

import "time"

// Phase is the transition phase of the deck.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseExiting
	PhaseEntering
)

func (p Phase) String() string {
	switch p {
	case PhaseExiting:
		return "exiting"
	case PhaseEntering:
		return "entering"
	default:
		return "idle"
	}
}

// Frame is a snapshot of the transition in flight. Progress runs 0..1
// within the current phase. Outgoing is -1 when idle.
type Frame struct {
	Gen      uint64
	Phase    Phase
	Outgoing int
	Incoming int
	Progress float64
}

// Orchestrator plays the exit/enter pair between two slides. At most one
// transition is in flight; Begin on a busy orchestrator cancels the old one.
// Each Begin bumps the generation so frames scheduled for a cancelled
// transition can be told apart.
type Orchestrator struct {
	duration time.Duration
	gen      uint64
	phase    Phase
	from, to int
	start    time.Time
	progress float64
}

// NewOrchestrator starts idle on slide 0. A non-positive duration makes
// every transition complete immediately.
func NewOrchestrator(duration time.Duration) *Orchestrator {
	return &Orchestrator{duration: duration, from: -1}
}

func (o *Orchestrator) Gen() uint64 { return o.gen }

func (o *Orchestrator) Phase() Phase { return o.phase }

// Active is the one slide that receives input: the destination of the
// current or last transition.
func (o *Orchestrator) Active() int { return o.to }

// Begin starts a transition from -> to at now. It reports false, and does
// nothing, when to is already the destination.
func (o *Orchestrator) Begin(from, to int, now time.Time) bool {
	if to == o.to {
		return false
	}
	o.gen++
	o.from, o.to, o.start = from, to, now
	if o.duration <= 0 {
		o.phase = PhaseIdle
		o.from = -1
		return true
	}
	o.phase = PhaseExiting
	o.progress = 0
	return true
}

// Advance moves the transition to now and reports whether it is still
// running afterwards.
func (o *Orchestrator) Advance(now time.Time) (Frame, bool) {
	if o.phase == PhaseIdle {
		return o.Frame(), false
	}
	half := o.duration / 2
	elapsed := now.Sub(o.start)
	switch {
	case elapsed < half:
		o.phase = PhaseExiting
		o.progress = float64(elapsed) / float64(half)
	case elapsed < o.duration:
		o.phase = PhaseEntering
		o.progress = float64(elapsed-half) / float64(o.duration-half)
	default:
		o.phase = PhaseIdle
		o.from = -1
		return o.Frame(), false
	}
	if o.progress < 0 {
		o.progress = 0
	}
	return o.Frame(), true
}

// Frame returns the last computed state without advancing time.
func (o *Orchestrator) Frame() Frame {
	if o.phase == PhaseIdle {
		return Frame{Gen: o.gen, Phase: PhaseIdle, Outgoing: -1, Incoming: o.to, Progress: 1}
	}
	return Frame{Gen: o.gen, Phase: o.phase, Outgoing: o.from, Incoming: o.to, Progress: o.progress}
}
