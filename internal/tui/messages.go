package tui

import "time"

type slideLoadedMsg struct {
	index int
}

// frameMsg drives one transition frame. Frames from a superseded
// transition carry a stale gen and are dropped.
type frameMsg struct {
	gen uint64
	at  time.Time
}

type errMsg struct{ error }
