package repository

import "time"

// Session is one run of a deck.
type Session struct {
	ID         string
	DeckTitle  string
	SlideCount int
	StartedAt  time.Time
	EndedAt    *time.Time
}

// Navigation is one change of the current slide within a session.
type Navigation struct {
	ID        int64
	SessionID string
	From      int
	To        int
	At        time.Time
}

func toMillis(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }
