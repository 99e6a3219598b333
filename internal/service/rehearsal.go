package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jask/slidedeck/internal/database/repository"
)

// ErrNoSession is returned by Record and Finish before Start.
var ErrNoSession = errors.New("rehearsal: no active session")

// RehearsalService appends each navigation of a running deck to the
// rehearsal log and summarises how long each slide was shown.
type RehearsalService struct {
	Sessions    *repository.SessionRepo
	Navigations *repository.NavigationRepo

	mu        sync.Mutex
	sessionID string
}

// Start opens a new session and returns its id.
func (s *RehearsalService) Start(ctx context.Context, deckTitle string, slides int, at time.Time) (string, error) {
	id := uuid.NewString()
	if err := s.Sessions.Insert(ctx, repository.Session{
		ID:         id,
		DeckTitle:  deckTitle,
		SlideCount: slides,
		StartedAt:  at,
	}); err != nil {
		return "", fmt.Errorf("start session: %w", err)
	}
	s.mu.Lock()
	s.sessionID = id
	s.mu.Unlock()
	return id, nil
}

func (s *RehearsalService) current() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessionID == "" {
		return "", ErrNoSession
	}
	return s.sessionID, nil
}

// Record appends one change of slide.
func (s *RehearsalService) Record(ctx context.Context, from, to int, at time.Time) error {
	id, err := s.current()
	if err != nil {
		return err
	}
	if _, err := s.Navigations.Insert(ctx, repository.Navigation{SessionID: id, From: from, To: to, At: at}); err != nil {
		return fmt.Errorf("record navigation: %w", err)
	}
	return nil
}

// Finish closes the active session.
func (s *RehearsalService) Finish(ctx context.Context, at time.Time) error {
	id, err := s.current()
	if err != nil {
		return err
	}
	if err := s.Sessions.End(ctx, id, at); err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	s.mu.Lock()
	s.sessionID = ""
	s.mu.Unlock()
	return nil
}

// SlideDwell is the time spent on one slide across sessions.
type SlideDwell struct {
	Index  int
	Visits int
	Total  time.Duration
}

// Mean is the average time per visit.
func (d SlideDwell) Mean() time.Duration {
	if d.Visits == 0 {
		return 0
	}
	return d.Total / time.Duration(d.Visits)
}

// Dwell summarises every finished and unfinished session of a deck.
func (s *RehearsalService) Dwell(ctx context.Context, deckTitle string) ([]SlideDwell, error) {
	sessions, err := s.Sessions.ListByDeck(ctx, deckTitle)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	navs := make(map[string][]repository.Navigation, len(sessions))
	for _, sess := range sessions {
		list, err := s.Navigations.ListBySession(ctx, sess.ID)
		if err != nil {
			return nil, fmt.Errorf("list navigations: %w", err)
		}
		navs[sess.ID] = list
	}
	return ComputeDwell(sessions, navs), nil
}

// ComputeDwell replays each session from slide 0. A visit lasts until the
// next navigation or the end of the session; the open visit of an
// unfinished session is not counted.
func ComputeDwell(sessions []repository.Session, navs map[string][]repository.Navigation) []SlideDwell {
	bySlide := map[int]*SlideDwell{}
	add := func(i int, d time.Duration) {
		if d < 0 {
			return
		}
		sd, ok := bySlide[i]
		if !ok {
			sd = &SlideDwell{Index: i}
			bySlide[i] = sd
		}
		sd.Visits++
		sd.Total += d
	}
	for _, sess := range sessions {
		cur, since := 0, sess.StartedAt
		for _, n := range navs[sess.ID] {
			add(cur, n.At.Sub(since))
			cur, since = n.To, n.At
		}
		if sess.EndedAt != nil {
			add(cur, sess.EndedAt.Sub(since))
		}
	}
	out := make([]SlideDwell, 0, len(bySlide))
	for _, sd := range bySlide {
		out = append(out, *sd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
