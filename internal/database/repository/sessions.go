package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SessionRepo handles sessions.
type SessionRepo struct {
	db *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

func (r *SessionRepo) Insert(ctx context.Context, s Session) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO sessions(id, deck_title, slide_count, started_at)
	VALUES(?, ?, ?, ?);
	`, s.ID, s.DeckTitle, s.SlideCount, toMillis(s.StartedAt))
	return err
}

func (r *SessionRepo) End(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE sessions SET ended_at = ? WHERE id = ?`, toMillis(at), id)
	return err
}

// Get returns nil when no session has id.
func (r *SessionRepo) Get(ctx context.Context, id string) (*Session, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, deck_title, slide_count, started_at, ended_at FROM sessions WHERE id = ?`, id)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListByDeck returns the sessions of a deck, oldest first.
func (r *SessionRepo) ListByDeck(ctx context.Context, deckTitle string) ([]Session, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, deck_title, slide_count, started_at, ended_at
	FROM sessions WHERE deck_title = ? ORDER BY started_at, id`, deckTitle)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(sc scanner) (Session, error) {
	var (
		s       Session
		started int64
		ended   sql.NullInt64
	)
	if err := sc.Scan(&s.ID, &s.DeckTitle, &s.SlideCount, &started, &ended); err != nil {
		return Session{}, err
	}
	s.StartedAt = fromMillis(started)
	if ended.Valid {
		t := fromMillis(ended.Int64)
		s.EndedAt = &t
	}
	return s, nil
}
