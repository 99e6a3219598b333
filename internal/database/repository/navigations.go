package repository

import (
	"context"
	"database/sql"
)

// NavigationRepo handles navigation events.
type NavigationRepo struct {
	db *sql.DB
}

func NewNavigationRepo(db *sql.DB) *NavigationRepo { return &NavigationRepo{db: db} }

func (r *NavigationRepo) Insert(ctx context.Context, n Navigation) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	INSERT INTO navigations(session_id, from_index, to_index, at)
	VALUES(?, ?, ?, ?);
	`, n.SessionID, n.From, n.To, toMillis(n.At))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListBySession returns a session's events in the order they happened.
func (r *NavigationRepo) ListBySession(ctx context.Context, sessionID string) ([]Navigation, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, session_id, from_index, to_index, at
	FROM navigations WHERE session_id = ? ORDER BY at, id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Navigation
	for rows.Next() {
		var (
			n  Navigation
			at int64
		)
		if err := rows.Scan(&n.ID, &n.SessionID, &n.From, &n.To, &at); err != nil {
			return nil, err
		}
		n.At = fromMillis(at)
		out = append(out, n)
	}
	return out, rows.Err()
}
