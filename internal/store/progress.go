package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/handplay/internal/game"
)

// ProgressEntry is one row of the append-only learning progress log.
type ProgressEntry struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Module    string    `json:"module"`
	Activity  string    `json:"activity"`
	Success   bool      `json:"success"`
	Attempts  int       `json:"attempts"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProgressRepository appends to and reads the progress log.
type ProgressRepository struct {
	s *Store
}

// Progress returns the progress repository for this store.
func (s *Store) Progress() *ProgressRepository {
	return &ProgressRepository{s: s}
}

// Log appends an entry for the session.
func (r *ProgressRepository) Log(ctx context.Context, sessionID string, p game.Progress) (*ProgressEntry, error) {
	e := &ProgressEntry{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Module:    p.Module,
		Activity:  p.Activity,
		Success:   p.Success,
		Attempts:  p.Attempts,
		CreatedAt: r.s.timestamp(),
	}

	_, err := r.s.exec(ctx,
		`INSERT INTO learning_progress (id, session_id, module, activity, success, attempts, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, e.Module, e.Activity, e.Success, e.Attempts, e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("log progress %s/%s: %w", p.Module, p.Activity, err)
	}
	return e, nil
}

// ListBySession returns a session's entries in the order they were logged.
func (r *ProgressRepository) ListBySession(ctx context.Context, sessionID string) ([]*ProgressEntry, error) {
	rows, err := r.s.query(ctx,
		`SELECT id, session_id, module, activity, success, attempts, created_at
		 FROM learning_progress WHERE session_id = ? ORDER BY created_at, id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*ProgressEntry
	for rows.Next() {
		e := &ProgressEntry{}
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Module, &e.Activity, &e.Success, &e.Attempts, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ModuleSummary totals a session's successes for one module.
type ModuleSummary struct {
	Module    string `json:"module"`
	Successes int    `json:"successes"`
	Attempts  int    `json:"attempts"`
}

// Summary groups a session's successful entries by module.
func (r *ProgressRepository) Summary(ctx context.Context, sessionID string) ([]ModuleSummary, error) {
	rows, err := r.s.query(ctx,
		`SELECT module, COUNT(*), COALESCE(SUM(attempts), 0)
		 FROM learning_progress WHERE session_id = ? AND success = ?
		 GROUP BY module ORDER BY module`,
		sessionID, true,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ModuleSummary
	for rows.Next() {
		var m ModuleSummary
		if err := rows.Scan(&m.Module, &m.Successes, &m.Attempts); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Logger returns a game.ProgressLogger that appends to the session's log.
func (r *ProgressRepository) Logger(sessionID string) game.ProgressLogger {
	return game.ProgressFunc(func(ctx context.Context, p game.Progress) error {
		_, err := r.Log(ctx, sessionID, p)
		return err
	})
}
