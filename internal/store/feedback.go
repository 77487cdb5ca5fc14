package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/handplay/internal/feedback"
)

// Feedback is a stored feedback form.
type Feedback struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionId,omitempty"`
	feedback.Form
	CreatedAt time.Time `json:"createdAt"`
}

// FeedbackRepository stores feedback submissions.
type FeedbackRepository struct {
	s *Store
}

// Feedback returns the feedback repository for this store.
func (s *Store) Feedback() *FeedbackRepository {
	return &FeedbackRepository{s: s}
}

// Create stores a validated form. sessionID may be empty.
func (r *FeedbackRepository) Create(ctx context.Context, sessionID string, form feedback.Form) (*Feedback, error) {
	fb := &Feedback{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Form:      form,
		CreatedAt: r.s.timestamp(),
	}

	var session sql.NullString
	if sessionID != "" {
		session = sql.NullString{String: sessionID, Valid: true}
	}

	_, err := r.s.exec(ctx,
		`INSERT INTO feedback (id, session_id, user_name, email, rating, body, difficulty, would_recommend, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		fb.ID, session, form.UserName, form.Email, form.Rating, form.Text, string(form.Difficulty), form.WouldRecommend, fb.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return fb, nil
}

// Get retrieves a submission by ID.
func (r *FeedbackRepository) Get(ctx context.Context, id string) (*Feedback, error) {
	row := r.s.queryRow(ctx,
		`SELECT id, session_id, user_name, email, rating, body, difficulty, would_recommend, created_at
		 FROM feedback WHERE id = ?`,
		id,
	)

	fb, err := scanFeedback(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return fb, nil
}

// List returns submissions, newest first.
func (r *FeedbackRepository) List(ctx context.Context) ([]*Feedback, error) {
	rows, err := r.s.query(ctx,
		`SELECT id, session_id, user_name, email, rating, body, difficulty, would_recommend, created_at
		 FROM feedback ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Feedback
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, fb)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFeedback(sc scanner) (*Feedback, error) {
	fb := &Feedback{}
	var session sql.NullString
	var difficulty string

	err := sc.Scan(&fb.ID, &session, &fb.UserName, &fb.Email, &fb.Rating, &fb.Text, &difficulty, &fb.WouldRecommend, &fb.CreatedAt)
	if err != nil {
		return nil, err
	}

	fb.SessionID = session.String
	fb.Difficulty = feedback.Difficulty(difficulty)
	return fb, nil
}
