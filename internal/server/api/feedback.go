package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/ayusman/handplay/internal/feedback"
	"github.com/ayusman/handplay/internal/game"
	"github.com/ayusman/handplay/internal/store"
)

// Feedback submissions are also recorded in the session's progress log.
const (
	FeedbackModule   = "feedback-class"
	FeedbackActivity = "form_submission"
)

// FeedbackHandler accepts and lists parent/teacher feedback.
type FeedbackHandler struct {
	store *store.Store
}

// NewFeedbackHandler creates a new FeedbackHandler with the given store.
func NewFeedbackHandler(s *store.Store) *FeedbackHandler {
	return &FeedbackHandler{store: s}
}

type createFeedbackRequest struct {
	feedback.Form
	SessionID string `json:"sessionId"`
}

type listFeedbackResponse struct {
	Feedback []*store.Feedback `json:"feedback"`
}

// Create handles POST /api/feedback. Invalid forms get a 400 with the
// per-field messages.
func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	req := createFeedbackRequest{Form: feedback.NewForm()}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := req.Form.Validate(); err != nil {
		var verr feedback.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid feedback", Fields: verr})
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	if req.SessionID != "" {
		if _, err := h.store.Sessions().Get(ctx, req.SessionID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Session not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to get session")
			return
		}
	}

	fb, err := h.store.Feedback().Create(ctx, req.SessionID, req.Form.Normalize())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save feedback")
		return
	}

	if req.SessionID != "" {
		_, err := h.store.Progress().Log(ctx, req.SessionID, game.Progress{
			Module:   FeedbackModule,
			Activity: FeedbackActivity,
			Success:  true,
			Attempts: 1,
		})
		if err != nil {
			log.Printf("Failed to log feedback progress: %v", err)
		}
	}

	writeJSON(w, http.StatusCreated, fb)
}

// List handles GET /api/feedback.
func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.Feedback().List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list feedback")
		return
	}
	if items == nil {
		items = []*store.Feedback{}
	}
	writeJSON(w, http.StatusOK, listFeedbackResponse{Feedback: items})
}
