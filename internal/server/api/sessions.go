package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ayusman/handplay/internal/game"
	"github.com/ayusman/handplay/internal/store"
)

// SessionHandler handles play sessions and their progress log.
type SessionHandler struct {
	store *store.Store
}

// NewSessionHandler creates a new SessionHandler with the given store.
func NewSessionHandler(s *store.Store) *SessionHandler {
	return &SessionHandler{store: s}
}

type progressResponse struct {
	SessionID string                `json:"sessionId"`
	Entries   []*store.ProgressEntry `json:"entries"`
	Summary   []store.ModuleSummary  `json:"summary"`
}

// Create handles POST /api/sessions.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.Sessions().Create(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// Get handles GET /api/sessions/{id}.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// End handles POST /api/sessions/{id}/end.
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.lookup(w, r); !ok {
		return
	}

	sess, err := h.store.Sessions().End(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to end session")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// Progress handles GET /api/sessions/{id}/progress.
func (h *SessionHandler) Progress(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	entries, err := h.store.Progress().ListBySession(r.Context(), sess.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list progress")
		return
	}
	summary, err := h.store.Progress().Summary(r.Context(), sess.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to summarize progress")
		return
	}

	if entries == nil {
		entries = []*store.ProgressEntry{}
	}
	if summary == nil {
		summary = []store.ModuleSummary{}
	}
	writeJSON(w, http.StatusOK, progressResponse{SessionID: sess.ID, Entries: entries, Summary: summary})
}

// LogProgress handles POST /api/sessions/{id}/progress for games that run
// entirely in the browser.
func (h *SessionHandler) LogProgress(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req game.Progress
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Module == "" || req.Activity == "" {
		writeError(w, http.StatusBadRequest, "Module and activity are required")
		return
	}
	if req.Attempts < 1 {
		req.Attempts = 1
	}

	entry, err := h.store.Progress().Log(r.Context(), sess.ID, req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to log progress")
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// lookup loads the session named in the path, writing a 404 or 500 when it
// cannot.
func (h *SessionHandler) lookup(w http.ResponseWriter, r *http.Request) (*store.Session, bool) {
	sess, err := h.store.Sessions().Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return nil, false
	}
	return sess, true
}
