package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ayusman/handplay/internal/gesture"
)

// GestureHandler serves the gesture display table the games use for prompts.
type GestureHandler struct{}

// NewGestureHandler creates a new GestureHandler.
func NewGestureHandler() *GestureHandler {
	return &GestureHandler{}
}

type listGesturesResponse struct {
	Gestures []gesture.Info `json:"gestures"`
}

// List handles GET /api/gestures.
func (h *GestureHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listGesturesResponse{Gestures: gesture.Catalog})
}

// Get handles GET /api/gestures/{name}.
func (h *GestureHandler) Get(w http.ResponseWriter, r *http.Request) {
	info, ok := gesture.Lookup(gesture.Label(mux.Vars(r)["name"]))
	if !ok {
		writeError(w, http.StatusNotFound, "Gesture not found")
		return
	}
	writeJSON(w, http.StatusOK, info)
}
