package api

import (
	"errors"
	"net/http"

	"github.com/ayusman/handplay/internal/app"
)

// DesktopHandler controls the module played against the local camera.
type DesktopHandler struct {
	app *app.App
}

// NewDesktopHandler creates a new DesktopHandler for a.
func NewDesktopHandler(a *app.App) *DesktopHandler {
	return &DesktopHandler{app: a}
}

type startModuleRequest struct {
	Module string `json:"module"`
}

type cameraRequest struct {
	Enabled bool `json:"enabled"`
}

// Status handles GET /api/status.
func (h *DesktopHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.Status())
}

// StartModule handles POST /api/module.
func (h *DesktopHandler) StartModule(w http.ResponseWriter, r *http.Request) {
	var req startModuleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if _, err := h.app.StartModule(r.Context(), req.Module); err != nil {
		if errors.Is(err, app.ErrUnknownModule) {
			writeError(w, http.StatusBadRequest, "Unknown module")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to start module")
		return
	}
	writeJSON(w, http.StatusOK, h.app.Status())
}

// StopModule handles DELETE /api/module.
func (h *DesktopHandler) StopModule(w http.ResponseWriter, r *http.Request) {
	h.app.StopModule(r.Context())
	writeJSON(w, http.StatusOK, h.app.Status())
}

// SetCamera handles POST /api/camera.
func (h *DesktopHandler) SetCamera(w http.ResponseWriter, r *http.Request) {
	var req cameraRequest
	if !decodeBody(w, r, &req) {
		return
	}

	h.app.SetEnabled(req.Enabled)
	writeJSON(w, http.StatusOK, h.app.Status())
}
