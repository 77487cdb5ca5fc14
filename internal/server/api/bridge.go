package api

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/ayusman/handplay/internal/clock"
	"github.com/ayusman/handplay/internal/game"
	"github.com/ayusman/handplay/internal/store"
)

// BridgeConfig holds the collaborators shared by every bridge puzzle.
type BridgeConfig struct {
	Clock clock.Clock
	// Sink receives every puzzle's events. May be nil.
	Sink game.Sink
	// Gap picks gap lengths. Nil means game.RandomGap.
	Gap game.GapFunc
}

// BridgeHandler runs one bridge builder puzzle per session. Clients drive it
// with block placements; there is no camera input.
type BridgeHandler struct {
	store  *store.Store
	config BridgeConfig

	mu      sync.Mutex
	bridges map[string]*game.Bridge
}

// NewBridgeHandler creates a new BridgeHandler with the given store.
func NewBridgeHandler(s *store.Store, config BridgeConfig) *BridgeHandler {
	return &BridgeHandler{
		store:   s,
		config:  config,
		bridges: make(map[string]*game.Bridge),
	}
}

type placeBlockRequest struct {
	Value int `json:"value"`
}

// Start handles POST /api/sessions/{id}/bridge. It replaces any puzzle the
// session already had.
func (h *BridgeHandler) Start(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sess, err := h.store.Sessions().Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}
	if !sess.Active() {
		writeError(w, http.StatusConflict, "Session has ended")
		return
	}

	b := game.NewBridge(game.Options{
		Clock:    h.config.Clock,
		Sink:     h.config.Sink,
		Progress: h.store.Progress().Logger(id),
	}, h.config.Gap)

	h.mu.Lock()
	old := h.bridges[id]
	h.bridges[id] = b
	h.mu.Unlock()

	if old != nil {
		old.Close()
	}
	writeJSON(w, http.StatusCreated, b.State())
}

// Get handles GET /api/sessions/{id}/bridge.
func (h *BridgeHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, b.State())
}

// Place handles POST /api/sessions/{id}/bridge/blocks.
func (h *BridgeHandler) Place(w http.ResponseWriter, r *http.Request) {
	b, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req placeBlockRequest
	if !decodeBody(w, r, &req) {
		return
	}

	state, err := b.Place(req.Value)
	if err != nil {
		if errors.Is(err, game.ErrInvalidBlock) {
			writeError(w, http.StatusBadRequest, "Block value must be between 1 and 4")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to place block")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Reset handles POST /api/sessions/{id}/bridge/reset.
func (h *BridgeHandler) Reset(w http.ResponseWriter, r *http.Request) {
	b, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, b.Reset())
}

// Stop closes the session's puzzle, if any.
func (h *BridgeHandler) Stop(sessionID string) {
	h.mu.Lock()
	b := h.bridges[sessionID]
	delete(h.bridges, sessionID)
	h.mu.Unlock()

	if b != nil {
		b.Close()
	}
}

// Close closes every puzzle.
func (h *BridgeHandler) Close() {
	h.mu.Lock()
	bridges := h.bridges
	h.bridges = make(map[string]*game.Bridge)
	h.mu.Unlock()

	for _, b := range bridges {
		b.Close()
	}
}

func (h *BridgeHandler) lookup(w http.ResponseWriter, r *http.Request) (*game.Bridge, bool) {
	h.mu.Lock()
	b, ok := h.bridges[mux.Vars(r)["id"]]
	h.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "No bridge puzzle for this session")
		return nil, false
	}
	return b, true
}
