// Package server provides the HTTP server for handplay.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ayusman/handplay/internal/app"
	"github.com/ayusman/handplay/internal/clock"
	"github.com/ayusman/handplay/internal/game"
	"github.com/ayusman/handplay/internal/server/api"
	"github.com/ayusman/handplay/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	// App is the desktop camera pipeline. Nil serves browser play only.
	App *app.App
	// Clock drives browser game timers. Nil means the wall clock.
	Clock clock.Clock
	// BridgeGap picks bridge gap lengths. Nil means random gaps.
	BridgeGap game.GapFunc
}

// Server represents the HTTP server for the handplay application.
type Server struct {
	config  Config
	router  *mux.Router
	start   time.Time
	events  *EventHub
	bridges *api.BridgeHandler
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	if config.Clock == nil {
		config.Clock = clock.Real{}
	}

	s := &Server{
		config: config,
		router: mux.NewRouter(),
		start:  time.Now(),
		events: NewEventHub(),
	}
	if config.App != nil {
		config.App.AddSink(s.events)
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	r := s.router
	r.HandleFunc("/api/health", s.handleHealth)

	gestures := api.NewGestureHandler()
	r.HandleFunc("/api/gestures", gestures.List).Methods("GET")
	r.HandleFunc("/api/gestures/{name}", gestures.Get).Methods("GET")

	r.Handle("/api/events", s.events)

	if st := s.config.Store; st != nil {
		sessions := api.NewSessionHandler(st)
		s.bridges = api.NewBridgeHandler(st, api.BridgeConfig{
			Clock: s.config.Clock,
			Sink:  s.events,
			Gap:   s.config.BridgeGap,
		})

		r.HandleFunc("/api/sessions", sessions.Create).Methods("POST")
		r.HandleFunc("/api/sessions/{id}", sessions.Get).Methods("GET")
		r.HandleFunc("/api/sessions/{id}/end", func(w http.ResponseWriter, req *http.Request) {
			s.bridges.Stop(mux.Vars(req)["id"])
			sessions.End(w, req)
		}).Methods("POST")
		r.HandleFunc("/api/sessions/{id}/progress", sessions.Progress).Methods("GET")
		r.HandleFunc("/api/sessions/{id}/progress", sessions.LogProgress).Methods("POST")

		r.HandleFunc("/api/sessions/{id}/bridge", s.bridges.Start).Methods("POST")
		r.HandleFunc("/api/sessions/{id}/bridge", s.bridges.Get).Methods("GET")
		r.HandleFunc("/api/sessions/{id}/bridge/blocks", s.bridges.Place).Methods("POST")
		r.HandleFunc("/api/sessions/{id}/bridge/reset", s.bridges.Reset).Methods("POST")

		fb := api.NewFeedbackHandler(st)
		r.HandleFunc("/api/feedback", fb.Create).Methods("POST")
		r.HandleFunc("/api/feedback", fb.List).Methods("GET")
	}

	r.Handle("/api/sessions/{id}/play/{module}", NewPlayHandler(s.config.Store, s.config.Clock))

	if a := s.config.App; a != nil {
		desktop := api.NewDesktopHandler(a)
		r.HandleFunc("/api/status", desktop.Status).Methods("GET")
		r.HandleFunc("/api/module", desktop.StartModule).Methods("POST")
		r.HandleFunc("/api/module", desktop.StopModule).Methods("DELETE")
		r.HandleFunc("/api/camera", desktop.SetCamera).Methods("POST")
		r.Handle("/api/preview", NewStreamHandler(a.Preview()))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Events returns the hub that broadcasts game events to WebSocket clients.
func (s *Server) Events() *EventHub {
	return s.events
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if st := s.config.Store; st != nil {
		response["database"] = st.Dialect().Name()
		if err := st.Ping(r.Context()); err != nil {
			response["status"] = "degraded"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

// Close stops the bridge puzzles and disconnects event listeners.
func (s *Server) Close() {
	if s.bridges != nil {
		s.bridges.Close()
	}
	s.events.Close()
}
