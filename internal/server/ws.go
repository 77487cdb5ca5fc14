package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"slices"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/ayusman/handplay/internal/app"
	"github.com/ayusman/handplay/internal/clock"
	"github.com/ayusman/handplay/internal/detector"
	"github.com/ayusman/handplay/internal/game"
	"github.com/ayusman/handplay/internal/store"
)

// SendBuffer is how many outgoing messages a WebSocket client may fall
// behind before new ones are dropped.
const SendBuffer = 64

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// PlayHandler plays a module against hand frames streamed by a browser.
// Each connection owns one app.Session; closing the socket ends the game.
type PlayHandler struct {
	store *store.Store
	clock clock.Clock
}

// NewPlayHandler creates a PlayHandler. With a store, the session must exist
// and progress is logged to it.
func NewPlayHandler(s *store.Store, c clock.Clock) *PlayHandler {
	if c == nil {
		c = clock.Real{}
	}
	return &PlayHandler{store: s, clock: c}
}

// ServeHTTP handles WebSocket upgrade requests. Clients send frames as JSON;
// the server sends game events.
func (h *PlayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID, module := vars["id"], vars["module"]

	if !slices.Contains(app.FrameModules, module) {
		http.Error(w, "Unknown module", http.StatusBadRequest)
		return
	}

	opts := game.Options{Clock: h.clock}
	if h.store != nil {
		sess, err := h.store.Sessions().Get(r.Context(), sessionID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				http.Error(w, "Session not found", http.StatusNotFound)
				return
			}
			http.Error(w, "Failed to get session", http.StatusInternalServerError)
			return
		}
		if !sess.Active() {
			http.Error(w, "Session has ended", http.StatusConflict)
			return
		}
		opts.Progress = h.store.Progress().Logger(sessionID)
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan game.Event, SendBuffer)
	opts.Sink = game.SinkFunc(func(ev game.Event) {
		select {
		case send <- ev:
		default:
			log.Printf("Dropping %s event for session %s: client too slow", ev.Kind, sessionID)
		}
	})

	play, err := app.NewSession(module, opts)
	if err != nil {
		log.Printf("Failed to start %s: %v", module, err)
		return
	}

	done := make(chan struct{})
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case ev := <-send:
				if err := conn.WriteJSON(ev); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	play.Start()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}

		frame, err := detector.DecodeFrame(data, h.clock.Now())
		if err != nil {
			log.Printf("Ignoring bad frame from session %s: %v", sessionID, err)
			continue
		}
		play.HandleFrame(frame)
	}

	play.Close()
	close(done)
	<-writerDone
}

// EventHub broadcasts game events to every connected WebSocket client. It is
// a game.Sink.
type EventHub struct {
	mu      sync.RWMutex
	clients map[*hubClient]struct{}
	closed  bool
}

type hubClient struct {
	conn *websocket.Conn
	send chan []byte
}

// NewEventHub creates an empty hub.
func NewEventHub() *EventHub {
	return &EventHub{clients: make(map[*hubClient]struct{})}
}

// Emit sends ev to every client. Clients whose buffer is full miss it.
func (h *EventHub) Emit(ev game.Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		log.Printf("Failed to encode %s event: %v", ev.Kind, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}

// Clients returns the number of connected clients.
func (h *EventHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *EventHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	c := &hubClient{conn: conn, send: make(chan []byte, SendBuffer)}
	if !h.register(c) {
		return
	}

	go func() {
		for msg := range c.send {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				conn.Close()
				return
			}
		}
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.unregister(c)
}

// Close disconnects every client.
func (h *EventHub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*hubClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.conn.Close()
	}
}

func (h *EventHub) register(c *hubClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *EventHub) unregister(c *hubClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}
