package app

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/ayusman/handplay/internal/clock"
	"github.com/ayusman/handplay/internal/detector"
	"github.com/ayusman/handplay/internal/game"
	"github.com/ayusman/handplay/internal/gesture"
)

// ErrUnknownModule is returned for a module name that has no frame-driven game.
var ErrUnknownModule = errors.New("unknown module")

// FrameModules are the modules a Session can run, in menu order.
var FrameModules = []string{game.ModuleCounting, game.ModuleSocial, game.ModuleShapes}

// SessionState is a module-independent snapshot of a running game.
type SessionState struct {
	Module    string   `json:"module"`
	Target    string   `json:"target,omitempty"`
	Index     int      `json:"index"`
	Total     int      `json:"total"`
	Completed []string `json:"completed"`
	Attempts  int      `json:"attempts"`
	Cooling   bool     `json:"cooling"`
	Done      bool     `json:"done"`
}

// Session plays one module: every frame is classified the way the module
// needs and fed to its game driver. A Session is safe for concurrent use, but
// frames are expected in order.
type Session struct {
	module string
	clock  clock.Clock

	mu       sync.Mutex
	counting *game.Driver[int]
	labels   *game.Driver[gesture.Label]
	motion   *gesture.MotionDetector
	closed   bool
}

// NewSession creates a session for module. Call Start to present the first target.
func NewSession(module string, opts game.Options) (*Session, error) {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}

	s := &Session{module: module, clock: opts.Clock}
	switch module {
	case game.ModuleCounting:
		s.counting = game.NewCounting(opts)
	case game.ModuleSocial:
		s.labels = game.NewSocial(opts)
		s.motion = gesture.NewMotionDetector()
	case game.ModuleShapes:
		s.labels = game.NewShapes(opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownModule, module)
	}
	return s, nil
}

// Module returns the module this session plays.
func (s *Session) Module() string {
	return s.module
}

// Start presents the first target.
func (s *Session) Start() {
	if s.counting != nil {
		s.counting.Present()
		return
	}
	s.labels.Present()
}

// HandleFrame classifies one frame and feeds the result to the game. It
// returns what was recognized: a finger count, a gesture name, or "none".
// A zero frame timestamp is read from the session clock.
func (s *Session) HandleFrame(frame detector.Frame) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return gesture.None.String()
	}

	now := frame.Timestamp
	if now.IsZero() {
		now = s.clock.Now()
	}

	switch s.module {
	case game.ModuleCounting:
		n := gesture.RecognizeCounting(frame.Hands)
		s.counting.Observe(n)
		if n == 0 {
			return gesture.None.String()
		}
		return strconv.Itoa(n)

	case game.ModuleSocial:
		// The motion detector sees every frame so its history stays continuous.
		moved := s.motion.Observe(frame.Hands, now)
		l := gesture.Override(gesture.RecognizeSocial(frame.Hands), moved)
		s.labels.Observe(l)
		return l.String()

	default:
		l := gesture.RecognizeShape(frame.Hands)
		s.labels.Observe(l)
		return l.String()
	}
}

// State returns a snapshot of the game.
func (s *Session) State() SessionState {
	if s.counting != nil {
		return snapshot(s.counting.State(), func(n int) string { return strconv.Itoa(n) })
	}
	return snapshot(s.labels.State(), func(l gesture.Label) string { return string(l) })
}

// Close stops the game. Frames handled after Close are ignored.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	if s.counting != nil {
		s.counting.Close()
	}
	if s.labels != nil {
		s.labels.Close()
	}
}

func snapshot[T comparable](st game.DriverState[T], name func(T) string) SessionState {
	out := SessionState{
		Module:    st.Module,
		Index:     st.Index,
		Total:     st.Total,
		Completed: make([]string, len(st.Completed)),
		Attempts:  st.Attempts,
		Cooling:   st.Cooling,
		Done:      st.Done,
	}
	if !st.Done {
		out.Target = name(st.Target)
	}
	for i, t := range st.Completed {
		out.Completed[i] = name(t)
	}
	return out
}
