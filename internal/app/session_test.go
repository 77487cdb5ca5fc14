package app

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ayusman/handplay/internal/clock"
	"github.com/ayusman/handplay/internal/detector"
	"github.com/ayusman/handplay/internal/game"
	"github.com/ayusman/handplay/internal/gesture"
	"github.com/ayusman/handplay/testdata"
)

var start = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

type eventLog struct {
	mu     sync.Mutex
	events []game.Event
}

func (l *eventLog) Emit(e game.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) kinds(kind game.EventKind) []game.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []game.Event
	for _, e := range l.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func fixture(t *testing.T, name string) detector.Frame {
	t.Helper()
	f, err := testdata.LoadFrame(name)
	if err != nil {
		t.Fatalf("LoadFrame(%s) error = %v", name, err)
	}
	return f
}

func TestNewSession_UnknownModule(t *testing.T) {
	for _, module := range []string{game.ModuleBridgeBuilder, "drawing", ""} {
		if _, err := NewSession(module, game.Options{}); !errors.Is(err, ErrUnknownModule) {
			t.Errorf("NewSession(%q) error = %v, want ErrUnknownModule", module, err)
		}
	}
}

func TestSession_Counting(t *testing.T) {
	fake := clock.NewFake(start)
	log := &eventLog{}
	s, err := NewSession(game.ModuleCounting, game.Options{Clock: fake, Sink: log})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	defer s.Close()

	s.Start()
	if p := log.kinds(game.EventTargetPresented); len(p) != 1 || p[0].Target != "1" {
		t.Fatalf("target_presented = %+v", p)
	}

	tests := []struct {
		frame string
		want  string
	}{
		{"right_3", "3"},
		{"right_0", "none"},
		{"partial", "none"},
		{"right_1", "1"},
	}
	for _, tt := range tests {
		if got := s.HandleFrame(fixture(t, tt.frame)); got != tt.want {
			t.Errorf("HandleFrame(%s) = %q, want %q", tt.frame, got, tt.want)
		}
	}

	achieved := log.kinds(game.EventTargetAchieved)
	if len(achieved) != 1 || achieved[0].Target != "1" || achieved[0].Attempts != 2 {
		t.Fatalf("target_achieved = %+v, want target 1 after 2 attempts", achieved)
	}

	fake.Advance(game.SuccessCooldown)
	st := s.State()
	if st.Target != "2" || st.Index != 1 || st.Total != 10 || len(st.Completed) != 1 || st.Completed[0] != "1" {
		t.Errorf("State() = %+v", st)
	}

	s.HandleFrame(fixture(t, "right_2"))
	if st := s.State(); !st.Cooling {
		t.Errorf("State() after showing 2 = %+v, want cooling", st)
	}
}

// hold feeds the same frame for a full motion window, like a child keeping
// a pose in front of the camera, and returns the first recognized label.
func hold(t *testing.T, s *Session, name string) string {
	t.Helper()
	frame := fixture(t, name)
	first := s.HandleFrame(frame)
	for i := 1; i < gesture.HistorySize; i++ {
		s.HandleFrame(frame)
	}
	return first
}

func TestSession_SocialRaiseOverridesStatic(t *testing.T) {
	fake := clock.NewFake(start)
	log := &eventLog{}
	s, err := NewSession(game.ModuleSocial, game.Options{Clock: fake, Sink: log})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	defer s.Close()

	// Two raised fingers are no social gesture on their own; lifting the
	// hand makes it a hello.
	var got []string
	for i := 0; i < 6; i++ {
		p := detector.FingersPose(detector.Right, 2)
		p.WristY = 0.8 - float64(i)*0.04
		frame := detector.Frame{
			Hands:     []detector.Hand{p.Build()},
			Timestamp: start.Add(time.Duration(i) * 100 * time.Millisecond),
		}
		got = append(got, s.HandleFrame(frame))
	}

	for i, l := range got[:5] {
		if l != "none" {
			t.Errorf("frame %d = %q, want none", i, l)
		}
	}
	if got[5] != "hello" {
		t.Fatalf("frame 5 = %q, want hello", got[5])
	}
	if achieved := log.kinds(game.EventTargetAchieved); len(achieved) != 1 || achieved[0].Target != "hello" {
		t.Errorf("target_achieved = %+v", achieved)
	}
}

func TestSession_SocialStatic(t *testing.T) {
	fake := clock.NewFake(start)
	s, err := NewSession(game.ModuleSocial, game.Options{Clock: fake})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	defer s.Close()

	steps := []struct {
		frame string
		want  string
	}{
		{"right_5", "hello"},
		{"thumbs_up", "thumbs-up"},
		{"thumbs_down", "thumbs-down"},
	}
	for _, step := range steps {
		if got := hold(t, s, step.frame); got != step.want {
			t.Fatalf("hold(%s) = %q, want %q", step.frame, got, step.want)
		}
		fake.Advance(game.SuccessCooldown)
	}

	st := s.State()
	if st.Target != "bye" || len(st.Completed) != 3 {
		t.Errorf("State() = %+v, want bye next after 3 completed", st)
	}
}

func TestSession_Shapes(t *testing.T) {
	fake := clock.NewFake(start)
	log := &eventLog{}
	s, err := NewSession(game.ModuleShapes, game.Options{Clock: fake, Sink: log})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	defer s.Close()

	if got := s.HandleFrame(fixture(t, "right_5")); got != "square" {
		t.Fatalf("HandleFrame(right_5) = %q, want square", got)
	}
	fake.Advance(game.SuccessCooldown)
	if got := s.HandleFrame(fixture(t, "two_hands_10")); got != "rectangle" {
		t.Fatalf("HandleFrame(two_hands_10) = %q, want rectangle", got)
	}
	fake.Advance(game.SuccessCooldown)

	if !s.State().Done {
		t.Error("expected shapes module to be done")
	}
	if len(log.kinds(game.EventModuleComplete)) != 1 {
		t.Error("expected one module_complete event")
	}
}

func TestSession_FrameTimestampDefaultsToClock(t *testing.T) {
	fake := clock.NewFake(start)
	log := &eventLog{}
	s, err := NewSession(game.ModuleCounting, game.Options{Clock: fake, Sink: log})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	defer s.Close()

	fake.Advance(3 * time.Second)
	s.HandleFrame(fixture(t, "right_1"))

	achieved := log.kinds(game.EventTargetAchieved)
	if len(achieved) != 1 || !achieved[0].At.Equal(start.Add(3*time.Second)) {
		t.Errorf("target_achieved = %+v", achieved)
	}
}

func TestSession_Close(t *testing.T) {
	fake := clock.NewFake(start)
	log := &eventLog{}
	s, err := NewSession(game.ModuleCounting, game.Options{Clock: fake, Sink: log})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	s.HandleFrame(fixture(t, "right_1"))
	s.Close()

	before := len(log.events)
	fake.Advance(time.Minute)
	if got := s.HandleFrame(fixture(t, "right_2")); got != "none" {
		t.Errorf("HandleFrame after Close = %q, want none", got)
	}
	if len(log.events) != before {
		t.Errorf("events after Close: %+v", log.events[before:])
	}
	if fake.Pending() != 0 {
		t.Errorf("pending timers = %d, want 0", fake.Pending())
	}
}
