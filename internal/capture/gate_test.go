package capture

import (
	"testing"
	"time"

	"gocv.io/x/gocv"
)

var gateStart = time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

func TestNewActivityGate(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		want      float64
	}{
		{name: "explicit threshold", threshold: 2.5, want: 2.5},
		{name: "zero uses default", threshold: 0, want: DefaultChangePercent},
		{name: "negative uses default", threshold: -1, want: DefaultChangePercent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewActivityGate(tt.threshold)
			defer g.Close()

			if g.threshold != tt.want {
				t.Errorf("threshold = %f, want %f", g.threshold, tt.want)
			}
			if g.Active() {
				t.Error("gate should start closed")
			}
			if g.FPS() != IdleFPS {
				t.Errorf("FPS() = %d, want %d", g.FPS(), IdleFPS)
			}
		})
	}
}

func TestActivityGate_TouchAndIdle(t *testing.T) {
	g := NewActivityGate(1.0)
	defer g.Close()

	active, switched := g.Touch(gateStart)
	if !active || !switched {
		t.Errorf("Touch() = %v, %v, want true, true", active, switched)
	}
	if g.FPS() != ActiveFPS {
		t.Errorf("FPS() = %d, want %d", g.FPS(), ActiveFPS)
	}

	// Nil frames carry no motion; the gate stays open until the timeout.
	active, switched = g.Observe(nil, gateStart.Add(IdleTimeout))
	if !active || switched {
		t.Errorf("Observe() at timeout = %v, %v, want true, false", active, switched)
	}

	active, switched = g.Observe(nil, gateStart.Add(IdleTimeout+time.Millisecond))
	if active || !switched {
		t.Errorf("Observe() after timeout = %v, %v, want false, true", active, switched)
	}
}

func TestActivityGate_SetThreshold(t *testing.T) {
	g := NewActivityGate(1.0)
	defer g.Close()

	g.SetThreshold(3)
	g.SetThreshold(0)
	if g.threshold != 3 {
		t.Errorf("threshold = %f, want 3", g.threshold)
	}
}

func TestActivityGate_Motion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	g := NewActivityGate(1.0)
	defer g.Close()

	black := gocv.NewMatWithSize(DefaultHeight, DefaultWidth, gocv.MatTypeCV8UC3)
	defer black.Close()
	black.SetTo(gocv.NewScalar(0, 0, 0, 0))
	white := gocv.NewMatWithSize(DefaultHeight, DefaultWidth, gocv.MatTypeCV8UC3)
	defer white.Close()
	white.SetTo(gocv.NewScalar(255, 255, 255, 0))

	if active, _ := g.Observe(&black, gateStart); active {
		t.Error("first frame only sets the baseline")
	}
	if active, _ := g.Observe(&black, gateStart.Add(100*time.Millisecond)); active {
		t.Error("identical frames should not open the gate")
	}
	if active, switched := g.Observe(&white, gateStart.Add(200*time.Millisecond)); !active || !switched {
		t.Errorf("black to white = %v, %v, want true, true", active, switched)
	}

	g.Reset()
	if g.Active() {
		t.Error("Reset() should close the gate")
	}
	if active, _ := g.Observe(&white, gateStart.Add(300*time.Millisecond)); active {
		t.Error("first frame after Reset() only sets the baseline")
	}
}
