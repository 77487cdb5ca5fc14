package gesture

import (
	"math"
	"time"

	"github.com/ayusman/handplay/internal/detector"
)

// Motion detection parameters.
const (
	// HistorySize is the number of wrist samples kept per axis.
	HistorySize = 20
	// WaveStep is the minimum horizontal move after a direction change for
	// the change to count toward a wave.
	WaveStep = 0.03
	// WaveReversals is the number of direction changes that make a wave.
	WaveReversals = 2
	// RaiseLift is the net upward wrist travel across the window that makes a raise.
	RaiseLift = 0.18
	// MotionCooldown is the minimum time between two triggers of the same detector.
	MotionCooldown = 1500 * time.Millisecond
)

// Sample is one wrist coordinate observation.
type Sample struct {
	Value float64
	At    time.Time
}

// History is a bounded FIFO of samples plus the time its detector last fired.
type History struct {
	samples     []Sample
	lastTrigger time.Time
}

// Push appends a sample, evicting the oldest once HistorySize is reached.
func (h *History) Push(s Sample) {
	if len(h.samples) >= HistorySize {
		copy(h.samples, h.samples[1:])
		h.samples = h.samples[:HistorySize-1]
	}
	h.samples = append(h.samples, s)
}

// Len returns the number of buffered samples.
func (h *History) Len() int {
	return len(h.samples)
}

// Samples returns a copy of the buffered samples, oldest first.
func (h *History) Samples() []Sample {
	out := make([]Sample, len(h.samples))
	copy(out, h.samples)
	return out
}

// cooledDown reports whether the detector may fire again at now.
// A detector that never fired is always ready.
func (h *History) cooledDown(now time.Time) bool {
	return h.lastTrigger.IsZero() || now.Sub(h.lastTrigger) > MotionCooldown
}

// reversals counts direction changes whose new step exceeds WaveStep.
func (h *History) reversals() int {
	n := 0
	for i := 2; i < len(h.samples); i++ {
		d1 := h.samples[i-1].Value - h.samples[i-2].Value
		d2 := h.samples[i].Value - h.samples[i-1].Value
		if d1*d2 < 0 && math.Abs(d2) > WaveStep {
			n++
		}
	}
	return n
}

// lift returns first minus last sample, positive when the value decreased.
func (h *History) lift() float64 {
	if len(h.samples) < 2 {
		return 0
	}
	return h.samples[0].Value - h.samples[len(h.samples)-1].Value
}

// MotionDetector watches the primary hand's wrist for waves and raises.
// One detector lives for a whole module session; its cooldowns are not reset
// when the game target changes.
type MotionDetector struct {
	xs History
	ys History
}

// NewMotionDetector creates a detector with empty histories.
func NewMotionDetector() *MotionDetector {
	return &MotionDetector{}
}

// Observe records the wrist of the first hand and reports Bye for a wave or
// Hello for a raise, or None. Frames without a usable hand leave the
// histories untouched.
func (m *MotionDetector) Observe(hands []detector.Hand, now time.Time) Label {
	if len(hands) == 0 || !hands[0].Valid() {
		return None
	}

	wrist := hands[0].Points[detector.Wrist]
	m.xs.Push(Sample{Value: wrist.X, At: now})
	m.ys.Push(Sample{Value: wrist.Y, At: now})

	if m.xs.reversals() >= WaveReversals && m.xs.cooledDown(now) {
		m.xs.lastTrigger = now
		return Bye
	}

	// Image y grows downward, so a raise is a positive first-minus-last.
	if m.ys.lift() > RaiseLift && m.ys.cooledDown(now) {
		m.ys.lastTrigger = now
		return Hello
	}

	return None
}

// Override returns the motion label when one fired, else the static label.
func Override(static, motion Label) Label {
	if motion != None {
		return motion
	}
	return static
}
