package capture

import (
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Activity gate settings.
const (
	// IdleFPS is the capture rate while nothing moves in front of the camera.
	IdleFPS = 5
	// ActiveFPS is the capture rate while a child is playing.
	ActiveFPS = 15
	// IdleTimeout is how long without motion before the gate closes again.
	IdleTimeout = 2 * time.Second
	// DefaultChangePercent is the share of changed pixels that counts as motion.
	DefaultChangePercent = 1.0

	// GaussianBlurSize is the blur kernel applied before differencing.
	GaussianBlurSize = 21
	// DiffThreshold is the per-pixel intensity change that counts as changed.
	DiffThreshold = 25
)

// ActivityGate decides whether camera frames should reach the hand detector.
// It opens on frame-to-frame motion and closes after IdleTimeout without
// motion or hands, so the detector sidecar sleeps while nobody is playing.
type ActivityGate struct {
	threshold float64

	mu          sync.Mutex
	prevGray    gocv.Mat
	initialized bool
	active      bool
	lastMotion  time.Time
}

// NewActivityGate creates a closed gate. threshold is the percentage of
// pixels that must change between frames; values <= 0 use DefaultChangePercent.
func NewActivityGate(threshold float64) *ActivityGate {
	if threshold <= 0 {
		threshold = DefaultChangePercent
	}
	return &ActivityGate{
		threshold: threshold,
		prevGray:  gocv.NewMat(),
	}
}

// Observe compares frame with the previous one and updates the gate.
// It reports whether the gate is open and whether this frame changed that.
func (g *ActivityGate) Observe(frame *gocv.Mat, now time.Time) (active, switched bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.changePercent(frame) > g.threshold {
		return g.touchLocked(now)
	}

	if g.active && now.Sub(g.lastMotion) > IdleTimeout {
		g.active = false
		return false, true
	}
	return g.active, false
}

// Touch keeps the gate open without a frame, e.g. while hands are still
// visible but barely moving.
func (g *ActivityGate) Touch(now time.Time) (active, switched bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.touchLocked(now)
}

func (g *ActivityGate) touchLocked(now time.Time) (bool, bool) {
	g.lastMotion = now
	if g.active {
		return true, false
	}
	g.active = true
	return true, true
}

// Active reports whether the gate is open.
func (g *ActivityGate) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

// FPS returns the capture rate that suits the gate's state.
func (g *ActivityGate) FPS() int {
	if g.Active() {
		return ActiveFPS
	}
	return IdleFPS
}

// SetThreshold changes the motion threshold. Values <= 0 are ignored.
func (g *ActivityGate) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.threshold = threshold
}

// Reset closes the gate and drops the baseline frame.
func (g *ActivityGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resetLocked()
}

// Close releases the baseline frame.
func (g *ActivityGate) Close() {
	g.Reset()
}

func (g *ActivityGate) resetLocked() {
	if !g.prevGray.Empty() {
		g.prevGray.Close()
		g.prevGray = gocv.NewMat()
	}
	g.initialized = false
	g.active = false
}

// changePercent returns the percentage of pixels that differ from the
// previous frame after grayscale conversion and blurring. The first frame
// only becomes the baseline. Caller holds mu.
func (g *ActivityGate) changePercent(frame *gocv.Mat) float64 {
	if frame == nil || frame.Empty() {
		return 0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: GaussianBlurSize, Y: GaussianBlurSize}, 0, 0, gocv.BorderDefault)

	if !g.initialized {
		blurred.CopyTo(&g.prevGray)
		g.initialized = true
		return 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, g.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, DiffThreshold, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(thresh)) / float64(thresh.Rows()*thresh.Cols()) * 100
	blurred.CopyTo(&g.prevGray)
	return changed
}
