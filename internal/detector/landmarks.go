// Package detector provides the hand landmark model and the frame sources that produce it.
package detector

import (
	"math"
	"time"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Handedness labels a detected hand as the user's left or right hand.
type Handedness string

const (
	Left  Handedness = "Left"
	Right Handedness = "Right"
)

// Point is a normalized landmark position. X and Y are in [0,1] relative to
// the frame, with Y growing downward. Z is carried through but unused.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}

// Hand is one detected hand in a single frame.
// Points is a slice so that partial detections can be represented; anything
// other than NumLandmarks points is treated as malformed by the classifiers.
type Hand struct {
	Points     []Point    `json:"points"`
	Handedness Handedness `json:"handedness"`
	Score      float64    `json:"score,omitempty"`
}

// Frame carries every hand seen in one camera frame.
type Frame struct {
	Hands     []Hand    `json:"hands"`
	Timestamp time.Time `json:"-"`
}

// Valid reports whether the hand carries a full landmark set.
func (h *Hand) Valid() bool {
	return h != nil && len(h.Points) == NumLandmarks
}

// Width returns max(x) - min(x) over all landmarks, or 0 for an empty hand.
func (h *Hand) Width() float64 {
	if h == nil || len(h.Points) == 0 {
		return 0
	}

	minX, maxX := h.Points[0].X, h.Points[0].X
	for _, p := range h.Points[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
	}
	return maxX - minX
}

// Distance returns the 2D Euclidean distance between two landmarks.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
