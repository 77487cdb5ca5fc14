package gesture

import (
	"math"

	"github.com/ayusman/handplay/internal/detector"
)

// Finger thresholds, in normalized frame units. They were tuned by hand
// against children's hands at webcam distance; keep them in sync with the
// fixtures in testdata when recalibrating.
const (
	// ThumbSpreadRatio scales hand width into the thumb-to-index distance
	// above which the thumb counts as splayed out.
	ThumbSpreadRatio = 0.30
	// MinThumbSpread is the floor for the splay distance on very small hands.
	MinThumbSpread = 0.015
	// ThumbSideRatio scales hand width into the sideways thumb displacement
	// from the wrist that counts as extended.
	ThumbSideRatio = 0.15
	// MinThumbSide is the floor for the sideways displacement.
	MinThumbSide = 0.02
	// FingerRaiseMargin is how far a fingertip must sit above its PIP joint.
	FingerRaiseMargin = 0.02
)

var (
	fingerTips = [4]int{detector.IndexTip, detector.MiddleTip, detector.RingTip, detector.PinkyTip}
	fingerPIPs = [4]int{detector.IndexPIP, detector.MiddlePIP, detector.RingPIP, detector.PinkyPIP}
)

// CountFingers returns how many digits of the hand are extended, 0 to 5.
// Hands without a full landmark set count as 0.
func CountFingers(hand detector.Hand) int {
	if !hand.Valid() {
		return 0
	}

	count := 0
	if thumbExtended(hand) {
		count++
	}

	for i := range fingerTips {
		tip := hand.Points[fingerTips[i]]
		pip := hand.Points[fingerPIPs[i]]
		if tip.Y < pip.Y-FingerRaiseMargin {
			count++
		}
	}

	return count
}

// thumbExtended accepts either a thumb splayed away from the index knuckle or
// one pushed sideways past the wrist on the outer side of the hand.
func thumbExtended(hand detector.Hand) bool {
	width := hand.Width()
	tip := hand.Points[detector.ThumbTip]
	wrist := hand.Points[detector.Wrist]

	spread := detector.Distance(tip, hand.Points[detector.IndexMCP])
	if spread > math.Max(MinThumbSpread, width*ThumbSpreadRatio) {
		return true
	}

	side := math.Max(MinThumbSide, width*ThumbSideRatio)
	switch hand.Handedness {
	case detector.Left:
		return wrist.X-tip.X > side
	case detector.Right:
		return tip.X-wrist.X > side
	}
	return false
}
