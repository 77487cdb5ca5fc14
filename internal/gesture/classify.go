package gesture

import "github.com/ayusman/handplay/internal/detector"

// Social gesture geometry, in normalized frame units.
const (
	// NamaskaarWristDistance is the wrist-to-wrist distance under which two
	// hands count as pressed together.
	NamaskaarWristDistance = 0.12
	// HelloLift is how far the middle fingertip must be above the wrist.
	HelloLift = 0.15
	// ThumbLift is how far the thumb tip must be above or below the wrist.
	ThumbLift = 0.1
)

// RecognizeCounting sums the extended fingers over every hand, 0 to 10.
func RecognizeCounting(hands []detector.Hand) int {
	total := 0
	for _, h := range hands {
		total += CountFingers(h)
	}
	return total
}

// RecognizeSocial classifies one frame into a social gesture. Rules are tried
// in priority order and the first match wins; nothing is remembered between
// frames. Single-hand rules look at the first hand only.
func RecognizeSocial(hands []detector.Hand) Label {
	if len(hands) == 0 {
		return None
	}

	if len(hands) == 2 && hands[0].Valid() && hands[1].Valid() {
		w0 := hands[0].Points[detector.Wrist]
		w1 := hands[1].Points[detector.Wrist]
		if detector.Distance(w0, w1) < NamaskaarWristDistance {
			return Namaskaar
		}
	}

	hand := hands[0]
	if !hand.Valid() {
		return None
	}

	p := hand.Points
	wrist := p[detector.Wrist]
	fingers := CountFingers(hand)

	if fingers >= 4 && p[detector.MiddleTip].Y < wrist.Y-HelloLift {
		return Hello
	}

	if fingers == 1 && p[detector.IndexTip].Y > p[detector.IndexPIP].Y {
		thumb := p[detector.ThumbTip]
		if thumb.Y < wrist.Y-ThumbLift {
			return ThumbsUp
		}
		if thumb.Y > wrist.Y+ThumbLift {
			return ThumbsDown
		}
	}

	if fingers <= 1 {
		return Bye
	}

	return None
}

// RecognizeShape reports an open hand as a square and two open hands as a
// rectangle. An open hand shows four or five fingers.
func RecognizeShape(hands []detector.Hand) Label {
	open := func(h detector.Hand) bool {
		n := CountFingers(h)
		return n == 4 || n == 5
	}

	switch len(hands) {
	case 1:
		if open(hands[0]) {
			return Square
		}
	case 2:
		if open(hands[0]) && open(hands[1]) {
			return Rectangle
		}
	}
	return None
}
