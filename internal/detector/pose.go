package detector

// ThumbPose selects where a synthesized thumb points.
type ThumbPose int

const (
	ThumbFolded ThumbPose = iota // tucked across the palm
	ThumbOut                     // splayed sideways
	ThumbUp
	ThumbDown
)

// Pose describes a synthetic hand for fixtures and demos.
type Pose struct {
	Handedness Handedness
	Thumb      ThumbPose
	// Extended lists which of index, middle, ring and pinky are raised.
	Extended [4]bool
	// WristX, WristY place the wrist in the frame.
	WristX, WristY float64
	// Scale multiplies every offset from the wrist. Zero means 1.
	Scale float64
}

// Offsets from the wrist for an upright right hand, palm to the camera.
var (
	mcpOffsets = [4]Point{{X: 0.05, Y: -0.15}, {X: 0, Y: -0.16}, {X: -0.05, Y: -0.15}, {X: -0.09, Y: -0.13}}

	// PIP, DIP and tip offsets from the finger's MCP.
	raisedJoints = [3]Point{{Y: -0.08}, {Y: -0.13}, {Y: -0.18}}
	curledJoints = [3]Point{{Y: -0.05}, {Y: -0.03}, {Y: -0.01}}

	// CMC, MCP, IP and tip offsets from the wrist.
	thumbJoints = map[ThumbPose][4]Point{
		ThumbFolded: {{X: 0.04, Y: -0.03}, {X: 0.07, Y: -0.07}, {X: 0.06, Y: -0.12}, {X: 0.01, Y: -0.14}},
		ThumbOut:    {{X: 0.04, Y: -0.03}, {X: 0.07, Y: -0.07}, {X: 0.12, Y: -0.11}, {X: 0.16, Y: -0.14}},
		ThumbUp:     {{X: 0.04, Y: -0.03}, {X: 0.07, Y: -0.07}, {X: 0.09, Y: -0.18}, {X: 0.10, Y: -0.28}},
		ThumbDown:   {{X: 0.04, Y: -0.03}, {X: 0.07, Y: -0.02}, {X: 0.09, Y: 0.08}, {X: 0.10, Y: 0.18}},
	}
)

// Build lays out the 21 landmarks for the pose. Left hands are mirrored
// around the wrist so that the thumb points toward smaller x.
func (p Pose) Build() Hand {
	scale := p.Scale
	if scale == 0 {
		scale = 1
	}
	handedness := p.Handedness
	if handedness == "" {
		handedness = Right
	}
	mirror := 1.0
	if handedness == Left {
		mirror = -1
	}

	place := func(off Point) Point {
		return Point{X: p.WristX + mirror*off.X*scale, Y: p.WristY + off.Y*scale}
	}

	points := make([]Point, NumLandmarks)
	points[Wrist] = place(Point{})

	for i, off := range thumbJoints[p.Thumb] {
		points[ThumbCMC+i] = place(off)
	}

	for f, mcp := range mcpOffsets {
		joints := curledJoints
		if p.Extended[f] {
			joints = raisedJoints
		}
		base := IndexMCP + f*4
		points[base] = place(mcp)
		for j, off := range joints {
			points[base+1+j] = place(Point{X: mcp.X + off.X, Y: mcp.Y + off.Y})
		}
	}

	return Hand{Points: points, Handedness: handedness, Score: 0.95}
}

// FingersPose raises n fingers (0-5): index first, then middle, ring and
// pinky, with the thumb added last.
func FingersPose(h Handedness, n int) Pose {
	p := Pose{Handedness: h, WristX: 0.5, WristY: 0.8}
	for i := 0; i < 4 && i < n; i++ {
		p.Extended[i] = true
	}
	if n >= 5 {
		p.Thumb = ThumbOut
	}
	return p
}

// OpenPalm returns a right hand with all five fingers extended.
func OpenPalm() Hand {
	return FingersPose(Right, 5).Build()
}

// Fist returns a right hand with every finger curled.
func Fist() Hand {
	return FingersPose(Right, 0).Build()
}

// ThumbsUp returns a right fist with the thumb pointing up.
func ThumbsUp() Hand {
	return Pose{Handedness: Right, Thumb: ThumbUp, WristX: 0.5, WristY: 0.7}.Build()
}

// ThumbsDown returns a right fist with the thumb pointing down.
func ThumbsDown() Hand {
	return Pose{Handedness: Right, Thumb: ThumbDown, WristX: 0.5, WristY: 0.6}.Build()
}
