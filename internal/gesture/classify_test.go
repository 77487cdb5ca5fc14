package gesture

import (
	"testing"

	"github.com/ayusman/handplay/internal/detector"
	"github.com/ayusman/handplay/testdata"
)

func TestRecognizeCounting(t *testing.T) {
	tests := []struct {
		fixture string
		want    int
	}{
		{"right_0", 0},
		{"right_4", 4},
		{"two_hands_8", 8},
		{"two_hands_10", 10},
		{"namaskaar", 10},
		{"partial", 0},
	}

	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			hands, err := testdata.LoadHands(tt.fixture)
			if err != nil {
				t.Fatalf("LoadHands() error = %v", err)
			}
			if got := RecognizeCounting(hands); got != tt.want {
				t.Errorf("RecognizeCounting() = %d, want %d", got, tt.want)
			}
		})
	}

	t.Run("no hands", func(t *testing.T) {
		if got := RecognizeCounting(nil); got != 0 {
			t.Errorf("RecognizeCounting(nil) = %d, want 0", got)
		}
	})

	t.Run("malformed hand does not spoil the other", func(t *testing.T) {
		hands := []detector.Hand{{Points: make([]detector.Point, 7)}, detector.FingersPose(detector.Right, 3).Build()}
		if got := RecognizeCounting(hands); got != 3 {
			t.Errorf("RecognizeCounting() = %d, want 3", got)
		}
	})
}

func namaskaarHands(leftFingers, rightFingers int) []detector.Hand {
	left := detector.FingersPose(detector.Left, leftFingers)
	left.WristX, left.WristY = 0.45, 0.7
	right := detector.FingersPose(detector.Right, rightFingers)
	right.WristX, right.WristY = 0.52, 0.7
	return []detector.Hand{left.Build(), right.Build()}
}

func TestRecognizeSocial(t *testing.T) {
	farApart := func() []detector.Hand {
		left := detector.FingersPose(detector.Left, 2)
		left.WristX = 0.25
		right := detector.FingersPose(detector.Right, 5)
		right.WristX = 0.75
		return []detector.Hand{left.Build(), right.Build()}
	}

	tests := []struct {
		name  string
		hands []detector.Hand
		want  Label
	}{
		{name: "no hands", hands: nil, want: None},
		{name: "open palm says hello", hands: []detector.Hand{detector.OpenPalm()}, want: Hello},
		{name: "four fingers say hello", hands: []detector.Hand{detector.FingersPose(detector.Right, 4).Build()}, want: Hello},
		{name: "thumbs up", hands: []detector.Hand{detector.ThumbsUp()}, want: ThumbsUp},
		{name: "thumbs down", hands: []detector.Hand{detector.ThumbsDown()}, want: ThumbsDown},
		{name: "left thumbs up", hands: []detector.Hand{detector.Pose{Handedness: detector.Left, Thumb: detector.ThumbUp, WristX: 0.5, WristY: 0.7}.Build()}, want: ThumbsUp},
		{name: "fist says bye", hands: []detector.Hand{detector.Fist()}, want: Bye},
		{name: "single index says bye", hands: []detector.Hand{detector.FingersPose(detector.Right, 1).Build()}, want: Bye},
		{name: "two fingers are nothing", hands: []detector.Hand{detector.FingersPose(detector.Right, 2).Build()}, want: None},
		{name: "three fingers are nothing", hands: []detector.Hand{detector.FingersPose(detector.Right, 3).Build()}, want: None},
		{name: "hands together", hands: namaskaarHands(5, 5), want: Namaskaar},
		{name: "hands together beat finger rules", hands: namaskaarHands(0, 3), want: Namaskaar},
		{name: "hands apart use the first hand", hands: farApart(), want: None},
		{name: "malformed hand", hands: []detector.Hand{{Points: detector.OpenPalm().Points[:10]}}, want: None},
		{name: "malformed first hand", hands: []detector.Hand{{}, detector.OpenPalm()}, want: None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RecognizeSocial(tt.hands); got != tt.want {
				t.Errorf("RecognizeSocial() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRecognizeSocial_Recorded(t *testing.T) {
	tests := []struct {
		fixture string
		want    Label
	}{
		{"right_0", Bye},
		{"right_5", Hello},
		{"thumbs_up", ThumbsUp},
		{"thumbs_down", ThumbsDown},
		{"namaskaar", Namaskaar},
		{"right_2", None},
		{"partial", None},
	}

	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			hands, err := testdata.LoadHands(tt.fixture)
			if err != nil {
				t.Fatalf("LoadHands() error = %v", err)
			}
			if got := RecognizeSocial(hands); got != tt.want {
				t.Errorf("RecognizeSocial() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRecognizeShape(t *testing.T) {
	tests := []struct {
		fixture string
		want    Label
	}{
		{"right_5", Square},
		{"right_4", Square},
		{"right_3", None},
		{"right_0", None},
		{"two_hands_10", Rectangle},
		{"two_hands_8", None},
	}

	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			hands, err := testdata.LoadHands(tt.fixture)
			if err != nil {
				t.Fatalf("LoadHands() error = %v", err)
			}
			if got := RecognizeShape(hands); got != tt.want {
				t.Errorf("RecognizeShape() = %s, want %s", got, tt.want)
			}
		})
	}

	if got := RecognizeShape(nil); got != None {
		t.Errorf("RecognizeShape(nil) = %s, want none", got)
	}
}

func TestLabel_String(t *testing.T) {
	if got := None.String(); got != "none" {
		t.Errorf("None.String() = %q, want %q", got, "none")
	}
	if got := ThumbsDown.String(); got != "thumbs-down" {
		t.Errorf("ThumbsDown.String() = %q", got)
	}
}

func TestCatalog(t *testing.T) {
	if len(Catalog) != len(SocialSequence) {
		t.Fatalf("catalog has %d entries, sequence has %d", len(Catalog), len(SocialSequence))
	}
	for i, l := range SocialSequence {
		if Catalog[i].Label != l {
			t.Errorf("Catalog[%d] = %s, want %s", i, Catalog[i].Label, l)
		}
		info, ok := Lookup(l)
		if !ok || info.Instruction == "" {
			t.Errorf("Lookup(%s) = %+v, %v", l, info, ok)
		}
	}
	if _, ok := Lookup(Square); ok {
		t.Error("square has no catalog entry")
	}
}
