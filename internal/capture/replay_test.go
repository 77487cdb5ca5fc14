package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func solidFrames(t *testing.T, values ...float64) []*gocv.Mat {
	t.Helper()
	frames := make([]*gocv.Mat, len(values))
	for i, v := range values {
		m := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC1)
		m.SetTo(gocv.NewScalar(v, 0, 0, 0))
		frames[i] = &m
	}
	t.Cleanup(func() {
		for _, f := range frames {
			f.Close()
		}
	})
	return frames
}

func TestReplayCamera(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	t.Run("plays once", func(t *testing.T) {
		cam := NewReplayCamera(solidFrames(t, 10, 20), false)

		if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
			t.Fatalf("ReadFrame() before Open error = %v", err)
		}
		cam.Open()

		for _, want := range []uint8{10, 20} {
			frame, err := cam.ReadFrame()
			if err != nil {
				t.Fatalf("ReadFrame() error = %v", err)
			}
			if got := frame.GetUCharAt(0, 0); got != want {
				t.Errorf("pixel = %d, want %d", got, want)
			}
			frame.Close()
		}

		if _, err := cam.ReadFrame(); !errors.Is(err, ErrNoFrames) {
			t.Errorf("ReadFrame() past end error = %v, want ErrNoFrames", err)
		}
	})

	t.Run("loops", func(t *testing.T) {
		cam := NewReplayCamera(solidFrames(t, 7), true)
		cam.Open()

		for i := 0; i < 3; i++ {
			frame, err := cam.ReadFrame()
			if err != nil {
				t.Fatalf("ReadFrame() #%d error = %v", i, err)
			}
			frame.Close()
		}
	})
}

func TestReplayCamera_Empty(t *testing.T) {
	cam := NewReplayCamera(nil, true)
	cam.Open()
	if _, err := cam.ReadFrame(); !errors.Is(err, ErrNoFrames) {
		t.Errorf("ReadFrame() error = %v, want ErrNoFrames", err)
	}
	if cam.FPS() != ActiveFPS {
		t.Errorf("FPS() = %d, want %d", cam.FPS(), ActiveFPS)
	}
}
