package detector

import "gocv.io/x/gocv"

// A Detector turns camera frames into hand landmarks. An empty result means
// no hands were in view.
type Detector interface {
	Detect(frame *gocv.Mat) ([]Hand, error)
	Close() error
}

// Config tunes the landmark model.
type Config struct {
	MaxHands int

	// Confidence thresholds in [0, 1], passed through to the model.
	MinDetection float64
	MinTracking  float64

	// ScriptPath is the landmark sidecar script. Empty means search the
	// usual install locations.
	ScriptPath string
}

// DefaultConfig tracks both hands, which counting past five needs.
func DefaultConfig() Config {
	return Config{MaxHands: 2, MinDetection: 0.5, MinTracking: 0.5}
}
