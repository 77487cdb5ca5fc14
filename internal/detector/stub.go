package detector

import "gocv.io/x/gocv"

// StubDetector is a Detector whose results are set by the caller.
// It stands in for the sidecar in tests and when no landmark model is installed.
type StubDetector struct {
	hands []Hand
	err   error
}

// NewStubDetector creates a StubDetector that reports no hands.
func NewStubDetector() *StubDetector {
	return &StubDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (s *StubDetector) SetHands(hands []Hand) {
	s.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (s *StubDetector) SetError(err error) {
	s.err = err
}

// Detect returns the configured hands or error.
func (s *StubDetector) Detect(frame *gocv.Mat) ([]Hand, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.hands, nil
}

// Close is a no-op.
func (s *StubDetector) Close() error {
	return nil
}
