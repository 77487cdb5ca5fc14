package app

import (
	"log"
	"time"

	"github.com/ayusman/handplay/internal/detector"
	"gocv.io/x/gocv"
)

// runPipeline is the camera loop. It reads frames at the gate's rate,
// publishes them to the preview, and while the gate is open runs hand
// detection and hands the result to the running module.
//
// The gate starts closed (IdleFPS). Motion opens it and raises the rate to
// ActiveFPS. Detected hands keep it open; IdleTimeout without either closes it.
func (a *App) runPipeline(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(time.Second / time.Duration(a.gate.FPS()))
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.Camera().ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			if switched := a.processFrame(frame, a.now()); switched {
				fps := a.gate.FPS()
				a.Camera().SetFPS(fps)
				ticker.Reset(time.Second / time.Duration(fps))
				log.Printf("Switched to %d fps", fps)
			}
			frame.Close()
		}
	}
}

// processFrame runs one camera frame through the gate, the preview and the
// detector. It reports whether the gate changed state.
func (a *App) processFrame(frame *gocv.Mat, now time.Time) bool {
	if err := a.preview.Update(frame, now); err != nil {
		log.Printf("Error encoding preview: %v", err)
	}

	active, switched := a.gate.Observe(frame, now)
	if !active {
		return switched
	}

	det := a.Detector()
	if det == nil || a.Session() == nil {
		return switched
	}

	hands, err := det.Detect(frame)
	if err != nil {
		log.Printf("Error detecting hands: %v", err)
		return switched
	}

	if len(hands) > 0 {
		if _, s := a.gate.Touch(now); s {
			switched = true
		}
	}

	a.HandleFrame(detector.Frame{Hands: hands, Timestamp: now})
	return switched
}
