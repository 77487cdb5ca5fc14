package capture

import (
	"fmt"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Preview keeps the most recent camera frame as JPEG for the MJPEG endpoint,
// so viewers never compete with the pipeline for the device.
type Preview struct {
	mu      sync.RWMutex
	jpeg    []byte
	seq     uint64
	updated time.Time
	notify  chan struct{}
}

// NewPreview creates an empty preview.
func NewPreview() *Preview {
	return &Preview{notify: make(chan struct{})}
}

// Update encodes frame and publishes it to waiting readers.
func (p *Preview) Update(frame *gocv.Mat, now time.Time) error {
	if frame == nil || frame.Empty() {
		return nil
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	defer buf.Close()

	p.Set(buf.GetBytes(), now)
	return nil
}

// Set publishes an already encoded JPEG.
func (p *Preview) Set(jpeg []byte, now time.Time) {
	data := make([]byte, len(jpeg))
	copy(data, jpeg)

	p.mu.Lock()
	p.jpeg = data
	p.seq++
	p.updated = now
	close(p.notify)
	p.notify = make(chan struct{})
	p.mu.Unlock()
}

// Latest returns the newest JPEG and its sequence number. seq is 0 until the
// first frame arrives.
func (p *Preview) Latest() (jpeg []byte, seq uint64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.jpeg, p.seq
}

// Wait returns a channel that is closed when the next frame is published.
func (p *Preview) Wait() <-chan struct{} {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.notify
}

// Updated returns when the last frame was published.
func (p *Preview) Updated() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.updated
}
