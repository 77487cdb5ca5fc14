package detector

import (
	"encoding/json"
	"fmt"
	"time"
)

// wireFrame is the JSON shape shared by the sidecar detector and browser clients.
type wireFrame struct {
	Hands     []Hand `json:"hands"`
	Timestamp int64  `json:"timestamp,omitempty"` // Unix milliseconds
}

// DecodeFrame parses a JSON frame. A missing timestamp is filled with now.
// Hands with more than NumLandmarks points are truncated; shorter ones are kept
// as-is and classify as malformed.
func DecodeFrame(data []byte, now time.Time) (Frame, error) {
	var wf wireFrame
	if err := json.Unmarshal(data, &wf); err != nil {
		return Frame{}, fmt.Errorf("parse frame: %w", err)
	}

	for i := range wf.Hands {
		if len(wf.Hands[i].Points) > NumLandmarks {
			wf.Hands[i].Points = wf.Hands[i].Points[:NumLandmarks]
		}
	}

	ts := now
	if wf.Timestamp > 0 {
		ts = time.UnixMilli(wf.Timestamp)
	}

	return Frame{Hands: wf.Hands, Timestamp: ts}, nil
}

// EncodeFrame is the inverse of DecodeFrame.
func EncodeFrame(f Frame) ([]byte, error) {
	wf := wireFrame{Hands: f.Hands}
	if !f.Timestamp.IsZero() {
		wf.Timestamp = f.Timestamp.UnixMilli()
	}
	return json.Marshal(wf)
}
