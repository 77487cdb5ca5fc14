package capture

import (
	"bytes"
	"testing"
	"time"
)

func TestPreview(t *testing.T) {
	p := NewPreview()

	if data, seq := p.Latest(); data != nil || seq != 0 {
		t.Fatalf("Latest() = %v, %d, want empty", data, seq)
	}

	wait := p.Wait()
	now := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	src := []byte{0xff, 0xd8, 0xff, 0xd9}
	p.Set(src, now)

	select {
	case <-wait:
	default:
		t.Fatal("Wait() channel not closed after Set()")
	}

	src[0] = 0
	data, seq := p.Latest()
	if seq != 1 || !bytes.Equal(data, []byte{0xff, 0xd8, 0xff, 0xd9}) {
		t.Errorf("Latest() = %x, %d", data, seq)
	}
	if !p.Updated().Equal(now) {
		t.Errorf("Updated() = %v, want %v", p.Updated(), now)
	}

	select {
	case <-p.Wait():
		t.Error("new Wait() channel should be open")
	default:
	}
}

func TestPreview_UpdateIgnoresNil(t *testing.T) {
	p := NewPreview()
	if err := p.Update(nil, time.Now()); err != nil {
		t.Errorf("Update(nil) error = %v", err)
	}
	if _, seq := p.Latest(); seq != 0 {
		t.Errorf("seq = %d, want 0", seq)
	}
}
