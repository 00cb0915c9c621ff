package stream

import (
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	values := []float32{0.05, -0.1, 1.0, 0.3, 0}

	frame := EncodeFrame(values)
	if len(frame) != 4*len(values) {
		t.Fatalf("len(frame) = %d, want %d", len(frame), 4*len(values))
	}

	decoded, err := DecodeFrame(frame)
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	if len(decoded) != len(values) {
		t.Fatalf("len(decoded) = %d, want %d", len(decoded), len(values))
	}
	for i := range values {
		if decoded[i] != values[i] {
			t.Errorf("decoded[%d] = %v, want %v", i, decoded[i], values[i])
		}
	}
}

func TestDecodeFrameEmpty(t *testing.T) {
	decoded, err := DecodeFrame(nil)
	if err != nil {
		t.Fatalf("DecodeFrame(nil) error = %v", err)
	}
	if len(decoded) != 0 {
		t.Errorf("len(decoded) = %d, want 0", len(decoded))
	}
}

func TestDecodeFrameBadLength(t *testing.T) {
	if _, err := DecodeFrame([]byte{1, 2, 3}); err == nil {
		t.Error("DecodeFrame() expected error for truncated frame, got nil")
	}
}
