package stream

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Frames on the wire are packed little-endian float32 sample values with no
// header. Timestamps are synthesized by the receiver from the configured
// sample rate, so a frame is exactly 4 bytes per sample.

// EncodeFrame packs sample values into a wire frame.
func EncodeFrame(values []float32) []byte {
	out := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

// DecodeFrame unpacks a wire frame into sample values.
func DecodeFrame(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("frame length %d is not a multiple of 4", len(data))
	}
	values := make([]float32, len(data)/4)
	for i := range values {
		values[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return values, nil
}
