package source

import (
	"context"
	"io"

	"github.com/Gowtham-1301/cardiopulse/internal/ecg"
	"github.com/Gowtham-1301/cardiopulse/internal/ingest"
)

// ReplaySource feeds a parsed CSV recording chunk by chunk, as if the
// samples were arriving live.
type ReplaySource struct {
	name    string
	samples []ecg.Sample
	pos     int
}

// NewReplaySource creates a source that replays a recording
func NewReplaySource(name string, rec *ingest.Recording) *ReplaySource {
	return &ReplaySource{
		name:    name,
		samples: rec.Samples,
	}
}

// Name returns the session name
func (s *ReplaySource) Name() string {
	return s.name
}

// Type returns the source type
func (s *ReplaySource) Type() string {
	return "csv"
}

// Read returns the next chunk of the recording, io.EOF once exhausted
func (s *ReplaySource) Read(ctx context.Context, max int) ([]ecg.Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.samples) {
		return nil, io.EOF
	}

	end := s.pos + max
	if end > len(s.samples) {
		end = len(s.samples)
	}
	chunk := s.samples[s.pos:end]
	s.pos = end
	return chunk, nil
}

// Close is a no-op for replay
func (s *ReplaySource) Close() error {
	return nil
}
