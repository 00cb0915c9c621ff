package source

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/Gowtham-1301/cardiopulse/internal/ecg"
	"github.com/Gowtham-1301/cardiopulse/internal/stream"
)

// NATSSource receives live sample frames from a NATS subject. Frames carry
// values only, so timestamps are synthesized from the configured sample rate
// and a running sample counter.
type NATSSource struct {
	name       string
	sampleRate float64
	sub        *nats.Subscription
	msgs       chan *nats.Msg
	pending    []ecg.Sample
	n          int64 // samples received so far
}

// NewNATSSource subscribes to subject on nc and returns a live source
func NewNATSSource(name string, nc *nats.Conn, subject string, sampleRate float64) (*NATSSource, error) {
	msgs := make(chan *nats.Msg, 64)
	sub, err := nc.ChanSubscribe(subject, msgs)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	return &NATSSource{
		name:       name,
		sampleRate: sampleRate,
		sub:        sub,
		msgs:       msgs,
	}, nil
}

// Name returns the session name
func (s *NATSSource) Name() string {
	return s.name
}

// Type returns the source type
func (s *NATSSource) Type() string {
	return "nats"
}

// Read blocks until a frame arrives, then returns up to max samples.
// Samples beyond max are held for the next call.
func (s *NATSSource) Read(ctx context.Context, max int) ([]ecg.Sample, error) {
	for len(s.pending) == 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case msg, ok := <-s.msgs:
			if !ok {
				return nil, fmt.Errorf("subscription closed")
			}
			values, err := stream.DecodeFrame(msg.Data)
			if err != nil {
				return nil, fmt.Errorf("bad frame on %s: %w", msg.Subject, err)
			}
			for _, v := range values {
				s.pending = append(s.pending, ecg.Sample{
					Time:  float64(s.n) / s.sampleRate,
					Value: float64(v),
				})
				s.n++
			}
		}
	}

	if max > len(s.pending) {
		max = len(s.pending)
	}
	chunk := s.pending[:max]
	s.pending = s.pending[max:]
	return chunk, nil
}

// Close unsubscribes from the subject
func (s *NATSSource) Close() error {
	return s.sub.Unsubscribe()
}
