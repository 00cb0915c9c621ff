package source

import (
	"context"

	"github.com/Gowtham-1301/cardiopulse/internal/ecg"
	"github.com/Gowtham-1301/cardiopulse/internal/simulator"
)

// Source yields timestamped ECG sample chunks for one monitoring session.
type Source interface {
	// Name returns the session name this source feeds
	Name() string

	// Type returns the source type (simulator, csv, nats)
	Type() string

	// Read returns the next chunk of at most max samples. It blocks until
	// samples are available or the context is cancelled. Exhausted finite
	// sources return io.EOF.
	Read(ctx context.Context, max int) ([]ecg.Sample, error)

	// Close releases source resources
	Close() error
}

// SimulatorSource generates a synthetic ECG waveform on demand
type SimulatorSource struct {
	name string
	sim  *simulator.Simulator
}

// NewSimulatorSource creates a simulator-backed source
func NewSimulatorSource(name string, sampleRate, bpm, noise float64) *SimulatorSource {
	return &SimulatorSource{
		name: name,
		sim:  simulator.New(sampleRate, bpm, noise),
	}
}

// Name returns the session name
func (s *SimulatorSource) Name() string {
	return s.name
}

// Type returns the source type
func (s *SimulatorSource) Type() string {
	return "simulator"
}

// Read generates the next max samples of the waveform
func (s *SimulatorSource) Read(ctx context.Context, max int) ([]ecg.Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	samples := make([]ecg.Sample, max)
	for i := range samples {
		t, v := s.sim.Next()
		samples[i] = ecg.Sample{Time: t, Value: v}
	}
	return samples, nil
}

// Close is a no-op for the simulator
func (s *SimulatorSource) Close() error {
	return nil
}
