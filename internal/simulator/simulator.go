// Package simulator generates a synthetic (non-clinical) ECG waveform for
// demos and tests: per-beat P/Q/R/S/T gaussians with fixed time-domain
// widths, slow respiratory baseline drift, and optional deterministic noise.
package simulator

import "math"

// wave is one gaussian component of the beat, positioned relative to the
// R-peak in seconds. Widths are in seconds so the QRS morphology does not
// stretch with heart rate; only the beat spacing does.
type wave struct {
	amp   float64
	mu    float64 // offset from R, seconds
	sigma float64 // seconds
}

var beatWaves = []wave{
	{0.25, -0.1000, 0.0250},  // P
	{-0.10, -0.0167, 0.0083}, // Q
	{1.00, 0.0000, 0.0067},   // R
	{-0.20, 0.0292, 0.0100},  // S
	{0.30, 0.1917, 0.0417},   // T
}

// rPhase places the first R-peak at this fraction of a beat period,
// so a recording never starts mid-QRS.
const rPhase = 0.32

// Simulator produces one sample per Next call at a fixed rate and BPM.
type Simulator struct {
	rate  float64 // Hz
	bpm   float64
	noise float64 // peak noise amplitude, same units as the signal
	n     int     // samples emitted so far
}

// New returns a simulator. Typical values: rate 250, bpm 60-120,
// noise 0.0-0.02.
func New(rate, bpm, noise float64) *Simulator {
	return &Simulator{rate: rate, bpm: bpm, noise: noise}
}

// Rate returns the sample rate in Hz.
func (s *Simulator) Rate() float64 { return s.rate }

// Next returns the next sample's time (seconds) and value, and advances.
func (s *Simulator) Next() (t, v float64) {
	t = float64(s.n) / s.rate
	s.n++
	return t, s.valueAt(t)
}

// Take returns the next count samples as parallel time/value slices.
func (s *Simulator) Take(count int) (times, values []float64) {
	times = make([]float64, count)
	values = make([]float64, count)
	for i := 0; i < count; i++ {
		times[i], values[i] = s.Next()
	}
	return times, values
}

// valueAt evaluates the waveform at time t. Beats are strictly periodic;
// the two beats nearest t are enough since the wave tails die off well
// within one period.
func (s *Simulator) valueAt(t float64) float64 {
	period := 60 / s.bpm
	v := 0.03 * math.Sin(2*math.Pi*0.25*t) // respiratory drift

	k := math.Floor(t / period)
	for _, beat := range []float64{k - 1, k, k + 1} {
		rt := (beat + rPhase) * period
		for _, w := range beatWaves {
			v += w.amp * gauss(t, rt+w.mu, w.sigma)
		}
	}

	if s.noise != 0 {
		// Cheap deterministic noise; no RNG state to seed or carry.
		v += s.noise * (2*fract(math.Sin(12345.678*t)*9876.543) - 1)
	}
	return v
}

func gauss(x, mu, sigma float64) float64 {
	z := (x - mu) / sigma
	return math.Exp(-0.5 * z * z)
}

func fract(x float64) float64 { return x - math.Floor(x) }
