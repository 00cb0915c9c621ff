package ecg

// Config holds the detection tunables. The defaults are calibrated for a
// roughly normalized millivolt signal at 250 Hz; deployments with different
// sensors should tune per hardware rather than rescale input.
type Config struct {
	// SampleRate is the input sample rate in Hz.
	SampleRate float64

	// BufferSeconds bounds the StreamingDetector's rolling buffer.
	BufferSeconds float64

	// MinBatchSamples gates the batch pipeline: shorter inputs return a
	// zero-valued Result.
	MinBatchSamples int

	// ThresholdFraction sets the envelope threshold as a fraction of the
	// envelope maximum.
	ThresholdFraction float64

	// PercentileWeight weights the 95th-percentile envelope value against
	// the max-based threshold; the larger of the two wins. Percentile-based
	// thresholding resists single-sample outliers.
	PercentileWeight float64

	// MinThresholdFraction floors the adaptive threshold so it never
	// collapses to zero during quiet segments.
	MinThresholdFraction float64

	// AdaptRate is the EMA weight given to a newly accepted peak's envelope
	// value when adapting the threshold.
	AdaptRate float64

	// RefractorySeconds is the minimum time between accepted peaks.
	// 0.25 s corresponds to a physiological ceiling of 240 BPM.
	RefractorySeconds float64

	// SearchRadius is the half-width, in samples, of the window searched in
	// the original signal to map an envelope peak back to the true R-wave
	// sample (the integration stage smooths and lags the true peak).
	SearchRadius int

	// AmplitudeFloor rejects mapped peaks at or below this raw amplitude.
	// It assumes a roughly-mV input scale; callers feeding other units must
	// set it accordingly or detection will reject everything (or nothing).
	AmplitudeFloor float64

	// MinRRSeconds/MaxRRSeconds bound plausible RR intervals; values outside
	// (MinRR, MaxRR) are detection artifacts and excluded from metrics.
	MinRRSeconds float64
	MaxRRSeconds float64
}

// DefaultConfig returns the standard tuning for 250 Hz input.
func DefaultConfig() Config {
	return Config{
		SampleRate:           250,
		BufferSeconds:        5,
		MinBatchSamples:      50,
		ThresholdFraction:    0.4,
		PercentileWeight:     0.5,
		MinThresholdFraction: 0.1,
		AdaptRate:            0.3,
		RefractorySeconds:    0.25,
		SearchRadius:         8,
		AmplitudeFloor:       0.4,
		MinRRSeconds:         0.3,
		MaxRRSeconds:         2.0,
	}
}

// refractorySamples returns the refractory period in samples.
func (c Config) refractorySamples() int {
	return int(c.RefractorySeconds * c.SampleRate)
}

// maxBufferSamples returns the streaming buffer capacity.
func (c Config) maxBufferSamples() int {
	return int(c.SampleRate * c.BufferSeconds)
}
