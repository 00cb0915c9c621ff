// Package ecg implements a streaming R-peak detection engine: a simplified
// Pan-Tompkins pipeline (baseline removal, derivative, squaring, moving-window
// integration) followed by adaptive-threshold peak picking, plus the RR/HR
// metrics derived from the detected beats.
//
// The pipeline is pure computation over sample slices with no I/O and no
// internal concurrency. A StreamingDetector instance must be driven from a
// single goroutine; use one instance per monitored session.
package ecg

// Sample is one raw ECG measurement. Samples are produced externally
// (simulator, CSV upload, hardware feed) at a known constant rate and must
// arrive in non-decreasing time order; the engine does not sort input.
type Sample struct {
	Time  float64 `json:"time"`  // seconds
	Value float64 `json:"value"` // amplitude, nominally mV
}

// Peak is one detected heartbeat (R-wave). Index is the offset into the
// sample slice the peak was detected in; for accumulated peaks held by a
// StreamingDetector it is kept aligned with the current buffer across trims.
type Peak struct {
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
	Index int     `json:"index"`
}

// Result is the outcome of one pipeline invocation. It is recomputed on
// every call and never mutated in place.
//
// AvgHR == 0 means "not enough data yet", not an error (see Config docs on
// the silent-degradation policy).
type Result struct {
	Peaks       []Peak    `json:"peaks"`
	RRIntervals []float64 `json:"rr_intervals"` // seconds
	InstantHR   float64   `json:"instant_hr"`   // BPM
	AvgHR       float64   `json:"avg_hr"`       // BPM
}

func emptyResult() Result {
	return Result{Peaks: []Peak{}, RRIntervals: []float64{}}
}

// DetectPeaks runs the full batch pipeline over the given samples: signal
// conditioning, peak picking, and metrics. Inputs shorter than
// cfg.MinBatchSamples yield a zero-valued Result (the conditioning stages'
// edge effects dominate on tiny windows).
//
// The pipeline is deterministic: identical input always yields an identical
// Result.
func DetectPeaks(samples []Sample, cfg Config) Result {
	if len(samples) < cfg.MinBatchSamples {
		return emptyResult()
	}

	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.Value
	}

	envelope, offset := conditionSignal(values, cfg.SampleRate)
	peaks := pickPeaks(envelope, samples, offset, cfg)

	result := Result{Peaks: peaks}
	result.RRIntervals, result.InstantHR, result.AvgHR = computeMetrics(peaks, cfg)
	return result
}
