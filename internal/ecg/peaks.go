package ecg

import "sort"

// pickPeaks locates one event per heartbeat in the envelope, maps it back to
// the true R-wave sample in the original signal, and rejects noise.
//
// Acceptance requires, in order: a 4-point strict local maximum in the
// envelope, the adaptive threshold, the refractory distance from the last
// accepted peak, and finally the raw amplitude gate after remapping. The
// threshold adapts toward accepted peaks with an EMA but never falls below
// minThreshold, so a quiet segment cannot collapse it into admitting noise.
func pickPeaks(envelope []float64, samples []Sample, offset int, cfg Config) []Peak {
	n := len(envelope)
	if n < 10 {
		return []Peak{}
	}

	sorted := make([]float64, n)
	copy(sorted, envelope)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	maxVal := sorted[0]
	p95 := sorted[int(0.05*float64(n))] // exceeded by only 5% of samples
	threshold := cfg.ThresholdFraction * maxVal
	if alt := cfg.PercentileWeight * p95; alt > threshold {
		threshold = alt
	}
	minThreshold := cfg.MinThresholdFraction * maxVal

	refractory := cfg.refractorySamples()
	lastAccepted := -refractory // no peak yet; first candidate is unconstrained

	peaks := []Peak{}
	for i := 2; i <= n-3; i++ {
		if !(envelope[i] > envelope[i-1] && envelope[i] > envelope[i-2] &&
			envelope[i] > envelope[i+1] && envelope[i] > envelope[i+2]) {
			continue
		}
		if envelope[i] <= threshold {
			continue
		}
		if i-lastAccepted < refractory {
			continue
		}

		// The envelope lags and smooths the true peak; recover the actual
		// R-wave sample from the original signal near the envelope event.
		peakIdx := remapToOriginal(samples, i+offset, cfg.SearchRadius)
		if samples[peakIdx].Value <= cfg.AmplitudeFloor {
			// Noise spike: passed the envelope threshold but is not a
			// physiologically plausible R-wave. Refractory state is not
			// advanced, so a real beat right after is still detectable.
			continue
		}

		lastAccepted = i
		threshold = cfg.AdaptRate*envelope[i] + (1-cfg.AdaptRate)*threshold
		if threshold < minThreshold {
			threshold = minThreshold
		}

		peaks = append(peaks, Peak{
			Time:  samples[peakIdx].Time,
			Value: samples[peakIdx].Value,
			Index: peakIdx,
		})
	}
	return peaks
}

// remapToOriginal returns the index of the largest original sample within
// radius samples of center, clamped to the slice bounds.
func remapToOriginal(samples []Sample, center, radius int) int {
	lo := center - radius
	if lo < 0 {
		lo = 0
	}
	hi := center + radius
	if hi > len(samples)-1 {
		hi = len(samples) - 1
	}

	best := lo
	for j := lo + 1; j <= hi; j++ {
		if samples[j].Value > samples[best].Value {
			best = j
		}
	}
	return best
}
