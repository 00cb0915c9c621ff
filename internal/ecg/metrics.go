package ecg

import "math"

// computeMetrics derives RR intervals and heart-rate figures from an ordered
// peak sequence. Intervals outside (MinRR, MaxRR) are detection artifacts
// (missed or double-counted beats) and are excluded from the RR list but not
// from the peak list. With no valid intervals both HR figures are zero,
// the caller-visible "insufficient data" signal.
func computeMetrics(peaks []Peak, cfg Config) (rr []float64, instantHR, avgHR float64) {
	rr = []float64{}
	for i := 1; i < len(peaks); i++ {
		interval := peaks[i].Time - peaks[i-1].Time
		if interval > cfg.MinRRSeconds && interval < cfg.MaxRRSeconds {
			rr = append(rr, interval)
		}
	}
	if len(rr) == 0 {
		return rr, 0, 0
	}

	instantHR = 60 / rr[len(rr)-1]

	var sum float64
	for _, v := range rr {
		sum += v
	}
	avgHR = 60 / (sum / float64(len(rr)))
	return rr, instantHR, avgHR
}

// SDNN returns the population standard deviation of the RR intervals in
// milliseconds, or 0 with fewer than two intervals.
func SDNN(rr []float64) float64 {
	if len(rr) < 2 {
		return 0
	}
	var sum float64
	for _, v := range rr {
		sum += v
	}
	mean := sum / float64(len(rr))

	var sumSquares float64
	for _, v := range rr {
		d := v - mean
		sumSquares += d * d
	}
	return math.Sqrt(sumSquares/float64(len(rr))) * 1000
}

// RMSSD returns the root-mean-square of successive RR differences in
// milliseconds, or 0 with fewer than two intervals. RMSSD is more sensitive
// to beat-to-beat variability than SDNN.
func RMSSD(rr []float64) float64 {
	if len(rr) < 2 {
		return 0
	}
	var sumSquares float64
	for i := 1; i < len(rr); i++ {
		d := rr[i] - rr[i-1]
		sumSquares += d * d
	}
	return math.Sqrt(sumSquares/float64(len(rr)-1)) * 1000
}
