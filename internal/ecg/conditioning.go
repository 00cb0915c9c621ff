package ecg

// conditionSignal converts a raw value slice into the QRS-energy envelope
// used for peak picking. Four stages, in order: baseline removal, five-point
// derivative, squaring, trailing moving-window integration.
//
// The derivative trims two samples at each end, so envelope index i
// corresponds to original index i+offset. Every caller must apply the offset
// rather than assume matching positions; this is where off-by-N bugs live.
func conditionSignal(values []float64, sampleRate float64) (envelope []float64, offset int) {
	filtered := removeBaseline(values, sampleRate)
	deriv := derivative(filtered)
	squared := square(deriv)
	return integrate(squared, sampleRate), derivativeTrim
}

// derivativeTrim is the number of samples the derivative stage drops at the
// front of the array.
const derivativeTrim = 2

// removeBaseline subtracts a symmetric local moving average (half-width
// sampleRate/15, clamped at the array bounds) from each sample. Slow
// baseline wander is suppressed while the faster QRS energy passes through.
// Output length equals input length.
func removeBaseline(values []float64, sampleRate float64) []float64 {
	n := len(values)
	halfWidth := int(sampleRate / 15)

	// Prefix sums keep the sliding means O(n).
	prefix := make([]float64, n+1)
	for i, v := range values {
		prefix[i+1] = prefix[i] + v
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		lo := i - halfWidth
		if lo < 0 {
			lo = 0
		}
		hi := i + halfWidth
		if hi > n-1 {
			hi = n - 1
		}
		mean := (prefix[hi+1] - prefix[lo]) / float64(hi-lo+1)
		out[i] = values[i] - mean
	}
	return out
}

// derivative applies the five-point central difference
// (-x[i-2] - 2x[i-1] + 2x[i+1] + x[i+2]) / 8, valid for i in [2, n-3].
// The output is 4 samples shorter than the input; output index j maps to
// input index j+derivativeTrim. Steep QRS slopes are emphasized over the
// slower P and T waves.
func derivative(values []float64) []float64 {
	n := len(values)
	if n < 5 {
		return nil
	}
	out := make([]float64, 0, n-4)
	for i := 2; i <= n-3; i++ {
		d := (-values[i-2] - 2*values[i-1] + 2*values[i+1] + values[i+2]) / 8
		out = append(out, d)
	}
	return out
}

// square rectifies the signal and nonlinearly emphasizes large slopes.
func square(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v * v
	}
	return out
}

// integrate averages over a trailing window of width 0.15*sampleRate
// samples, widening from 1 until full width is reached. The result is a
// smooth energy envelope in which each heartbeat appears as one broad bump.
func integrate(values []float64, sampleRate float64) []float64 {
	width := int(0.15 * sampleRate)
	if width < 1 {
		width = 1
	}

	out := make([]float64, len(values))
	var running float64
	for i, v := range values {
		running += v
		if i >= width {
			running -= values[i-width]
		}
		count := i + 1
		if count > width {
			count = width
		}
		out[i] = running / float64(count)
	}
	return out
}
