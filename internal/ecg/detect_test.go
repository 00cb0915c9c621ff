package ecg

import (
	"math"
	"testing"

	"github.com/Gowtham-1301/cardiopulse/internal/simulator"
)

// simSamples generates n samples from a clean synthetic ECG at the given BPM.
func simSamples(t *testing.T, bpm, noise float64, n int) []Sample {
	t.Helper()
	sim := simulator.New(250, bpm, noise)
	samples := make([]Sample, n)
	for i := range samples {
		tm, v := sim.Next()
		samples[i] = Sample{Time: tm, Value: v}
	}
	return samples
}

func TestDetectPeaksCleanWaveform(t *testing.T) {
	// 10 s of a clean 72 BPM waveform at 250 Hz: one beat every 0.8333 s,
	// so 12 beats; allow one beat of slack for edge effects.
	samples := simSamples(t, 72, 0, 2500)
	result := DetectPeaks(samples, DefaultConfig())

	if n := len(result.Peaks); n < 11 || n > 13 {
		t.Fatalf("peak count = %d, want 11..13", n)
	}
	if math.Abs(result.AvgHR-72) > 2 {
		t.Errorf("AvgHR = %.2f, want 72±2", result.AvgHR)
	}
	if math.Abs(result.InstantHR-72) > 3 {
		t.Errorf("InstantHR = %.2f, want 72±3", result.InstantHR)
	}
}

func TestDetectPeaksIdempotent(t *testing.T) {
	// Same input, twice through the pipeline, identical output. Includes
	// deterministic noise so the comparison is not trivially clean.
	samples := simSamples(t, 72, 0.005, 2500)
	cfg := DefaultConfig()

	a := DetectPeaks(samples, cfg)
	b := DetectPeaks(samples, cfg)

	if len(a.Peaks) != len(b.Peaks) {
		t.Fatalf("peak counts differ: %d vs %d", len(a.Peaks), len(b.Peaks))
	}
	for i := range a.Peaks {
		if a.Peaks[i] != b.Peaks[i] {
			t.Errorf("peak %d differs: %+v vs %+v", i, a.Peaks[i], b.Peaks[i])
		}
	}
}

func TestDetectPeaksRefractoryInvariant(t *testing.T) {
	for _, bpm := range []float64{45, 60, 72, 90} {
		samples := simSamples(t, bpm, 0, 2500)
		result := DetectPeaks(samples, DefaultConfig())
		for i := 1; i < len(result.Peaks); i++ {
			gap := result.Peaks[i].Time - result.Peaks[i-1].Time
			if gap < 0.25 {
				t.Errorf("bpm=%v: peaks %d,%d only %.4f s apart", bpm, i-1, i, gap)
			}
		}
	}
}

func TestDetectPeaksRRRangeInvariant(t *testing.T) {
	samples := simSamples(t, 60, 0.005, 2500)
	result := DetectPeaks(samples, DefaultConfig())
	for _, rr := range result.RRIntervals {
		if rr <= 0.3 || rr >= 2.0 {
			t.Errorf("RR interval %v outside (0.3, 2.0)", rr)
		}
	}
}

func TestDetectPeaksPureNoise(t *testing.T) {
	// 5 s of low-amplitude noise, everything below the 0.4 amplitude gate:
	// the adaptive threshold will find envelope maxima, the gate must
	// reject every one of them.
	samples := make([]Sample, 1250)
	for i := range samples {
		tm := float64(i) / 250
		samples[i] = Sample{
			Time:  tm,
			Value: 0.05 * math.Sin(493.7*tm) * math.Cos(57.3*tm+0.4),
		}
	}
	result := DetectPeaks(samples, DefaultConfig())

	if len(result.Peaks) != 0 {
		t.Errorf("peak count = %d on pure sub-gate noise, want 0", len(result.Peaks))
	}
	if result.AvgHR != 0 || result.InstantHR != 0 {
		t.Errorf("HR = %v/%v on pure noise, want 0/0", result.InstantHR, result.AvgHR)
	}
}

func TestDetectPeaksInsufficientData(t *testing.T) {
	samples := simSamples(t, 72, 0, 30)
	result := DetectPeaks(samples, DefaultConfig())

	if len(result.Peaks) != 0 || len(result.RRIntervals) != 0 {
		t.Errorf("got %d peaks, %d RR intervals on 30 samples, want 0, 0",
			len(result.Peaks), len(result.RRIntervals))
	}
	if result.InstantHR != 0 || result.AvgHR != 0 {
		t.Errorf("HR = %v/%v on 30 samples, want exactly 0/0", result.InstantHR, result.AvgHR)
	}
	if result.Peaks == nil || result.RRIntervals == nil {
		t.Error("empty result slices should be non-nil")
	}
}

func TestDetectPeaksMapsToTrueRWave(t *testing.T) {
	// Every detected peak must sit on the actual R-wave sample: the tallest
	// sample in its neighborhood, with near-unit amplitude.
	samples := simSamples(t, 72, 0, 2500)
	result := DetectPeaks(samples, DefaultConfig())

	if len(result.Peaks) == 0 {
		t.Fatal("no peaks detected")
	}
	for _, p := range result.Peaks {
		if p.Value < 0.9 {
			t.Errorf("peak at t=%.3f has amplitude %.3f, want ~1.0 (missed the R-wave)", p.Time, p.Value)
		}
		if samples[p.Index].Value != p.Value || samples[p.Index].Time != p.Time {
			t.Errorf("peak index %d does not point at its own sample", p.Index)
		}
	}
}

func TestPickPeaksShortEnvelope(t *testing.T) {
	samples := simSamples(t, 72, 0, 12)
	peaks := pickPeaks(make([]float64, 9), samples, derivativeTrim, DefaultConfig())
	if len(peaks) != 0 {
		t.Errorf("pickPeaks() on 9-sample envelope = %d peaks, want 0", len(peaks))
	}
}

func TestAmplitudeFloorConfigurable(t *testing.T) {
	// Raising the floor above the R amplitude must reject every beat; this
	// is the documented failure mode for mis-scaled input units.
	samples := simSamples(t, 72, 0, 2500)
	cfg := DefaultConfig()
	cfg.AmplitudeFloor = 1.5

	result := DetectPeaks(samples, cfg)
	if len(result.Peaks) != 0 {
		t.Errorf("peak count = %d with floor above signal range, want 0", len(result.Peaks))
	}
}
