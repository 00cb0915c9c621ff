package simulator

import (
	"math"
	"testing"
)

func TestNextAdvancesAtSampleSpacing(t *testing.T) {
	sim := New(250, 72, 0)

	t0, _ := sim.Next()
	t1, _ := sim.Next()

	if t0 != 0 {
		t.Errorf("first sample time = %v, want 0", t0)
	}
	if math.Abs(t1-1.0/250) > 1e-12 {
		t.Errorf("sample spacing = %v, want %v", t1-t0, 1.0/250)
	}
}

func TestTakeMatchesNext(t *testing.T) {
	a := New(250, 72, 0.01)
	b := New(250, 72, 0.01)

	times, values := a.Take(100)
	for i := 0; i < 100; i++ {
		wt, wv := b.Next()
		if times[i] != wt || values[i] != wv {
			t.Fatalf("Take diverges from Next at sample %d", i)
		}
	}
}

func TestWaveformIsPeriodic(t *testing.T) {
	// At 60 BPM the beat period is 1 s and the respiratory drift period is
	// 4 s, so the full signal repeats every 4 s = 1000 samples at 250 Hz
	sim := New(250, 60, 0)
	_, values := sim.Take(4000)

	for i := 0; i < 1000; i++ {
		for rep := 1; rep < 4; rep++ {
			if math.Abs(values[i+1000*rep]-values[i]) > 1e-9 {
				t.Fatalf("sample %d repetition %d: %v != %v", i, rep, values[i+1000*rep], values[i])
			}
		}
	}
}

func TestRPeakDominatesWaveform(t *testing.T) {
	sim := New(250, 72, 0)
	_, values := sim.Take(5 * 250)

	max := values[0]
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	if max < 0.9 {
		t.Errorf("waveform max = %v, want close to R amplitude 1.0", max)
	}
}

func TestNoiseIsDeterministic(t *testing.T) {
	a := New(250, 72, 0.02)
	b := New(250, 72, 0.02)

	_, va := a.Take(500)
	_, vb := b.Take(500)
	for i := range va {
		if va[i] != vb[i] {
			t.Fatalf("noise differs at sample %d", i)
		}
	}
}
