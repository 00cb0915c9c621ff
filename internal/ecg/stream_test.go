package ecg

import (
	"math"
	"testing"
)

func TestStreamingDetectorChunkedFeed(t *testing.T) {
	// 10 s of the 72 BPM waveform delivered in 100 chunks of 25 samples,
	// simulating ~60 fps delivery into a 5 s rolling window. The final
	// accumulated peak count must match a single batch run over the last
	// 5 s of data (the window trims everything older), and no peak may be
	// reported twice across any pair of calls.
	samples := simSamples(t, 72, 0, 2500)
	cfg := DefaultConfig()
	det := NewStreamingDetector(cfg)

	seen := map[float64]bool{}
	var all []float64
	for i := 0; i < 100; i++ {
		result := det.AddData(samples[i*25 : (i+1)*25])

		if det.BufferLen() > cfg.maxBufferSamples() {
			t.Fatalf("chunk %d: buffer length %d exceeds bound %d", i, det.BufferLen(), cfg.maxBufferSamples())
		}
		for j := 1; j < len(result.Peaks); j++ {
			if result.Peaks[j].Time < result.Peaks[j-1].Time {
				t.Fatalf("chunk %d: accumulated peaks not time-ordered", i)
			}
		}
		for _, p := range result.Peaks {
			if !seen[p.Time] {
				seen[p.Time] = true
				all = append(all, p.Time)
			}
		}
	}

	// Union of everything ever reported: refractory spacing must hold.
	refractory := cfg.RefractorySeconds
	for i := 1; i < len(all); i++ {
		if all[i]-all[i-1] < refractory {
			t.Errorf("duplicate detection: peaks at %.4f and %.4f", all[i-1], all[i])
		}
	}

	batch := DetectPeaks(samples[1250:], cfg)
	got := len(det.Peaks())
	want := len(batch.Peaks)
	if got < want-1 || got > want+1 {
		t.Errorf("accumulated peak count = %d, want %d±1 (batch over last 5 s)", got, want)
	}
}

func TestStreamingDetectorGatesSmallChunks(t *testing.T) {
	// Detection only re-runs once 50 unprocessed samples are buffered: a
	// 49-sample appendix containing a fresh beat must not surface it yet.
	samples := simSamples(t, 72, 0, 349)
	det := NewStreamingDetector(DefaultConfig())

	r := det.AddData(samples[:250]) // beat near t=0.27
	if len(r.Peaks) != 1 {
		t.Fatalf("after 250 samples: %d peaks, want 1", len(r.Peaks))
	}

	r = det.AddData(samples[250:299]) // beat near t=1.10 buffered but unprocessed
	if len(r.Peaks) != 1 {
		t.Fatalf("after gated 49-sample chunk: %d peaks, want still 1", len(r.Peaks))
	}

	r = det.AddData(samples[299:349]) // 100 unprocessed samples now, re-detect
	if len(r.Peaks) != 2 {
		t.Fatalf("after crossing the gate: %d peaks, want 2", len(r.Peaks))
	}
}

func TestStreamingDetectorBufferBound(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BufferSeconds = 2 // 500-sample cap
	det := NewStreamingDetector(cfg)

	samples := simSamples(t, 60, 0, 3000)
	for i := 0; i < len(samples); i += 75 {
		det.AddData(samples[i : i+75])
		if det.BufferLen() > 500 {
			t.Fatalf("buffer length %d exceeds 500 after chunk at %d", det.BufferLen(), i)
		}
	}

	// Trimming must also evict peaks older than the buffer and keep
	// remaining indexes aligned with the current buffer.
	buf := det.Buffer()
	for _, p := range det.Peaks() {
		if p.Time < buf[0].Time {
			t.Errorf("stale peak at t=%.3f precedes buffer start t=%.3f", p.Time, buf[0].Time)
		}
		if p.Index < 0 || p.Index >= len(buf) {
			t.Errorf("peak index %d out of buffer range", p.Index)
			continue
		}
		if buf[p.Index].Time != p.Time {
			t.Errorf("peak index %d not aligned after trim: %.4f vs %.4f", p.Index, buf[p.Index].Time, p.Time)
		}
	}
}

func TestStreamingDetectorMetricsConverge(t *testing.T) {
	det := NewStreamingDetector(DefaultConfig())
	samples := simSamples(t, 72, 0, 2500)

	var last Result
	for i := 0; i < 100; i++ {
		last = det.AddData(samples[i*25 : (i+1)*25])
	}
	if math.Abs(last.AvgHR-72) > 2 {
		t.Errorf("streaming AvgHR = %.2f, want 72±2", last.AvgHR)
	}
}

func TestStreamingDetectorReset(t *testing.T) {
	det := NewStreamingDetector(DefaultConfig())
	samples := simSamples(t, 72, 0, 1000)
	det.AddData(samples)

	det.Reset()

	if det.BufferLen() != 0 || len(det.Peaks()) != 0 {
		t.Fatalf("after Reset: buffer=%d peaks=%d, want 0/0", det.BufferLen(), len(det.Peaks()))
	}

	// Observationally identical to a fresh instance: an insufficient-data
	// call yields the zero-valued result.
	r := det.AddData(samples[:30])
	if len(r.Peaks) != 0 || len(r.RRIntervals) != 0 || r.AvgHR != 0 || r.InstantHR != 0 {
		t.Errorf("post-reset insufficient-data call = %+v, want zero-valued result", r)
	}

	// And a full re-feed behaves like the first run.
	det.Reset()
	fresh := NewStreamingDetector(DefaultConfig())
	var a, b Result
	for i := 0; i < 40; i++ {
		a = det.AddData(samples[i*25 : (i+1)*25])
		b = fresh.AddData(samples[i*25 : (i+1)*25])
	}
	if len(a.Peaks) != len(b.Peaks) || a.AvgHR != b.AvgHR {
		t.Errorf("reset detector diverges from fresh instance: %d/%.2f vs %d/%.2f",
			len(a.Peaks), a.AvgHR, len(b.Peaks), b.AvgHR)
	}
}

func TestStreamingDetectorEmptyCalls(t *testing.T) {
	det := NewStreamingDetector(DefaultConfig())

	r := det.AddData(nil)
	if len(r.Peaks) != 0 || r.AvgHR != 0 {
		t.Errorf("AddData(nil) on empty detector = %+v, want zero-valued result", r)
	}
	r = det.AddData([]Sample{})
	if len(r.Peaks) != 0 {
		t.Errorf("AddData(empty) = %d peaks, want 0", len(r.Peaks))
	}
}
