package storage

import (
	"math"
	"testing"
	"time"
)

func TestTrendBufferStats(t *testing.T) {
	tb := NewTrendBuffer(10)
	base := time.Now()

	for i, hr := range []float64{70, 72, 74, 76, 78} {
		tb.Write("demo", base.Add(time.Duration(i)*time.Second), hr)
	}

	stats := tb.GetStats("demo")
	if stats.SampleCount != 5 {
		t.Errorf("SampleCount = %d, want 5", stats.SampleCount)
	}
	if stats.MinBPM != 70 || stats.MaxBPM != 78 {
		t.Errorf("Min/Max = %v/%v, want 70/78", stats.MinBPM, stats.MaxBPM)
	}
	if math.Abs(stats.AvgBPM-74) > 1e-9 {
		t.Errorf("AvgBPM = %v, want 74", stats.AvgBPM)
	}
	if stats.MedianBPM != 74 {
		t.Errorf("MedianBPM = %v, want 74", stats.MedianBPM)
	}
	if stats.LastBPM != 78 {
		t.Errorf("LastBPM = %v, want 78", stats.LastBPM)
	}
	if stats.GapPct != 0 {
		t.Errorf("GapPct = %v, want 0", stats.GapPct)
	}
}

func TestTrendBufferGaps(t *testing.T) {
	tb := NewTrendBuffer(10)
	base := time.Now()

	// Leading gaps before the detector locks on should not count
	tb.Write("demo", base, 0)
	tb.Write("demo", base.Add(time.Second), 0)

	stats := tb.GetStats("demo")
	if stats.SampleCount != 0 {
		t.Errorf("SampleCount before first reading = %d, want 0", stats.SampleCount)
	}
	if stats.GapPct != 0 {
		t.Errorf("GapPct before first reading = %v, want 0", stats.GapPct)
	}

	// After the first real reading, gaps count toward GapPct
	tb.Write("demo", base.Add(2*time.Second), 72)
	tb.Write("demo", base.Add(3*time.Second), 0)
	tb.Write("demo", base.Add(4*time.Second), 74)
	tb.Write("demo", base.Add(5*time.Second), 0)

	stats = tb.GetStats("demo")
	if stats.SampleCount != 4 {
		t.Errorf("SampleCount = %d, want 4", stats.SampleCount)
	}
	if stats.GapPct != 50 {
		t.Errorf("GapPct = %v, want 50", stats.GapPct)
	}
	if math.Abs(stats.AvgBPM-73) > 1e-9 {
		t.Errorf("AvgBPM = %v, want 73", stats.AvgBPM)
	}
}

func TestTrendBufferWrap(t *testing.T) {
	tb := NewTrendBuffer(4)
	base := time.Now()

	for i := 0; i < 10; i++ {
		tb.Write("demo", base.Add(time.Duration(i)*time.Second), float64(60+i))
	}

	stats := tb.GetStats("demo")
	if stats.SampleCount != 4 {
		t.Errorf("SampleCount after wrap = %d, want 4", stats.SampleCount)
	}
	// Last four writes were 66..69
	if stats.MinBPM != 66 || stats.MaxBPM != 69 {
		t.Errorf("Min/Max after wrap = %v/%v, want 66/69", stats.MinBPM, stats.MaxBPM)
	}

	history := tb.GetHistory("demo", 3)
	want := []float64{67, 68, 69}
	if len(history) != 3 {
		t.Fatalf("len(history) = %d, want 3", len(history))
	}
	for i := range want {
		if history[i] != want[i] {
			t.Errorf("history[%d] = %v, want %v", i, history[i], want[i])
		}
	}
}

func TestTrendBufferUnknownSession(t *testing.T) {
	tb := NewTrendBuffer(10)

	stats := tb.GetStats("missing")
	if stats.Session != "missing" || stats.SampleCount != 0 {
		t.Errorf("GetStats(missing) = %+v, want empty stats", stats)
	}
	if h := tb.GetHistory("missing", 5); len(h) != 0 {
		t.Errorf("GetHistory(missing) returned %d values, want 0", len(h))
	}
}

func TestTrendBufferGetAllStats(t *testing.T) {
	tb := NewTrendBuffer(10)
	base := time.Now()

	tb.Write("a", base, 60)
	tb.Write("b", base, 80)

	all := tb.GetAllStats()
	if len(all) != 2 {
		t.Fatalf("len(GetAllStats()) = %d, want 2", len(all))
	}
	if all["a"].LastBPM != 60 || all["b"].LastBPM != 80 {
		t.Errorf("LastBPM a=%v b=%v, want 60/80", all["a"].LastBPM, all["b"].LastBPM)
	}
}

func TestPercentile(t *testing.T) {
	sorted := []float64{60, 70, 80, 90, 100}

	if got := percentile(sorted, 50); got != 80 {
		t.Errorf("percentile(50) = %v, want 80", got)
	}
	if got := percentile(sorted, 100); got != 100 {
		t.Errorf("percentile(100) = %v, want 100", got)
	}
	if got := percentile([]float64{42}, 95); got != 42 {
		t.Errorf("percentile single = %v, want 42", got)
	}
	if got := percentile(nil, 95); got != 0 {
		t.Errorf("percentile empty = %v, want 0", got)
	}
}
