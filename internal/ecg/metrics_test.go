package ecg

import (
	"math"
	"testing"
)

func peaksAt(times ...float64) []Peak {
	peaks := make([]Peak, len(times))
	for i, tm := range times {
		peaks[i] = Peak{Time: tm, Value: 1, Index: i}
	}
	return peaks
}

func TestComputeMetrics(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name        string
		peaks       []Peak
		wantRR      []float64
		wantInstant float64
		wantAvg     float64
	}{
		{
			name:        "steady 75 BPM",
			peaks:       peaksAt(0, 0.8, 1.6, 2.4),
			wantRR:      []float64{0.8, 0.8, 0.8},
			wantInstant: 75,
			wantAvg:     75,
		},
		{
			name:        "artifact interval excluded from RR but peaks kept",
			peaks:       peaksAt(0, 0.8, 1.6, 1.7),
			wantRR:      []float64{0.8, 0.8},
			wantInstant: 75,
			wantAvg:     75,
		},
		{
			name:        "long dropout excluded",
			peaks:       peaksAt(0, 0.5, 3.0),
			wantRR:      []float64{0.5},
			wantInstant: 120,
			wantAvg:     120,
		},
		{
			name:        "single peak",
			peaks:       peaksAt(1.0),
			wantRR:      []float64{},
			wantInstant: 0,
			wantAvg:     0,
		},
		{
			name:        "no peaks",
			peaks:       []Peak{},
			wantRR:      []float64{},
			wantInstant: 0,
			wantAvg:     0,
		},
		{
			name:        "all intervals out of range",
			peaks:       peaksAt(0, 0.1, 0.2),
			wantRR:      []float64{},
			wantInstant: 0,
			wantAvg:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, instant, avg := computeMetrics(tt.peaks, cfg)
			if len(rr) != len(tt.wantRR) {
				t.Fatalf("RR = %v, want %v", rr, tt.wantRR)
			}
			for i := range rr {
				if math.Abs(rr[i]-tt.wantRR[i]) > 1e-9 {
					t.Errorf("RR[%d] = %v, want %v", i, rr[i], tt.wantRR[i])
				}
			}
			if math.Abs(instant-tt.wantInstant) > 1e-9 {
				t.Errorf("instantHR = %v, want %v", instant, tt.wantInstant)
			}
			if math.Abs(avg-tt.wantAvg) > 1e-9 {
				t.Errorf("avgHR = %v, want %v", avg, tt.wantAvg)
			}
		})
	}
}

func TestComputeMetricsRRBoundsExclusive(t *testing.T) {
	cfg := DefaultConfig()

	// Exactly 0.3 s and exactly 2.0 s sit on the boundary and are excluded.
	rr, _, _ := computeMetrics(peaksAt(0, 0.3, 2.3), cfg)
	if len(rr) != 0 {
		t.Errorf("boundary intervals not excluded: RR = %v", rr)
	}
}

func TestSDNN(t *testing.T) {
	tests := []struct {
		name string
		rr   []float64
		want float64
	}{
		{"fewer than two intervals", []float64{0.8}, 0},
		{"empty", nil, 0},
		{"constant intervals", []float64{0.8, 0.8, 0.8}, 0},
		// mean 0.9, population variance (0.01+0.01+0)/3
		{"known variance", []float64{0.8, 1.0, 0.9}, math.Sqrt(0.02/3) * 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SDNN(tt.rr); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("SDNN(%v) = %v, want %v", tt.rr, got, tt.want)
			}
		})
	}
}

func TestRMSSD(t *testing.T) {
	tests := []struct {
		name string
		rr   []float64
		want float64
	}{
		{"fewer than two intervals", []float64{0.8}, 0},
		{"constant intervals", []float64{0.8, 0.8, 0.8, 0.8}, 0},
		// successive diffs 0.2, -0.1 -> sqrt((0.04+0.01)/2)
		{"known diffs", []float64{0.8, 1.0, 0.9}, math.Sqrt(0.025) * 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RMSSD(tt.rr); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("RMSSD(%v) = %v, want %v", tt.rr, got, tt.want)
			}
		})
	}
}
