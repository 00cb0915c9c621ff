package ingest

import (
	"math"
	"strings"
	"testing"
)

func TestReadSingleColumn(t *testing.T) {
	input := "0.1\n0.2\n0.3\n0.4\n"

	rec, err := Read(strings.NewReader(input), 250)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if rec.SampleRate != 250 {
		t.Errorf("SampleRate = %v, want 250", rec.SampleRate)
	}
	if len(rec.Samples) != 4 {
		t.Fatalf("len(Samples) = %d, want 4", len(rec.Samples))
	}
	if rec.Samples[0].Time != 0 {
		t.Errorf("Samples[0].Time = %v, want 0", rec.Samples[0].Time)
	}
	if math.Abs(rec.Samples[2].Time-2.0/250) > 1e-12 {
		t.Errorf("Samples[2].Time = %v, want %v", rec.Samples[2].Time, 2.0/250)
	}
	if rec.Samples[3].Value != 0.4 {
		t.Errorf("Samples[3].Value = %v, want 0.4", rec.Samples[3].Value)
	}
}

func TestReadTwoColumnWithHeader(t *testing.T) {
	input := "time,value\n0.000,0.05\n0.004,0.10\n0.008,0.95\n0.012,0.10\n"

	rec, err := Read(strings.NewReader(input), 128)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	// Spacing is 4 ms so the derived rate is 250 Hz, ignoring the assumed rate
	if math.Abs(rec.SampleRate-250) > 0.5 {
		t.Errorf("SampleRate = %v, want 250", rec.SampleRate)
	}
	if len(rec.Samples) != 4 {
		t.Fatalf("len(Samples) = %d, want 4", len(rec.Samples))
	}
	if rec.Samples[2].Time != 0.008 || rec.Samples[2].Value != 0.95 {
		t.Errorf("Samples[2] = %+v, want {0.008 0.95}", rec.Samples[2])
	}
}

func TestReadDelimiterSniffing(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"semicolon", "0.000;0.05\n0.004;0.10\n0.008;0.95\n"},
		{"tab", "0.000\t0.05\n0.004\t0.10\n0.008\t0.95\n"},
		{"comma", "0.000,0.05\n0.004,0.10\n0.008,0.95\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Read(strings.NewReader(tt.input), 250)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if len(rec.Samples) != 3 {
				t.Fatalf("len(Samples) = %d, want 3", len(rec.Samples))
			}
			if rec.Samples[2].Value != 0.95 {
				t.Errorf("Samples[2].Value = %v, want 0.95", rec.Samples[2].Value)
			}
		})
	}
}

func TestReadDerivedRateToleratesDroppedSample(t *testing.T) {
	// One 8 ms gap among 4 ms spacings; median spacing still gives 250 Hz
	input := "0.000,0.1\n0.004,0.2\n0.008,0.3\n0.016,0.4\n0.020,0.5\n0.024,0.6\n"

	rec, err := Read(strings.NewReader(input), 100)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if math.Abs(rec.SampleRate-250) > 0.5 {
		t.Errorf("SampleRate = %v, want 250", rec.SampleRate)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		rate  float64
	}{
		{"empty", "", 250},
		{"header only", "time,value\n", 250},
		{"non-numeric mid-file", "0.1\n0.2\nbad\n", 250},
		{"mixed column counts", "0.1\n0.004,0.2\n", 250},
		{"non-increasing timestamps", "0.004,0.1\n0.004,0.2\n", 250},
		{"zero assumed rate", "0.1\n0.2\n", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(tt.input), tt.rate); err == nil {
				t.Error("Read() expected error, got nil")
			}
		})
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile("/nonexistent/recording.csv", 250); err == nil {
		t.Error("ReadFile() expected error for missing file, got nil")
	}
}
