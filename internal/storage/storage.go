package storage

import (
	"time"
)

// TrendPoint represents a single heart-rate trend point in time series
type TrendPoint struct {
	Timestamp time.Time `json:"timestamp"`
	HR        float64   `json:"hr"`   // Heart rate in BPM, NaN for gaps or no data
	SDNN      float64   `json:"sdnn"` // HRV SDNN in ms, NaN when not computable
}

// TrendStats represents heart-rate statistics for a session
type TrendStats struct {
	Session     string    `json:"session"`
	MinBPM      float64   `json:"min_bpm"`
	MaxBPM      float64   `json:"max_bpm"`
	AvgBPM      float64   `json:"avg_bpm"`
	MedianBPM   float64   `json:"median_bpm"`
	P95BPM      float64   `json:"p95_bpm"`
	StdDevBPM   float64   `json:"stddev_bpm"`
	GapPct      float64   `json:"gap_pct"`
	SampleCount int       `json:"sample_count"`
	LastBPM     float64   `json:"last_bpm"`
	LastUpdate  time.Time `json:"last_update"`
}

// Storage defines the interface for persistent trend storage
type Storage interface {
	// Write stores a heart rate and SDNN value for a session at the given
	// timestamp. A zero heart rate means the detector had insufficient data
	// and is recorded as a gap.
	Write(sessionName string, timestamp time.Time, hrBPM, sdnnMs float64) error

	// Fetch retrieves trend points for a session within a time range
	Fetch(sessionName string, from, to time.Time) ([]TrendPoint, error)

	// Close releases storage resources
	Close() error
}

// MemoryStorage defines the interface for in-memory real-time storage
type MemoryStorage interface {
	// Write stores a heart rate reading for a session
	Write(sessionName string, timestamp time.Time, hrBPM float64)

	// GetStats returns current statistics for a session
	GetStats(sessionName string) *TrendStats

	// GetHistory returns the last N readings for a session
	GetHistory(sessionName string, count int) []float64

	// GetAllStats returns statistics for all sessions
	GetAllStats() map[string]*TrendStats
}
