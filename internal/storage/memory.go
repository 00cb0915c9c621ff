package storage

import (
	"math"
	"sort"
	"sync"
	"time"
)

const defaultBufferSize = 120

// TrendBuffer implements in-memory storage with a per-session ring buffer
// and statistics. A zero heart rate marks a gap (detector warming up or
// signal lost) and is excluded from the numeric stats.
type TrendBuffer struct {
	bufferSize int
	sessions   map[string]*sessionBuffer
	mu         sync.RWMutex
}

// sessionBuffer holds readings for a single session
type sessionBuffer struct {
	readings        []reading
	head            int  // Next write position
	count           int  // Number of valid readings
	full            bool // Whether buffer has wrapped
	lastUpdate      time.Time
	firstReadingIdx int  // Index of first nonzero reading (-1 if none yet)
	hasFirstReading bool // Whether we've seen a nonzero heart rate
	mu              sync.RWMutex
}

// reading represents a single heart-rate measurement
type reading struct {
	timestamp time.Time
	hrBPM     float64 // 0 for a gap
}

// NewTrendBuffer creates a new in-memory trend buffer
func NewTrendBuffer(bufferSize int) *TrendBuffer {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &TrendBuffer{
		bufferSize: bufferSize,
		sessions:   make(map[string]*sessionBuffer),
	}
}

// Write stores a heart rate reading for a session
func (m *TrendBuffer) Write(sessionName string, timestamp time.Time, hrBPM float64) {
	m.mu.RLock()
	sb, exists := m.sessions[sessionName]
	m.mu.RUnlock()

	if !exists {
		m.mu.Lock()
		// Double-check after acquiring write lock
		if sb, exists = m.sessions[sessionName]; !exists {
			sb = &sessionBuffer{
				readings:        make([]reading, m.bufferSize),
				firstReadingIdx: -1, // No heart rate seen yet
			}
			m.sessions[sessionName] = sb
		}
		m.mu.Unlock()
	}

	sb.mu.Lock()
	defer sb.mu.Unlock()

	currentIdx := sb.head
	sb.readings[sb.head] = reading{
		timestamp: timestamp,
		hrBPM:     hrBPM,
	}

	// Track the first real reading (hrBPM > 0 means the detector locked on)
	if !sb.hasFirstReading && hrBPM > 0 {
		sb.firstReadingIdx = currentIdx
		sb.hasFirstReading = true
	}

	sb.head = (sb.head + 1) % m.bufferSize
	if sb.count < m.bufferSize {
		sb.count++
	} else {
		sb.full = true
		// If buffer wrapped and overwrote the first reading, update it
		if sb.hasFirstReading && sb.head == sb.firstReadingIdx {
			// Find the next nonzero reading
			sb.firstReadingIdx = -1
			sb.hasFirstReading = false
			for i := 0; i < m.bufferSize; i++ {
				idx := (sb.head + i) % m.bufferSize
				if sb.readings[idx].hrBPM > 0 {
					sb.firstReadingIdx = idx
					sb.hasFirstReading = true
					break
				}
			}
		}
	}
	sb.lastUpdate = timestamp
}

// GetStats returns current statistics for a session
func (m *TrendBuffer) GetStats(sessionName string) *TrendStats {
	m.mu.RLock()
	sb, exists := m.sessions[sessionName]
	m.mu.RUnlock()

	if !exists {
		return &TrendStats{Session: sessionName}
	}

	sb.mu.RLock()
	defer sb.mu.RUnlock()

	return calculateStats(sessionName, sb, m.bufferSize)
}

// GetHistory returns the last N readings for a session (for sparklines)
func (m *TrendBuffer) GetHistory(sessionName string, count int) []float64 {
	m.mu.RLock()
	sb, exists := m.sessions[sessionName]
	m.mu.RUnlock()

	if !exists {
		return []float64{}
	}

	sb.mu.RLock()
	defer sb.mu.RUnlock()

	if count <= 0 || count > sb.count {
		count = sb.count
	}

	result := make([]float64, count)

	// Read readings in chronological order (oldest to newest)
	start := sb.head - count
	if start < 0 {
		start += m.bufferSize
	}

	for i := 0; i < count; i++ {
		idx := (start + i) % m.bufferSize
		result[i] = sb.readings[idx].hrBPM
	}

	return result
}

// GetAllStats returns statistics for all sessions
func (m *TrendBuffer) GetAllStats() map[string]*TrendStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]*TrendStats, len(m.sessions))
	for name, sb := range m.sessions {
		sb.mu.RLock()
		result[name] = calculateStats(name, sb, m.bufferSize)
		sb.mu.RUnlock()
	}
	return result
}

// calculateStats computes statistics from a session buffer
// Must be called with sb.mu held
func calculateStats(sessionName string, sb *sessionBuffer, bufferSize int) *TrendStats {
	stats := &TrendStats{
		Session:    sessionName,
		LastUpdate: sb.lastUpdate,
	}

	if sb.count == 0 {
		return stats
	}

	// If the detector never locked on, return empty stats rather than
	// reporting a 100% gap ratio during warmup
	if !sb.hasFirstReading {
		return stats
	}

	// Calculate how many readings to consider (from first reading to current)
	var startIdx, sampleCount int
	if sb.full {
		// Buffer is full, start from firstReadingIdx and wrap around
		startIdx = sb.firstReadingIdx
		if sb.head > sb.firstReadingIdx {
			sampleCount = sb.head - sb.firstReadingIdx
		} else {
			sampleCount = bufferSize - sb.firstReadingIdx + sb.head
		}
	} else {
		startIdx = sb.firstReadingIdx
		sampleCount = sb.count - sb.firstReadingIdx
	}

	if sampleCount <= 0 {
		return stats
	}

	// Collect real readings (exclude gaps)
	values := make([]float64, 0, sampleCount)
	gapCount := 0

	for i := 0; i < sampleCount; i++ {
		idx := (startIdx + i) % bufferSize
		hr := sb.readings[idx].hrBPM
		if hr <= 0 {
			gapCount++
		} else {
			values = append(values, hr)
		}
	}

	stats.SampleCount = sampleCount
	stats.GapPct = float64(gapCount) / float64(sampleCount) * 100

	if len(values) == 0 {
		stats.LastBPM = -1
		return stats
	}

	// Get last value
	lastIdx := sb.head - 1
	if lastIdx < 0 {
		lastIdx = bufferSize - 1
	}
	stats.LastBPM = sb.readings[lastIdx].hrBPM

	// Sort for percentile calculations
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	stats.MinBPM = sorted[0]
	stats.MaxBPM = sorted[len(sorted)-1]
	stats.MedianBPM = percentile(sorted, 50)
	stats.P95BPM = percentile(sorted, 95)
	stats.AvgBPM = mean(values)
	stats.StdDevBPM = stddev(values, stats.AvgBPM)

	return stats
}

// percentile calculates the p-th percentile of sorted values
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	idx := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))

	if lower == upper {
		return sorted[lower]
	}

	// Linear interpolation
	weight := idx - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// mean calculates the arithmetic mean
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev calculates the standard deviation
func stddev(values []float64, avg float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sumSquares := 0.0
	for _, v := range values {
		diff := v - avg
		sumSquares += diff * diff
	}
	return math.Sqrt(sumSquares / float64(len(values)))
}
