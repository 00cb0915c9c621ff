package storage

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/ziutek/rrd"
)

// RRDStorage implements persistent trend storage using RRD files with
// heart-rate and SDNN data sources
type RRDStorage struct {
	dataDir     string
	step        time.Duration
	heartbeat   time.Duration
	xff         float64
	aggregation string // "AVERAGE", "MIN", "MAX", "LAST"

	// RRA configurations: steps, rows
	rras []rraConfig

	updaters map[string]*rrd.Updater
	mu       sync.RWMutex
}

// rraConfig defines an RRA (Round Robin Archive) configuration
type rraConfig struct {
	steps int // Number of primary data points per consolidated data point
	rows  int // Number of rows (consolidated data points) in the archive
}

// NewRRDStorage creates a new RRD storage instance
func NewRRDStorage(dataDir string, step time.Duration, retentionStr string, xff float64, aggregation string) (*RRDStorage, error) {
	// Parse retention string (e.g., "1s:1h,10s:1d,1m:7d")
	rras, err := parseRRAs(retentionStr, step)
	if err != nil {
		return nil, fmt.Errorf("failed to parse retentions: %w", err)
	}

	// Ensure data directory exists
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// Convert aggregation to uppercase for RRD (average -> AVERAGE)
	aggUpper := strings.ToUpper(aggregation)
	if aggUpper == "" {
		aggUpper = "AVERAGE" // Default fallback
	}

	return &RRDStorage{
		dataDir:     dataDir,
		step:        step,
		heartbeat:   step * 3, // Heartbeat is 3x step for tolerance
		xff:         xff,
		aggregation: aggUpper,
		rras:        rras,
		updaters:    make(map[string]*rrd.Updater),
	}, nil
}

// Write stores a heart rate and SDNN value for a session. A zero heart rate
// is persisted as NaN so aggregated archives don't average gaps into real
// readings.
func (s *RRDStorage) Write(sessionName string, timestamp time.Time, hrBPM, sdnnMs float64) error {
	filename := s.getFilename(sessionName)

	// Create RRD file if it doesn't exist
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		if err := s.createRRD(filename); err != nil {
			return fmt.Errorf("failed to create RRD file: %w", err)
		}
	}

	// Get or create updater
	s.mu.Lock()
	u, exists := s.updaters[sessionName]
	if !exists {
		u = rrd.NewUpdater(filename)
		s.updaters[sessionName] = u
	}
	s.mu.Unlock()

	var hrVal, sdnnVal interface{}

	if hrBPM <= 0 {
		hrVal = math.NaN()
	} else {
		hrVal = hrBPM
	}
	if sdnnMs <= 0 {
		sdnnVal = math.NaN()
	} else {
		sdnnVal = sdnnMs
	}

	return u.Update(timestamp, hrVal, sdnnVal)
}

// Fetch retrieves trend points for a session within a time range
func (s *RRDStorage) Fetch(sessionName string, from, to time.Time) ([]TrendPoint, error) {
	filename := s.getFilename(sessionName)

	// Check if file exists
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return []TrendPoint{}, nil
	}

	// Calculate appropriate step based on query duration to match RRA archives
	duration := to.Sub(from)
	step := s.calculateStep(duration)

	// Fetch data from RRD using configured aggregation method
	fetchRes, err := rrd.Fetch(filename, s.aggregation, from, to, step)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch data: %w", err)
	}
	defer fetchRes.FreeValues()

	rowCount := fetchRes.RowCnt
	dsCount := len(fetchRes.DsNames)

	// Verify we have the expected data sources (hr=0, sdnn=1)
	if dsCount < 2 {
		return nil, fmt.Errorf("unexpected data source count: %d (expected 2)", dsCount)
	}

	points := make([]TrendPoint, 0, rowCount)

	for row := 0; row < rowCount; row++ {
		ts := fetchRes.Start.Add(time.Duration(row) * fetchRes.Step)

		hr := fetchRes.ValueAt(0, row)   // DS 0 = heart rate
		sdnn := fetchRes.ValueAt(1, row) // DS 1 = sdnn

		points = append(points, TrendPoint{
			Timestamp: ts,
			HR:        hr,
			SDNN:      sdnn,
		})
	}

	return points, nil
}

// calculateStep returns the appropriate step duration based on query duration.
// This matches the step to the correct RRA archive defined in the retention policy.
func (s *RRDStorage) calculateStep(duration time.Duration) time.Duration {
	switch {
	case duration <= time.Hour:
		// Use base step for queries up to 1 hour (matches first RRA: 1s:1h)
		return s.step
	case duration <= 24*time.Hour:
		// Use 10 second step for queries up to 1 day (matches second RRA: 10s:1d)
		return 10 * time.Second
	default:
		// Use 1 minute step for longer queries (matches third RRA: 1m:7d)
		return time.Minute
	}
}

// Close closes all open RRD updaters
func (s *RRDStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Clear updaters map (RRD updaters don't need explicit closing)
	s.updaters = make(map[string]*rrd.Updater)
	return nil
}

// createRRD creates a new RRD file with heart-rate and SDNN data sources
func (s *RRDStorage) createRRD(filename string) error {
	stepSecs := uint(s.step.Seconds())
	heartbeatSecs := int(s.heartbeat.Seconds())

	c := rrd.NewCreator(filename, time.Now().Add(-s.step), stepSecs)

	// Add RRAs (archives) with configured aggregation method
	for _, rra := range s.rras {
		c.RRA(s.aggregation, s.xff, rra.steps, rra.rows)
	}

	// Add data sources
	// DS 0: heart rate in BPM (GAUGE, heartbeat, min=0, max=300)
	c.DS("hr", "GAUGE", heartbeatSecs, 0, 300)
	// DS 1: SDNN in ms (GAUGE, heartbeat, min=0, max=unlimited)
	c.DS("sdnn", "GAUGE", heartbeatSecs, 0, "U")

	return c.Create(false) // Don't overwrite if exists
}

// unsafeFilenameChars matches characters that are unsafe for filenames on various filesystems
var unsafeFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// getFilename returns the RRD file path for a session
func (s *RRDStorage) getFilename(sessionName string) string {
	// Sanitize session name for filesystem
	safe := strings.ReplaceAll(sessionName, " ", "_")
	safe = unsafeFilenameChars.ReplaceAllString(safe, "_")
	safe = strings.ToLower(safe)
	safe = regexp.MustCompile(`_+`).ReplaceAllString(safe, "_")
	safe = strings.Trim(safe, "_")
	if len(safe) > 200 {
		safe = safe[:200]
	}
	if safe == "" {
		safe = "unnamed"
	}
	return filepath.Join(s.dataDir, safe+".rrd")
}

// parseRRAs parses a retention string like "1s:1h,10s:1d,1m:7d" into RRA configurations
func parseRRAs(retentionStr string, baseStep time.Duration) ([]rraConfig, error) {
	parts := strings.Split(retentionStr, ",")
	rras := make([]rraConfig, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		// Parse "resolution:duration" format
		subparts := strings.Split(part, ":")
		if len(subparts) != 2 {
			return nil, fmt.Errorf("invalid retention format: %s", part)
		}

		resolution, err := parseDuration(subparts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid resolution in %s: %w", part, err)
		}

		duration, err := parseDuration(subparts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid duration in %s: %w", part, err)
		}

		// Calculate steps (how many base steps per consolidated point)
		steps := int(resolution / baseStep)
		if steps < 1 {
			steps = 1
		}

		// Calculate rows (how many consolidated points to store)
		rows := int(duration / resolution)
		if rows < 1 {
			rows = 1
		}

		rras = append(rras, rraConfig{steps: steps, rows: rows})
	}

	if len(rras) == 0 {
		return nil, fmt.Errorf("no valid retentions found")
	}

	return rras, nil
}

// parseDuration parses duration strings like "10s", "1m", "1h", "1d", "7d", "90d"
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return 0, fmt.Errorf("empty duration")
	}

	// Check for day suffix (not supported by time.ParseDuration)
	if strings.HasSuffix(s, "d") {
		numStr := s[:len(s)-1]
		var days int
		if _, err := fmt.Sscanf(numStr, "%d", &days); err != nil {
			return 0, fmt.Errorf("invalid day duration: %s", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	return time.ParseDuration(s)
}
