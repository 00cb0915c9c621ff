package ingest

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/Gowtham-1301/cardiopulse/internal/ecg"
)

// Recording is a parsed ECG recording ready to feed the detector.
type Recording struct {
	Samples    []ecg.Sample
	SampleRate float64
}

// ReadFile parses an ECG recording from a CSV file. Columns may be
// "value" (timestamps synthesized at assumedRate) or "time,value"
// (sample rate derived from the median timestamp spacing).
func ReadFile(path string, assumedRate float64) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open recording: %w", err)
	}
	defer f.Close()

	rec, err := Read(f, assumedRate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

// Read parses an ECG recording from r. The delimiter (comma, semicolon or
// tab) is sniffed from the first line, and a header row is skipped when the
// first field is not numeric.
func Read(r io.Reader, assumedRate float64) (*Recording, error) {
	if assumedRate <= 0 {
		return nil, fmt.Errorf("assumed sample rate must be positive, got %v", assumedRate)
	}

	br := bufio.NewReader(r)
	delim, err := sniffDelimiter(br)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(br)
	cr.Comma = delim
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	var (
		times  []float64
		values []float64
		twoCol bool
		row    int
	)

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row+1, err)
		}
		row++

		if len(record) == 0 {
			continue
		}

		first, ferr := parseField(record[0])
		if ferr != nil {
			// Non-numeric first field: treat the first such row as a header,
			// anything later is malformed data.
			if row == 1 {
				continue
			}
			return nil, fmt.Errorf("row %d: invalid value %q", row, record[0])
		}

		switch {
		case len(record) >= 2 && strings.TrimSpace(record[1]) != "":
			second, serr := parseField(record[1])
			if serr != nil {
				return nil, fmt.Errorf("row %d: invalid value %q", row, record[1])
			}
			if len(values) == 0 {
				twoCol = true
			} else if !twoCol {
				return nil, fmt.Errorf("row %d: mixed column counts", row)
			}
			times = append(times, first)
			values = append(values, second)
		default:
			if twoCol {
				return nil, fmt.Errorf("row %d: mixed column counts", row)
			}
			values = append(values, first)
		}
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("recording contains no samples")
	}

	rec := &Recording{Samples: make([]ecg.Sample, len(values))}

	if twoCol {
		rate, err := rateFromTimestamps(times)
		if err != nil {
			return nil, err
		}
		rec.SampleRate = rate
		for i := range values {
			rec.Samples[i] = ecg.Sample{Time: times[i], Value: values[i]}
		}
	} else {
		rec.SampleRate = assumedRate
		for i := range values {
			rec.Samples[i] = ecg.Sample{Time: float64(i) / assumedRate, Value: values[i]}
		}
	}

	return rec, nil
}

// sniffDelimiter peeks at the first line and picks the delimiter with the
// most occurrences. Defaults to comma when none appear (single-column files).
func sniffDelimiter(br *bufio.Reader) (rune, error) {
	peek, err := br.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return 0, fmt.Errorf("failed to read recording: %w", err)
	}
	line := string(peek)
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}

	best := ','
	bestCount := strings.Count(line, ",")
	if c := strings.Count(line, ";"); c > bestCount {
		best, bestCount = ';', c
	}
	if c := strings.Count(line, "\t"); c > bestCount {
		best = '\t'
	}
	return best, nil
}

func parseField(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// rateFromTimestamps derives the sample rate from the median spacing between
// consecutive timestamps. The median tolerates the occasional dropped sample.
func rateFromTimestamps(times []float64) (float64, error) {
	if len(times) < 2 {
		return 0, fmt.Errorf("need at least 2 timestamped samples to derive a sample rate")
	}

	diffs := make([]float64, 0, len(times)-1)
	for i := 1; i < len(times); i++ {
		d := times[i] - times[i-1]
		if d <= 0 {
			return 0, fmt.Errorf("timestamps must be strictly increasing (row %d)", i+1)
		}
		diffs = append(diffs, d)
	}

	sort.Float64s(diffs)
	median := diffs[len(diffs)/2]
	if len(diffs)%2 == 0 {
		median = (diffs[len(diffs)/2-1] + diffs[len(diffs)/2]) / 2
	}
	if median <= 0 {
		return 0, fmt.Errorf("could not derive sample rate from timestamps")
	}

	return 1 / median, nil
}
