package ecg

// StreamingDetector provides an incremental, stateful detection interface
// for continuous feeds, hiding the batch pipeline behind an append-only API.
//
// The detector keeps a rolling sample buffer bounded at
// SampleRate*BufferSeconds samples and an accumulated peak list. Detection
// re-runs over the whole current buffer (the conditioning stages need
// surrounding context) once at least MinBatchSamples unprocessed samples
// have arrived; peaks already reported in a previous overlapping window are
// not re-emitted. Re-running the batch pipeline each call is intentional:
// the adaptive threshold and refractory semantics depend on whole-window
// statistics, and the bounded buffer caps each call at O(window size).
//
// Not safe for concurrent use; one instance per monitored session.
type StreamingDetector struct {
	cfg       Config
	buffer    []Sample
	peaks     []Peak
	watermark int // buffer index up to which detection has run
}

// NewStreamingDetector returns a detector in the initial (empty) state.
func NewStreamingDetector(cfg Config) *StreamingDetector {
	return &StreamingDetector{
		cfg:    cfg,
		buffer: make([]Sample, 0, cfg.maxBufferSamples()),
		peaks:  []Peak{},
	}
}

// AddData appends samples to the rolling buffer, runs detection if enough
// new data has accumulated, and returns the current accumulated peaks with
// metrics recomputed from them. Samples must be in non-decreasing time
// order. It is safe to call once per frame indefinitely; calls with too
// little new data skip the pipeline and only recompute metrics.
func (d *StreamingDetector) AddData(samples []Sample) Result {
	d.buffer = append(d.buffer, samples...)

	if len(d.buffer)-d.watermark >= d.cfg.MinBatchSamples {
		d.detect()
	}
	d.trim()

	return d.result()
}

// detect re-runs the batch pipeline over the whole buffer and merges new
// peaks into the accumulated list. Only peaks a full refractory period after
// the last accumulated peak are appended: overlapping windows re-detect old
// beats (occasionally remapped one sample off at a window edge), and the
// refractory spacing is what keeps the accumulated list deduplicated.
func (d *StreamingDetector) detect() {
	result := DetectPeaks(d.buffer, d.cfg)

	lastTime := -d.cfg.RefractorySeconds
	if len(d.peaks) > 0 {
		lastTime = d.peaks[len(d.peaks)-1].Time
	}
	for _, p := range result.Peaks {
		if p.Time-lastTime >= d.cfg.RefractorySeconds {
			d.peaks = append(d.peaks, p)
			lastTime = p.Time
		}
	}
	d.watermark = len(d.buffer)
}

// trim evicts the oldest samples beyond the buffer capacity, moves the
// watermark in lockstep, and drops accumulated peaks that now precede the
// earliest buffered sample. Remaining peak indexes are shifted so they stay
// aligned with the current buffer.
func (d *StreamingDetector) trim() {
	max := d.cfg.maxBufferSamples()
	excess := len(d.buffer) - max
	if excess <= 0 {
		return
	}

	d.buffer = append(d.buffer[:0], d.buffer[excess:]...)
	d.watermark -= excess
	if d.watermark < 0 {
		d.watermark = 0
	}

	earliest := d.buffer[0].Time
	kept := d.peaks[:0]
	for _, p := range d.peaks {
		if p.Time >= earliest {
			p.Index -= excess
			if p.Index < 0 {
				p.Index = 0
			}
			kept = append(kept, p)
		}
	}
	d.peaks = kept
}

// result snapshots the accumulated peaks and recomputes metrics over them.
func (d *StreamingDetector) result() Result {
	out := Result{Peaks: make([]Peak, len(d.peaks))}
	copy(out.Peaks, d.peaks)
	out.RRIntervals, out.InstantHR, out.AvgHR = computeMetrics(d.peaks, d.cfg)
	return out
}

// Peaks returns a copy of the accumulated peak list.
func (d *StreamingDetector) Peaks() []Peak {
	out := make([]Peak, len(d.peaks))
	copy(out, d.peaks)
	return out
}

// BufferLen returns the current number of buffered samples.
func (d *StreamingDetector) BufferLen() int {
	return len(d.buffer)
}

// Buffer returns a copy of the current rolling sample buffer, oldest first.
func (d *StreamingDetector) Buffer() []Sample {
	out := make([]Sample, len(d.buffer))
	copy(out, d.buffer)
	return out
}

// Config returns the detector's configuration.
func (d *StreamingDetector) Config() Config {
	return d.cfg
}

// Reset returns the detector to a state observationally identical to a
// freshly constructed instance.
func (d *StreamingDetector) Reset() {
	d.buffer = d.buffer[:0]
	d.peaks = []Peak{}
	d.watermark = 0
}
