package monitor

import (
	"context"
	"io"
	"log"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Gowtham-1301/cardiopulse/internal/config"
	"github.com/Gowtham-1301/cardiopulse/internal/ecg"
	"github.com/Gowtham-1301/cardiopulse/internal/ingest"
	"github.com/Gowtham-1301/cardiopulse/internal/logging"
	"github.com/Gowtham-1301/cardiopulse/internal/source"
	"github.com/Gowtham-1301/cardiopulse/internal/storage"
)

// Update is broadcast to subscribers after each processed frame
type Update struct {
	Session   string       `json:"session"`
	Timestamp time.Time    `json:"timestamp"`
	Samples   []ecg.Sample `json:"samples"`
	Result    ecg.Result   `json:"result"`
	SDNNMs    float64      `json:"sdnn_ms"`
	RMSSDMs   float64      `json:"rmssd_ms"`
	Done      bool         `json:"done,omitempty"` // finite source exhausted
}

// session pairs a sample source with its streaming detector
type session struct {
	src source.Source
	det *ecg.StreamingDetector

	mu     sync.RWMutex
	latest ecg.Result
}

// Monitor manages monitoring sessions and broadcasts detection updates
type Monitor struct {
	config   *config.Config
	sessions map[string]*session
	storage  storage.Storage
	memory   *storage.TrendBuffer

	// Event broadcasting
	subscribers map[chan Update]struct{}
	subMu       sync.RWMutex

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewMonitor creates a monitor with the given configuration. nc may be nil
// when no session uses a NATS source; store may be nil to disable
// persistence.
func NewMonitor(cfg *config.Config, store storage.Storage, mem *storage.TrendBuffer, nc *nats.Conn) *Monitor {
	ctx, cancel := context.WithCancel(context.Background())

	m := &Monitor{
		config:      cfg,
		sessions:    make(map[string]*session),
		storage:     store,
		memory:      mem,
		subscribers: make(map[chan Update]struct{}),
		ctx:         ctx,
		cancel:      cancel,
	}

	engine := cfg.EngineConfig()

	for _, sc := range cfg.Sessions {
		var src source.Source
		switch sc.Source {
		case "simulator":
			bpm := sc.BPM
			if bpm == 0 {
				bpm = 72
			}
			src = source.NewSimulatorSource(sc.Name, cfg.Monitor.SampleRate, bpm, sc.Noise)
		case "csv":
			rec, err := ingest.ReadFile(sc.Path, cfg.Monitor.SampleRate)
			if err != nil {
				logging.Error("Monitor", "Failed to load recording for "+sc.Name, err)
				continue
			}
			sessionEngine := engine
			sessionEngine.SampleRate = rec.SampleRate
			m.sessions[sc.Name] = &session{
				src: source.NewReplaySource(sc.Name, rec),
				det: ecg.NewStreamingDetector(sessionEngine),
			}
			log.Printf("[Monitor] Created csv session %s (%s, %.0f Hz)", sc.Name, sc.Path, rec.SampleRate)
			continue
		case "nats":
			if nc == nil {
				logging.Error("Monitor", "NATS session "+sc.Name+" configured without a connection", nil)
				continue
			}
			natsSrc, err := source.NewNATSSource(sc.Name, nc, cfg.NATS.Subject, cfg.Monitor.SampleRate)
			if err != nil {
				logging.Error("Monitor", "Failed to subscribe for "+sc.Name, err)
				continue
			}
			src = natsSrc
		default:
			log.Printf("[Monitor] Unknown source type %q for session %q, skipping", sc.Source, sc.Name)
			continue
		}

		m.sessions[sc.Name] = &session{
			src: src,
			det: ecg.NewStreamingDetector(engine),
		}
		log.Printf("[Monitor] Created %s session %s", sc.Source, sc.Name)
	}

	return m
}

// Start begins processing all sessions
func (m *Monitor) Start() {
	log.Printf("[Monitor] Starting %d sessions with frame interval %s", len(m.sessions), m.config.Monitor.FrameInterval)

	for name, s := range m.sessions {
		m.wg.Add(1)
		go func(name string, s *session) {
			defer m.wg.Done()
			m.run(name, s)
		}(name, s)
	}
}

// Stop stops the monitor and waits for goroutines to finish
func (m *Monitor) Stop() {
	m.cancel()
	m.wg.Wait()

	for _, s := range m.sessions {
		s.src.Close()
	}

	// Close all subscriber channels
	m.subMu.Lock()
	for ch := range m.subscribers {
		close(ch)
		delete(m.subscribers, ch)
	}
	m.subMu.Unlock()

	log.Println("[Monitor] Stopped")
}

// Subscribe returns a channel that receives detection updates
func (m *Monitor) Subscribe() <-chan Update {
	ch := make(chan Update, 100) // Buffered to prevent blocking

	m.subMu.Lock()
	m.subscribers[ch] = struct{}{}
	m.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscriber
func (m *Monitor) Unsubscribe(ch <-chan Update) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for subCh := range m.subscribers {
		if subCh == ch {
			close(subCh)
			delete(m.subscribers, subCh)
			return
		}
	}
}

// LatestResult returns the most recent detection result for a session
func (m *Monitor) LatestResult(name string) (ecg.Result, bool) {
	s, ok := m.sessions[name]
	if !ok {
		return ecg.Result{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, true
}

// GetStats returns current trend statistics for a session
func (m *Monitor) GetStats(name string) *storage.TrendStats {
	return m.memory.GetStats(name)
}

// GetAllStats returns trend statistics for all sessions
func (m *Monitor) GetAllStats() map[string]*storage.TrendStats {
	return m.memory.GetAllStats()
}

// GetHistory returns the last N heart-rate readings for a session
func (m *Monitor) GetHistory(name string, count int) []float64 {
	return m.memory.GetHistory(name, count)
}

// GetSessions returns all session configurations
func (m *Monitor) GetSessions() []config.Session {
	return m.config.Sessions
}

// FetchHistory retrieves historical trend data from persistent storage
func (m *Monitor) FetchHistory(name string, from, to time.Time) ([]storage.TrendPoint, error) {
	if m.storage == nil {
		return []storage.TrendPoint{}, nil
	}
	return m.storage.Fetch(name, from, to)
}

// run drives a single session: read a frame, feed the detector, publish
func (m *Monitor) run(name string, s *session) {
	chunk := int(m.config.Monitor.SampleRate * m.config.Monitor.FrameInterval.Seconds())
	if chunk < 1 {
		chunk = 1
	}

	ticker := time.NewTicker(m.config.Monitor.FrameInterval)
	defer ticker.Stop()

	var lastPersist time.Time

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			samples, err := s.src.Read(m.ctx, chunk)
			if err == io.EOF {
				log.Printf("[Monitor] Session %s: recording complete", name)
				m.broadcast(Update{Session: name, Timestamp: time.Now(), Done: true})
				return
			}
			if err != nil {
				if m.ctx.Err() != nil {
					return
				}
				logging.Error("Monitor", "Read failed for "+name, err)
				continue
			}

			result := s.det.AddData(samples)

			s.mu.Lock()
			s.latest = result
			s.mu.Unlock()

			now := time.Now()
			sdnn := ecg.SDNN(result.RRIntervals)
			rmssd := ecg.RMSSD(result.RRIntervals)

			m.broadcast(Update{
				Session:   name,
				Timestamp: now,
				Samples:   samples,
				Result:    result,
				SDNNMs:    sdnn,
				RMSSDMs:   rmssd,
			})

			// Trend writes and logs are throttled to one per second; the
			// frame cadence is far below the storage step.
			if now.Sub(lastPersist) >= time.Second {
				lastPersist = now
				m.memory.Write(name, now, result.AvgHR)
				if m.storage != nil {
					if err := m.storage.Write(name, now, result.AvgHR, sdnn); err != nil {
						log.Printf("[Monitor] Failed to write to storage for %s: %v", name, err)
					}
				}
				logging.DetectionResult(name, len(result.Peaks), result.AvgHR, sdnn)
			}
		}
	}
}

// broadcast sends an update to all subscribers
func (m *Monitor) broadcast(u Update) {
	m.subMu.RLock()
	defer m.subMu.RUnlock()

	for ch := range m.subscribers {
		select {
		case ch <- u:
		default:
			// Channel buffer full, skip to prevent blocking
		}
	}
}
