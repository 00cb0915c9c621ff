package monitor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Gowtham-1301/cardiopulse/internal/config"
	"github.com/Gowtham-1301/cardiopulse/internal/storage"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Monitor.FrameInterval = 5 * time.Millisecond
	return cfg
}

func TestNewMonitorBuildsSessions(t *testing.T) {
	cfg := testConfig()
	cfg.Sessions = []config.Session{
		{Name: "demo", Source: "simulator", BPM: 72},
		{Name: "bogus", Source: "carrier-pigeon"},
		{Name: "missing", Source: "csv", Path: "/nonexistent.csv"},
	}

	m := NewMonitor(cfg, nil, storage.NewTrendBuffer(10), nil)
	defer m.Stop()

	if _, ok := m.sessions["demo"]; !ok {
		t.Error("simulator session not created")
	}
	if _, ok := m.sessions["bogus"]; ok {
		t.Error("unknown source type should be skipped")
	}
	if _, ok := m.sessions["missing"]; ok {
		t.Error("unreadable recording should be skipped")
	}
}

func TestNewMonitorNATSWithoutConnection(t *testing.T) {
	cfg := testConfig()
	cfg.Sessions = []config.Session{{Name: "live", Source: "nats"}}

	m := NewMonitor(cfg, nil, storage.NewTrendBuffer(10), nil)
	defer m.Stop()

	if len(m.sessions) != 0 {
		t.Errorf("len(sessions) = %d, want 0 without a NATS connection", len(m.sessions))
	}
}

func TestMonitorReplayRunsToCompletion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.csv")
	data := "0.1\n0.2\n0.3\n0.4\n0.5\n0.6\n0.7\n0.8\n0.9\n1.0\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("failed to write recording: %v", err)
	}

	cfg := testConfig()
	cfg.Sessions = []config.Session{{Name: "short", Source: "csv", Path: path}}

	m := NewMonitor(cfg, nil, storage.NewTrendBuffer(10), nil)
	updates := m.Subscribe()
	m.Start()
	defer m.Stop()

	deadline := time.After(2 * time.Second)
	sawUpdate := false
	for {
		select {
		case u := <-updates:
			if u.Session != "short" {
				t.Errorf("update for session %q, want short", u.Session)
			}
			if u.Done {
				if !sawUpdate {
					t.Error("got Done before any sample update")
				}
				return
			}
			sawUpdate = true
		case <-deadline:
			t.Fatal("timed out waiting for replay to complete")
		}
	}
}

func TestMonitorSubscribeUnsubscribe(t *testing.T) {
	cfg := testConfig()
	m := NewMonitor(cfg, nil, storage.NewTrendBuffer(10), nil)
	defer m.Stop()

	ch := m.Subscribe()
	if len(m.subscribers) != 1 {
		t.Fatalf("len(subscribers) = %d, want 1", len(m.subscribers))
	}

	m.Unsubscribe(ch)
	if len(m.subscribers) != 0 {
		t.Fatalf("len(subscribers) after Unsubscribe = %d, want 0", len(m.subscribers))
	}
	// Channel should be closed
	if _, open := <-ch; open {
		t.Error("channel still open after Unsubscribe")
	}
}

func TestMonitorLatestResultUnknownSession(t *testing.T) {
	m := NewMonitor(testConfig(), nil, storage.NewTrendBuffer(10), nil)
	defer m.Stop()

	if _, ok := m.LatestResult("nope"); ok {
		t.Error("LatestResult for unknown session reported ok")
	}
}

func TestMonitorFetchHistoryWithoutStorage(t *testing.T) {
	m := NewMonitor(testConfig(), nil, storage.NewTrendBuffer(10), nil)
	defer m.Stop()

	points, err := m.FetchHistory("demo", time.Now().Add(-time.Hour), time.Now())
	if err != nil {
		t.Fatalf("FetchHistory() error = %v", err)
	}
	if len(points) != 0 {
		t.Errorf("len(points) = %d, want 0", len(points))
	}
}
