package tui

import (
	"github.com/Gowtham-1301/cardiopulse/internal/config"
	"github.com/Gowtham-1301/cardiopulse/internal/monitor"
	"github.com/Gowtham-1301/cardiopulse/internal/storage"
)

// SessionState holds display state for a single session
type SessionState struct {
	Config  config.Session
	Stats   *storage.TrendStats
	History []float64 // Last N heart-rate readings for the sparkline
	Latest  monitor.Update
	Done    bool
}

// Model holds all application state
type Model struct {
	selectedIdx int
	sessions    []SessionState

	monitor *monitor.Monitor
	updates <-chan monitor.Update

	// UI state
	width  int
	height int
	ready  bool

	// API address for display
	apiAddr string

	err error
}

// NewModel creates a new Model attached to a monitor
func NewModel(mon *monitor.Monitor, apiAddr string) Model {
	configs := mon.GetSessions()
	sessions := make([]SessionState, len(configs))
	for i, s := range configs {
		sessions[i] = SessionState{
			Config:  s,
			History: make([]float64, 0, 100),
		}
	}

	return Model{
		selectedIdx: 0,
		sessions:    sessions,
		monitor:     mon,
		updates:     mon.Subscribe(),
		apiAddr:     apiAddr,
	}
}

// SelectedSession returns the currently selected session
func (m Model) SelectedSession() *SessionState {
	if m.selectedIdx >= 0 && m.selectedIdx < len(m.sessions) {
		return &m.sessions[m.selectedIdx]
	}
	return nil
}

// applyUpdate folds a detection update into session state
func (m *Model) applyUpdate(u monitor.Update) {
	for i := range m.sessions {
		if m.sessions[i].Config.Name == u.Session {
			if u.Done {
				m.sessions[i].Done = true
				return
			}
			m.sessions[i].Latest = u
			m.sessions[i].Stats = m.monitor.GetStats(u.Session)
			break
		}
	}
}

// refreshAllStats refreshes trend stats and HR history for all sessions
func (m *Model) refreshAllStats() {
	for i := range m.sessions {
		name := m.sessions[i].Config.Name
		m.sessions[i].Stats = m.monitor.GetStats(name)
		m.sessions[i].History = m.monitor.GetHistory(name, 100)
	}
}
