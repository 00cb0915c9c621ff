package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Gowtham-1301/cardiopulse/internal/monitor"
)

// UpdateMsg carries a detection update from the monitor
type UpdateMsg monitor.Update

// TickMsg triggers a periodic stats refresh
type TickMsg struct{}

// waitForUpdate returns a command that waits for the next detection update
func waitForUpdate(ch <-chan monitor.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return nil
		}
		return UpdateMsg(u)
	}
}

// tick schedules the next stats refresh
func tick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Update handles incoming messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.selectedIdx > 0 {
				m.selectedIdx--
			}
		case "down", "j":
			if m.selectedIdx < len(m.sessions)-1 {
				m.selectedIdx++
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case UpdateMsg:
		m.applyUpdate(monitor.Update(msg))
		return m, waitForUpdate(m.updates)

	case TickMsg:
		m.refreshAllStats()
		return m, tick()
	}

	return m, nil
}
