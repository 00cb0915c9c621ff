package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Gowtham-1301/cardiopulse/internal/monitor"
)

// Init initializes the model and returns initial commands
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		// Wait for first detection update
		waitForUpdate(m.updates),
		// Initial refresh of stats
		func() tea.Msg {
			m.refreshAllStats()
			return TickMsg{}
		},
	)
}

// Run starts the TUI application
func Run(mon *monitor.Monitor, apiAddr string) error {
	model := NewModel(mon, apiAddr)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
