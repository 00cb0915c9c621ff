package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Gowtham-1301/cardiopulse/internal/tui/components"
)

const sparklineWidth = 30

// View renders the full screen
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderSessionTable())
	b.WriteString("\n")
	b.WriteString(m.renderDetail())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render("Error: " + m.err.Error()))
	}

	return b.String()
}

func (m Model) renderHeader() string {
	title := TitleStyle.Render("CardioPulse")
	subtitle := SubtitleStyle.Render(fmt.Sprintf("ECG monitor · API %s · %d sessions", m.apiAddr, len(m.sessions)))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, subtitle)
}

func (m Model) renderSessionTable() string {
	var b strings.Builder

	header := fmt.Sprintf("%-14s %-10s %10s %10s %8s  %-*s",
		"Session", "Source", "HR", "SDNN", "Peaks", sparklineWidth, "Trend")
	b.WriteString(TableHeaderStyle.Render(header))
	b.WriteString("\n")

	for i, s := range m.sessions {
		hr := 0.0
		sdnn := 0.0
		peaks := 0
		if s.Stats != nil {
			hr = s.Stats.LastBPM
		}
		sdnn = s.Latest.SDNNMs
		peaks = len(s.Latest.Result.Peaks)

		sourceLabel := s.Config.Source
		if s.Done {
			sourceLabel += " (done)"
		}

		row := fmt.Sprintf("%-14s %-10s %10s %10s %8d  %s",
			truncate(s.Config.Name, 14),
			sourceLabel,
			FormatHR(hr),
			FormatSDNN(sdnn),
			peaks,
			components.Sparkline(s.History, sparklineWidth),
		)

		if i == m.selectedIdx {
			b.WriteString(SelectedRowStyle.Render(row))
		} else {
			b.WriteString(TableRowStyle.Render(row))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// renderDetail shows the live waveform and metrics for the selected session
func (m Model) renderDetail() string {
	s := m.SelectedSession()
	if s == nil {
		return ""
	}

	var b strings.Builder

	b.WriteString(SubtitleStyle.Render("Waveform · " + s.Config.Name))
	b.WriteString("\n")

	width := m.width - 4
	if width < 20 {
		width = 20
	}
	if width > 120 {
		width = 120
	}

	values := make([]float64, 0, len(s.Latest.Samples))
	for _, sample := range s.Latest.Samples {
		values = append(values, sample.Value)
	}
	b.WriteString("  ")
	b.WriteString(components.Waveform(values, width, -0.4, 1.2))
	b.WriteString("\n")

	r := s.Latest.Result
	metrics := fmt.Sprintf("instant %s   avg %s   SDNN %s   RMSSD %s   RR count %d",
		FormatHR(r.InstantHR),
		FormatHR(r.AvgHR),
		FormatSDNN(s.Latest.SDNNMs),
		FormatSDNN(s.Latest.RMSSDMs),
		len(r.RRIntervals),
	)
	b.WriteString(TableRowStyle.Render(metrics))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderFooter() string {
	return HelpStyle.Render("↑/↓ select session · q quit")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}
