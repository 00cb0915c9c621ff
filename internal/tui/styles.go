package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary = lipgloss.Color("#06B6D4") // Cyan
	ColorSuccess   = lipgloss.Color("#10B981") // Green
	ColorWarning   = lipgloss.Color("#F59E0B") // Yellow
	ColorDanger    = lipgloss.Color("#EF4444") // Red
	ColorMuted     = lipgloss.Color("#6B7280") // Gray
	ColorBgLight   = lipgloss.Color("#374151") // Lighter background
	ColorText      = lipgloss.Color("#F9FAFB") // Light text
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Background(ColorPrimary).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorSecondary).
				Padding(0, 1)

	TableRowStyle = lipgloss.NewStyle().
			Padding(0, 1)

	SelectedRowStyle = lipgloss.NewStyle().
				Background(ColorBgLight).
				Foreground(ColorText).
				Padding(0, 1)

	HRNormalStyle  = lipgloss.NewStyle().Foreground(ColorSuccess)
	HRBorderStyle  = lipgloss.NewStyle().Foreground(ColorWarning)
	HRDangerStyle  = lipgloss.NewStyle().Foreground(ColorDanger)
	HRMissingStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDanger).
			Bold(true)
)

// HRStyle returns the appropriate style for a heart-rate value
func HRStyle(bpm float64) lipgloss.Style {
	switch {
	case bpm <= 0:
		return HRMissingStyle
	case bpm >= 50 && bpm <= 100:
		return HRNormalStyle
	case bpm >= 40 && bpm <= 120:
		return HRBorderStyle
	default:
		return HRDangerStyle
	}
}

// FormatHR formats a heart-rate value with color
func FormatHR(bpm float64) string {
	if bpm <= 0 {
		return HRMissingStyle.Render("--")
	}
	return HRStyle(bpm).Render(fmt.Sprintf("%.0f bpm", bpm))
}

// FormatSDNN formats an SDNN value in ms
func FormatSDNN(ms float64) string {
	if ms <= 0 {
		return HRMissingStyle.Render("--")
	}
	return fmt.Sprintf("%.0f ms", ms)
}
