package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline block characters from lowest to highest
var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Colors for sparkline
var (
	sparkNormalColor = lipgloss.Color("#06B6D4") // Cyan
	sparkGapColor    = lipgloss.Color("#6B7280") // Gray
)

// Sparkline generates a sparkline string from heart-rate readings.
// Values of zero or less are gaps (no reading) and render as dots.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat(" ", width)
	}

	// Take last 'width' values
	start := 0
	if len(values) > width {
		start = len(values) - width
	}
	values = values[start:]

	// Find min/max for scaling (excluding gaps)
	min, max := -1.0, -1.0
	for _, v := range values {
		if v > 0 {
			if min < 0 || v < min {
				min = v
			}
			if max < 0 || v > max {
				max = v
			}
		}
	}

	gapStyle := lipgloss.NewStyle().Foreground(sparkGapColor)

	// All gaps so far
	if min < 0 {
		return gapStyle.Render(strings.Repeat("·", len(values))) + strings.Repeat(" ", width-len(values))
	}

	// Ensure we have a range to scale
	if max == min {
		max = min + 1
	}

	normalStyle := lipgloss.NewStyle().Foreground(sparkNormalColor)

	var result strings.Builder
	for _, v := range values {
		if v <= 0 {
			result.WriteString(gapStyle.Render("·"))
		} else {
			// Scale to 0-7 range
			scaled := (v - min) / (max - min)
			idx := int(scaled * 7)
			if idx > 7 {
				idx = 7
			}
			if idx < 0 {
				idx = 0
			}
			result.WriteString(normalStyle.Render(string(sparkBlocks[idx])))
		}
	}

	// Pad if needed
	padding := width - len(values)
	if padding > 0 {
		result.WriteString(strings.Repeat(" ", padding))
	}

	return result.String()
}

// Waveform renders a short window of raw ECG samples as a sparkline using a
// fixed range so QRS complexes stay visually prominent.
func Waveform(values []float64, width int, min, max float64) string {
	if len(values) == 0 {
		return strings.Repeat(" ", width)
	}

	start := 0
	if len(values) > width {
		start = len(values) - width
	}
	values = values[start:]

	if max <= min {
		max = min + 1
	}

	style := lipgloss.NewStyle().Foreground(sparkNormalColor)

	var result strings.Builder
	for _, v := range values {
		scaled := (v - min) / (max - min)
		if scaled > 1 {
			scaled = 1
		}
		if scaled < 0 {
			scaled = 0
		}
		idx := int(scaled * 7)
		if idx > 7 {
			idx = 7
		}
		result.WriteString(style.Render(string(sparkBlocks[idx])))
	}

	padding := width - len(values)
	if padding > 0 {
		result.WriteString(strings.Repeat(" ", padding))
	}

	return result.String()
}
