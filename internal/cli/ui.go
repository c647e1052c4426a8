package cli

import "github.com/charmbracelet/lipgloss"

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
	colorOrange = lipgloss.Color("208")
)

var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim      = lipgloss.NewStyle().Foreground(colorDim)
	styleLabel    = lipgloss.NewStyle().Foreground(colorGray)
	styleValue    = lipgloss.NewStyle().Foreground(colorWhite)
	styleNumber   = lipgloss.NewStyle().Foreground(colorCyan)
	styleSuccess  = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning  = lipgloss.NewStyle().Foreground(colorYellow)
	styleError    = lipgloss.NewStyle().Foreground(colorRed)
	styleResolved = lipgloss.NewStyle().Bold(true).Foreground(colorOrange)
	styleNoise    = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
)

// field renders "label value" with the label padded to width.
func field(label string, width int, value string) string {
	return styleLabel.Width(width).Render(label) + " " + value
}
