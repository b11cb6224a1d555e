package ui

import "github.com/charmbracelet/lipgloss"

// Semantic colors for status indication, as ANSI codes for broad
// terminal compatibility.
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// GradientColors cycle through the spinner animation, indigo to cyan.
var GradientColors = []lipgloss.Color{
	lipgloss.Color("#6366F1"),
	lipgloss.Color("#8B5CF6"),
	lipgloss.Color("#FE44CC"),
	lipgloss.Color("#22D3EE"),
}
