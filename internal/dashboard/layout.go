package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// minContentWidth is the narrowest width the grid is laid out for.
const minContentWidth = 60

// Content is the dashboard body. With an empty Slot it lays out the fixed
// grid; otherwise Slot is rendered in its place.
type Content struct {
	Slot string
}

// View renders the body at the given width.
func (c Content) View(data ViewData, width int) string {
	if c.Slot != "" {
		return c.Slot
	}
	if width < minContentWidth {
		width = minContentWidth
	}

	regionsWidth := (width - 1) * 7 / 12
	gaugesWidth := width - 1 - regionsWidth

	// Equalize the two panels of the middle row.
	regionLines := len(sampleRegions)
	if data.Hierarchy != nil && len(data.Hierarchy.Regions) > 0 {
		regionLines = len(data.Hierarchy.Regions)
	}
	rowLines := max(regionLines, 7)

	middle := lipgloss.JoinHorizontal(lipgloss.Top,
		RegionsChart(data, regionsWidth, rowLines),
		" ",
		GaugesPanel(data, gaugesWidth, rowLines),
	)

	return strings.Join([]string{
		MetricsCards(data, width),
		middle,
		ProductionMap(data, width),
		FlowRateCharts(data, width),
	}, "\n")
}
