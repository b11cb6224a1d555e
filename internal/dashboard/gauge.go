package dashboard

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// GaugeDatum is one slice of a gauge ring.
type GaugeDatum struct {
	Label string
	Value float64
	Color lipgloss.Color
}

// Gauge is a ring chart of a percentage against its complement.
// Data[0] is the primary slice and Data[1] the remainder; they sum to 100.
type Gauge struct {
	Label string
	Data  [2]GaugeDatum
}

// gaugeInnerRatio is inner radius over outer radius of the ring.
const gaugeInnerRatio = 40.0 / 60.0

// NewGauge builds a gauge for percent, clamped to [0, 100].
func NewGauge(label string, percent float64, color, remaining lipgloss.Color) Gauge {
	if math.IsNaN(percent) || percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return Gauge{
		Label: label,
		Data: [2]GaugeDatum{
			{Label: label, Value: percent, Color: color},
			{Label: "Remaining", Value: 100 - percent, Color: remaining},
		},
	}
}

// Percent returns the primary slice value.
func (g Gauge) Percent() float64 {
	return g.Data[0].Value
}

// CenterLabel is the text drawn in the middle of the ring, e.g. "65%".
func (g Gauge) CenterLabel() string {
	return fmt.Sprintf("%.0f%%", g.Percent())
}

type gaugeCell uint8

const (
	cellEmpty gaugeCell = iota
	cellPrimary
	cellRemaining
)

// cells rasterizes the ring into a width x height grid. Coordinates are
// normalized per axis so the ring fills the box; with width = 2*height it
// looks round in a terminal. The primary slice starts at 12 o'clock and
// sweeps counterclockwise.
func (g Gauge) cells(width, height int) [][]gaugeCell {
	grid := make([][]gaugeCell, height)
	cx := float64(width) / 2
	cy := float64(height) / 2

	for r := 0; r < height; r++ {
		grid[r] = make([]gaugeCell, width)
		for c := 0; c < width; c++ {
			x := (float64(c) + 0.5 - cx) / cx
			y := (cy - (float64(r) + 0.5)) / cy
			d := math.Hypot(x, y)
			if d > 1 || d < gaugeInnerRatio {
				continue
			}

			angle := math.Atan2(-x, y)
			if angle < 0 {
				angle += 2 * math.Pi
			}
			if angle/(2*math.Pi)*100 < g.Percent() {
				grid[r][c] = cellPrimary
			} else {
				grid[r][c] = cellRemaining
			}
		}
	}
	return grid
}

// Render draws the ring with the percentage and label in its hole.
func (g Gauge) Render(width, height int, theme Theme) string {
	if width < 6 || height < 3 {
		return lipgloss.NewStyle().Foreground(g.Data[0].Color).Bold(true).Render(g.CenterLabel()) +
			" " + theme.muted().Render(g.Label)
	}

	grid := g.cells(width, height)
	primary := lipgloss.NewStyle().Foreground(g.Data[0].Color)
	remaining := lipgloss.NewStyle().Foreground(g.Data[1].Color)

	overlays := map[int]string{}
	centerRow := (height - 1) / 2
	overlays[centerRow] = g.CenterLabel()
	if centerRow+1 < height {
		overlays[centerRow+1] = g.Label
	}

	lines := make([]string, height)
	for r, row := range grid {
		text, hasText := overlays[r]
		start, end := -1, -1
		if hasText {
			start = max(0, (width-lipgloss.Width(text))/2)
			end = start + lipgloss.Width(text)
		}

		var b strings.Builder
		for c := 0; c < width; c++ {
			if c == start {
				style := theme.value()
				if r != centerRow {
					style = theme.muted()
				}
				b.WriteString(style.Render(text))
			}
			if c >= start && c < end {
				continue
			}
			switch row[c] {
			case cellPrimary:
				b.WriteString(primary.Render("█"))
			case cellRemaining:
				b.WriteString(remaining.Render("█"))
			default:
				b.WriteByte(' ')
			}
		}
		lines[r] = b.String()
	}
	return strings.Join(lines, "\n")
}

// gaugeValues picks GVF and WLR from the active dataset, falling back
// to the configured defaults.
func gaugeValues(data ViewData) (gvf, wlr float64) {
	gvf, wlr = data.Gauges.GVF, data.Gauges.WLR

	var dGVF, dWLR *float64
	switch {
	case data.Device != nil:
		dGVF, dWLR = data.Device.GVF, data.Device.WLR
	case data.Hierarchy != nil:
		dGVF, dWLR = data.Hierarchy.GVF, data.Hierarchy.WLR
	}
	if dGVF != nil {
		gvf = *dGVF
	}
	if dWLR != nil {
		wlr = *dWLR
	}
	return gvf, wlr
}
