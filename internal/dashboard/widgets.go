package dashboard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/saherflow/saher/internal/api"
	"github.com/saherflow/saher/internal/util"
)

// Placeholder is shown for metrics with no data.
const Placeholder = "—"

// GaugeDefaults are the gauge percentages used when the active dataset
// carries none.
type GaugeDefaults struct {
	GVF float64
	WLR float64
}

// ViewData is everything the presentational widgets read.
type ViewData struct {
	Selection Selection
	TimeRange api.TimeRange
	Device    *api.DeviceChartData
	Hierarchy *api.HierarchyChartData
	Loading   bool
	Status    FetchStatus
	Spinner   string

	Gauges  GaugeDefaults
	Devices []api.Device
	Theme   Theme
}

// flow returns the active dataset's flow series.
func (d ViewData) flow() (api.FlowSeries, bool) {
	switch {
	case d.Device != nil:
		return d.Device.FlowRate, true
	case d.Hierarchy != nil:
		return d.Hierarchy.FlowRate, true
	default:
		return api.FlowSeries{}, false
	}
}

// datasetID returns the id of the dataset on screen, or "" when there is none.
func (d ViewData) datasetID() string {
	switch {
	case d.Device != nil:
		return d.Device.DeviceID
	case d.Hierarchy != nil:
		return d.Hierarchy.HierarchyID
	default:
		return ""
	}
}

// subject names what the panels show. A dataset kept from an earlier
// selection is named by its own id until the new one arrives.
func (d ViewData) subject() string {
	id := d.datasetID()
	if id == "" || id == d.Selection.ID() {
		return d.Selection.Name()
	}
	if d.Hierarchy != nil && d.Hierarchy.Name != "" {
		id = d.Hierarchy.Name
	}
	return id + " (previous)"
}

func formatRate(v float64, unit string) string {
	s := fmt.Sprintf("%.1f", v)
	if v >= 10000 {
		s = fmt.Sprintf("%.1fk", v/1000)
	}
	if unit != "" {
		s += " " + unit
	}
	return s
}

// phase couples a flow series with its display name and color.
type phase struct {
	name   string
	points []api.SeriesPoint
	color  lipgloss.Color
}

func phases(f api.FlowSeries, t Theme) []phase {
	return []phase{
		{"Oil", f.Oil, t.Oil},
		{"Gas", f.Gas, t.Gas},
		{"Water", f.Water, t.Water},
	}
}

// MetricsCards renders the row of total oil, gas, water and device count.
func MetricsCards(data ViewData, width int) string {
	t := data.Theme
	const cards = 4
	cardWidth := (width - (cards - 1)) / cards
	if cardWidth < 14 {
		cardWidth = 14
	}
	inner := cardWidth - 4

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1).
		Width(cardWidth - 2)

	render := func(label, value, spark string) string {
		lines := []string{t.label().Render(label), t.value().Render(value)}
		if spark == "" {
			spark = t.muted().Render(strings.Repeat("·", inner))
		}
		lines = append(lines, spark)
		return card.Render(strings.Join(lines, "\n"))
	}

	flow, ok := data.flow()
	var out []string
	for _, p := range phases(flow, t) {
		value, spark := Placeholder, ""
		if ok {
			values := api.Values(p.points)
			if m, has := mean(values); has {
				value = formatRate(m, flow.Unit)
				spark = RenderMiniSparkline(values, inner, p.color)
			}
		}
		out = append(out, render("Total "+p.name, value, spark))
	}

	out = append(out, render("Devices", deviceCount(data), ""))

	return joinWithGap(out, 1)
}

func deviceCount(data ViewData) string {
	switch {
	case data.Hierarchy != nil:
		return fmt.Sprintf("%d", data.Hierarchy.DeviceCount)
	case data.Device != nil:
		return "1"
	case len(data.Devices) > 0:
		return fmt.Sprintf("%d", len(data.Devices))
	default:
		return Placeholder
	}
}

// sampleRegions stand in for region totals until a hierarchy is loaded.
var sampleRegions = []api.RegionTotal{
	{Name: "North Field", Production: 4820},
	{Name: "South Field", Production: 3610},
	{Name: "East Basin", Production: 2950},
	{Name: "West Ridge", Production: 1740},
	{Name: "Offshore", Production: 1210},
}

// RegionsChart renders production per region as horizontal bars, largest
// first. Without hierarchy regions it shows sample figures.
func RegionsChart(data ViewData, width, minLines int) string {
	t := data.Theme
	source, tag := sampleRegions, "sample"
	if data.Hierarchy != nil && len(data.Hierarchy.Regions) > 0 {
		source, tag = data.Hierarchy.Regions, data.Hierarchy.Name
	}
	regions := append([]api.RegionTotal(nil), source...)
	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Production > regions[j].Production
	})

	var maxVal float64
	nameWidth := 0
	for _, r := range regions {
		if r.Production > maxVal {
			maxVal = r.Production
		}
		nameWidth = max(nameWidth, lipgloss.Width(r.Name))
	}

	unit := ""
	if data.Hierarchy != nil {
		unit = data.Hierarchy.FlowRate.Unit
	}

	inner := width - 4
	lines := make([]string, 0, len(regions))
	for _, r := range regions {
		value := formatRate(r.Production, unit)
		barWidth := inner - nameWidth - lipgloss.Width(value) - 2
		if barWidth < 1 {
			barWidth = 1
		}
		name := t.label().Render(r.Name + strings.Repeat(" ", nameWidth-lipgloss.Width(r.Name)))
		bar := RenderBar(barWidth, r.Production, maxVal, t.Accent, t.Border)
		lines = append(lines, name+" "+bar+" "+t.value().Render(value))
	}

	return t.Panel("Top Regions", tag, strings.Join(lines, "\n"), width, minLines)
}

// GaugesPanel renders the GVF and WLR rings side by side.
func GaugesPanel(data ViewData, width, minLines int) string {
	t := data.Theme
	gvf, wlr := gaugeValues(data)

	inner := width - 4
	ringHeight := 7
	ringWidth := ringHeight * 2
	if 2*ringWidth+2 > inner {
		ringWidth = max(6, (inner-2)/2)
		ringHeight = max(3, ringWidth/2)
	}

	rings := lipgloss.JoinHorizontal(lipgloss.Top,
		NewGauge("GVF", gvf, t.GVF, t.Remaining).Render(ringWidth, ringHeight, t),
		"    ",
		NewGauge("WLR", wlr, t.WLR, t.Remaining).Render(ringWidth, ringHeight, t),
	)
	body := lipgloss.PlaceHorizontal(inner, lipgloss.Center, rings)

	return t.Panel("Average GVF/WLR", "", body, width, minLines)
}

// site groups devices by site name for the production map.
type site struct {
	name    string
	devices []api.Device
}

func groupSites(devices []api.Device) []site {
	index := map[string]int{}
	var sites []site
	for _, d := range devices {
		name := d.Site
		if name == "" {
			name = "Unassigned"
		}
		i, ok := index[name]
		if !ok {
			i = len(sites)
			index[name] = i
			sites = append(sites, site{name: name})
		}
		sites[i].devices = append(sites[i].devices, d)
	}
	sort.SliceStable(sites, func(i, j int) bool { return sites[i].name < sites[j].name })
	return sites
}

// ProductionMap renders a marker per site with its device states. The
// selected device's site is highlighted.
func ProductionMap(data ViewData, width int) string {
	t := data.Theme
	sites := groupSites(data.Devices)
	if len(sites) == 0 {
		return t.Panel("Production Map", "", t.muted().Render("No sites loaded"), width, 1)
	}

	var cells []string
	for _, s := range sites {
		marker := "◉"
		markerColor := t.Healthy
		var dots []string
		selected := false
		for _, d := range s.devices {
			c := t.statusColor(d.Status)
			if c == t.Critical {
				markerColor = t.Critical
			}
			glyph := "●"
			if data.Selection.Kind() == SelectDevice && data.Selection.ID() == d.ID {
				glyph = "◆"
				selected = true
			}
			dots = append(dots, lipgloss.NewStyle().Foreground(c).Render(glyph))
		}
		nameStyle := t.label()
		if selected {
			nameStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
		}
		cells = append(cells,
			lipgloss.NewStyle().Foreground(markerColor).Render(marker)+" "+
				nameStyle.Render(s.name)+" "+strings.Join(dots, ""))
	}

	inner := width - 4
	var lines []string
	var line string
	for _, c := range cells {
		switch {
		case line == "":
			line = c
		case lipgloss.Width(line)+3+lipgloss.Width(c) <= inner:
			line += "   " + c
		default:
			lines = append(lines, line)
			line = c
		}
	}
	lines = append(lines, line)

	value := util.CountNoun(len(sites), "site", "sites")
	return t.Panel("Production Map", value, strings.Join(lines, "\n"), width, 1)
}

// FlowRateCharts renders an area chart per phase for the active dataset,
// or "No data" when neither dataset is present.
func FlowRateCharts(data ViewData, width int) string {
	t := data.Theme
	const chartHeight = 4

	title := "Flow Rate"
	if name := data.subject(); name != "" {
		title += " · " + name
	}
	value := data.TimeRange.Label()
	if data.Loading {
		value = strings.TrimSpace(data.Spinner + " loading")
	}

	flow, ok := data.flow()
	if !ok || flow.Empty() {
		body := lipgloss.PlaceHorizontal(width-4, lipgloss.Center, t.muted().Render("No data"))
		return t.Panel(title, value, body, width, chartHeight+1)
	}

	const cols = 3
	colWidth := (width - 4 - (cols-1)*2) / cols
	if colWidth < 8 {
		colWidth = 8
	}

	var columns []string
	for _, p := range phases(flow, t) {
		values := api.Values(p.points)
		head := lipgloss.NewStyle().Foreground(p.color).Bold(true).Render(p.name)
		if len(values) > 0 {
			head += " " + t.label().Render(formatRate(values[len(values)-1], flow.Unit))
		}
		chart := RenderAreaChart(values, colWidth, chartHeight, p.color)
		if chart == "" {
			chart = t.muted().Render("No data")
		}
		columns = append(columns, lipgloss.NewStyle().Width(colWidth).Render(head+"\n"+chart))
	}

	return t.Panel(title, value, joinWithGap(columns, 2), width, chartHeight+1)
}

// joinWithGap joins blocks horizontally separated by gap spaces.
func joinWithGap(blocks []string, gap int) string {
	parts := make([]string, 0, len(blocks)*2)
	spacer := strings.Repeat(" ", gap)
	for i, b := range blocks {
		if i > 0 {
			parts = append(parts, spacer)
		}
		parts = append(parts, b)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
