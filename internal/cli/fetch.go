package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/saherflow/saher/internal/api"
	"github.com/saherflow/saher/internal/dashboard"
	"github.com/saherflow/saher/internal/ui"
	"github.com/saherflow/saher/internal/util"
)

// sparkWidth is the trend column width in the flow table.
const sparkWidth = 16

// FetchResult is the --json payload of the fetch command.
type FetchResult struct {
	Kind      string                  `json:"kind"`
	ID        string                  `json:"id"`
	TimeRange api.TimeRange           `json:"timeRange"`
	Device    *api.DeviceChartData    `json:"device,omitempty"`
	Hierarchy *api.HierarchyChartData `json:"hierarchy,omitempty"`
	Message   string                  `json:"message,omitempty"`
}

// fetchCommand fetches chart data for one target and writes a summary to w.
func fetchCommand(w io.Writer, flags TargetFlags, jsonOut bool) error {
	if err := ValidateTarget(flags.Device, flags.Hierarchy); err != nil {
		return err
	}

	s, err := openSession("fetch")
	if err != nil {
		return err
	}
	tr, err := ParseRangeFlag(flags.Range, s.cfg.Dashboard.TimeRange)
	if err != nil {
		return err
	}
	timeout, err := ParseTimeout(flags.Timeout, s.cfg.API.Timeout)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	result, err := fetchChart(ctx, s, flags, tr, jsonOut)
	if err != nil {
		if jsonOut {
			_ = WriteJSONFromError(w, err)
		}
		return err
	}

	if jsonOut {
		return WriteJSONSuccess(w, result)
	}
	_, err = io.WriteString(w, renderFetchResult(result, dashboard.DarkTheme)+"\n")
	return err
}

func fetchChart(ctx context.Context, s *session, flags TargetFlags, tr api.TimeRange, machine bool) (*FetchResult, error) {
	token := s.auth.Token()
	if token == "" {
		s.log.Debug("no token configured; sending unauthenticated request")
	}

	result := &FetchResult{TimeRange: tr}
	var label string
	if flags.Device != "" {
		result.Kind, result.ID = "device", flags.Device
		label = "Fetching device " + flags.Device
	} else {
		result.Kind, result.ID = "hierarchy", flags.Hierarchy
		label = "Fetching hierarchy " + flags.Hierarchy
	}

	p := newProgress(label, machine)
	p.Start()

	var err error
	if result.Kind == "device" {
		var env *api.Envelope[api.DeviceChartData]
		env, err = s.client.GetDeviceChartData(ctx, result.ID, tr, token)
		if err == nil {
			if env.Success && env.Data != nil {
				result.Device = env.Data
			} else {
				result.Message = env.Message
			}
		}
	} else {
		var env *api.Envelope[api.HierarchyChartData]
		env, err = s.client.GetHierarchyChartData(ctx, result.ID, tr, token)
		if err == nil {
			if env.Success && env.Data != nil {
				result.Hierarchy = env.Data
			} else {
				result.Message = env.Message
			}
		}
	}

	if err != nil {
		p.Fail()
		return nil, err
	}
	p.Success()
	return result, nil
}

// renderFetchResult formats a fetch result for the terminal.
func renderFetchResult(r *FetchResult, theme dashboard.Theme) string {
	title := lipgloss.NewStyle().Bold(true)
	muted := lipgloss.NewStyle().Foreground(ui.ColorMuted)

	var flow api.FlowSeries
	var gvf, wlr *float64
	var b strings.Builder

	switch {
	case r.Device != nil:
		flow, gvf, wlr = r.Device.FlowRate, r.Device.GVF, r.Device.WLR
		fmt.Fprintf(&b, "%s %s\n", title.Render("Device "+r.ID), muted.Render("· "+r.TimeRange.Label()))
	case r.Hierarchy != nil:
		h := r.Hierarchy
		flow, gvf, wlr = h.FlowRate, h.GVF, h.WLR
		name := h.Name
		if name == "" {
			name = r.ID
		}
		fmt.Fprintf(&b, "%s %s\n", title.Render(name), muted.Render(fmt.Sprintf("· %s · %s", r.TimeRange.Label(), util.CountNoun(h.DeviceCount, "device", "devices"))))
	default:
		msg := fmt.Sprintf("No data for %s %s (%s)", r.Kind, r.ID, r.TimeRange.Label())
		if r.Message != "" {
			msg += ": " + r.Message
		}
		return muted.Render(msg)
	}

	b.WriteString("\n")
	b.WriteString(ui.RenderFlowTable(flow.Unit, flowRows(flow)))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "GVF %s   WLR %s", formatPercent(gvf), formatPercent(wlr))

	if r.Hierarchy != nil && len(r.Hierarchy.Regions) > 0 {
		b.WriteString("\n\n")
		b.WriteString(renderRegions(r.Hierarchy.Regions, theme))
	}
	return b.String()
}

// flowRows summarizes each phase of a flow series. Table cells are
// truncated by byte-unaware width, so trends are plain text.
func flowRows(f api.FlowSeries) []ui.FlowRow {
	phases := []struct {
		name   string
		points []api.SeriesPoint
	}{
		{"Oil", f.Oil},
		{"Gas", f.Gas},
		{"Water", f.Water},
	}

	rows := make([]ui.FlowRow, 0, len(phases))
	for _, p := range phases {
		row := ui.FlowRow{Phase: p.name, Samples: len(p.points)}
		if vals := api.Values(p.points); len(vals) > 0 {
			var sum float64
			for _, v := range vals {
				sum += v
			}
			row.Mean = sum / float64(len(vals))
			row.Latest = vals[len(vals)-1]
			row.Trend = ansi.Strip(dashboard.RenderMiniSparkline(vals, sparkWidth, ui.ColorPrimary))
		}
		rows = append(rows, row)
	}
	return rows
}

func formatPercent(v *float64) string {
	if v == nil {
		return dashboard.Placeholder
	}
	return fmt.Sprintf("%.1f%%", *v)
}

// renderRegions lists region totals with proportional bars.
func renderRegions(regions []api.RegionTotal, theme dashboard.Theme) string {
	var maxVal float64
	nameWidth := len("REGION")
	for _, r := range regions {
		maxVal = max(maxVal, r.Production)
		nameWidth = max(nameWidth, lipgloss.Width(r.Name))
	}

	header := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%-*s  %12s", nameWidth, "REGION", "PRODUCTION"))
	lines := []string{header}
	for _, r := range regions {
		bar := dashboard.RenderBar(20, r.Production, maxVal, theme.Accent, theme.Border)
		lines = append(lines, fmt.Sprintf("%-*s  %12.1f  %s", nameWidth, r.Name, r.Production, bar))
	}
	return strings.Join(lines, "\n")
}
