package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/saherflow/saher/internal/api"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a non-focused Bubbles table sized to its rows.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{Title: c.Title, Width: c.Width}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1), // +1 for header
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.Foreground(ColorPrimary)
	// Nothing is focused in CLI output, so the cursor row looks like any other.
	s.Selected = s.Cell

	t.SetStyles(s)
	return t
}

// RenderSimpleTable renders a non-interactive table string.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}
	return NewTable(columns, tableRows).View()
}

// fitColumns widens each column to its longest cell.
func fitColumns(titles []string, rows [][]string) []TableColumn {
	cols := make([]TableColumn, len(titles))
	for i, title := range titles {
		cols[i] = TableColumn{Title: title, Width: lipgloss.Width(title)}
	}
	for _, row := range rows {
		for i := range cols {
			if i < len(row) {
				cols[i].Width = max(cols[i].Width, lipgloss.Width(row[i]))
			}
		}
	}
	for i := range cols {
		cols[i].Width += 2
	}
	return cols
}

// RenderDeviceTable lists devices with their site and status.
func RenderDeviceTable(devices []api.Device) string {
	if len(devices) == 0 {
		return lipgloss.NewStyle().Foreground(ColorMuted).Render("No devices")
	}

	rows := make([][]string, len(devices))
	for i, d := range devices {
		rows[i] = []string{d.ID, d.Name, d.Site, d.HierarchyID, d.Status}
	}
	titles := []string{"ID", "NAME", "SITE", "HIERARCHY", "STATUS"}
	return RenderSimpleTable(fitColumns(titles, rows), rows)
}

// RenderHierarchyTree renders hierarchy nodes as an indented tree.
func RenderHierarchyTree(roots []api.HierarchyNode) string {
	muted := lipgloss.NewStyle().Foreground(ColorMuted)
	var b strings.Builder

	var walk func(n api.HierarchyNode, prefix string, last bool, root bool)
	walk = func(n api.HierarchyNode, prefix string, last, root bool) {
		branch, next := "", ""
		if !root {
			branch, next = "├─ ", "│  "
			if last {
				branch, next = "└─ ", "   "
			}
		}
		fmt.Fprintf(&b, "%s%s%s %s\n", prefix, branch, n.Name, muted.Render("("+n.ID+")"))
		for i, c := range n.Children {
			walk(c, prefix+next, i == len(n.Children)-1, false)
		}
	}
	for _, r := range roots {
		walk(r, "", true, true)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FlowRow summarizes one flow-rate series.
type FlowRow struct {
	Phase   string
	Samples int
	Mean    float64
	Latest  float64
	Trend   string
}

// RenderFlowTable renders per-phase flow summaries.
func RenderFlowTable(unit string, rows []FlowRow) string {
	cells := make([][]string, len(rows))
	for i, r := range rows {
		if r.Samples == 0 {
			cells[i] = []string{r.Phase, "0", "—", "—", ""}
			continue
		}
		cells[i] = []string{
			r.Phase,
			fmt.Sprintf("%d", r.Samples),
			fmt.Sprintf("%.1f %s", r.Mean, unit),
			fmt.Sprintf("%.1f %s", r.Latest, unit),
			r.Trend,
		}
	}
	titles := []string{"PHASE", "SAMPLES", "MEAN", "LATEST", "TREND"}
	return RenderSimpleTable(fitColumns(titles, cells), cells)
}
