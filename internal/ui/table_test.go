package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/saherflow/saher/internal/api"
	"github.com/stretchr/testify/assert"
)

func TestNewTable(t *testing.T) {
	columns := []TableColumn{
		{Title: "Name", Width: 20},
		{Title: "Status", Width: 10},
	}
	rows := []table.Row{
		{"item1", "ok"},
		{"item2", "error"},
	}

	view := NewTable(columns, rows).View()
	assert.Contains(t, view, "Name")
	assert.Contains(t, view, "Status")
	assert.Contains(t, view, "item1")
	assert.Contains(t, view, "item2")
}

func TestRenderSimpleTable_Empty(t *testing.T) {
	assert.Empty(t, RenderSimpleTable([]TableColumn{{Title: "X", Width: 3}}, nil))
}

func TestFitColumns(t *testing.T) {
	cols := fitColumns([]string{"ID", "NAME"}, [][]string{{"mpfm-101", "A"}})
	assert.Equal(t, []TableColumn{{Title: "ID", Width: 10}, {Title: "NAME", Width: 6}}, cols)
}

func TestRenderDeviceTable(t *testing.T) {
	assert.Contains(t, ansi.Strip(RenderDeviceTable(nil)), "No devices")

	out := ansi.Strip(RenderDeviceTable([]api.Device{
		{ID: "mpfm-101", Name: "MPFM 101", Site: "Site A", HierarchyID: "north-a", Status: "online"},
		{ID: "mpfm-301", Name: "MPFM 301", Site: "Site C", HierarchyID: "south-a", Status: "offline"},
	}))
	for _, s := range []string{"ID", "STATUS", "mpfm-101", "Site C", "offline"} {
		assert.Contains(t, out, s)
	}
}

func TestRenderHierarchyTree(t *testing.T) {
	out := ansi.Strip(RenderHierarchyTree([]api.HierarchyNode{
		{ID: "north", Name: "North Field", Children: []api.HierarchyNode{
			{ID: "north-a", Name: "Site A"},
			{ID: "north-b", Name: "Site B"},
		}},
	}))
	lines := strings.Split(out, "\n")
	assert.Equal(t, []string{
		"North Field (north)",
		"├─ Site A (north-a)",
		"└─ Site B (north-b)",
	}, lines)
}

func TestRenderFlowTable(t *testing.T) {
	out := ansi.Strip(RenderFlowTable("bbl/d", []FlowRow{
		{Phase: "Oil", Samples: 3, Mean: 200, Latest: 300, Trend: "▁▄█"},
		{Phase: "Gas"},
	}))
	assert.Contains(t, out, "200.0 bbl/d")
	assert.Contains(t, out, "300.0 bbl/d")
	assert.Contains(t, out, "▁▄█")
	assert.Contains(t, out, "Gas")
}
