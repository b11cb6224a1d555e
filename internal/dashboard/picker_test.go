package dashboard

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/saherflow/saher/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRoots = []api.HierarchyNode{
	{
		ID: "north", Name: "North Field", Level: "region",
		Children: []api.HierarchyNode{
			{ID: "north-a", Name: "Site A", Level: "site", ParentID: "north"},
		},
	},
}

var testDevices = []api.Device{
	{ID: "mpfm-101", Name: "MPFM 101", Site: "Site A", HierarchyID: "north-a", Status: "online"},
	{ID: "mpfm-999", Name: "MPFM 999", Status: "offline"},
}

func (f *fakeSource) ListDevices(_ context.Context, _ string) (*api.Envelope[[]api.Device], error) {
	if f.err != nil {
		return nil, f.err
	}
	devices := testDevices
	return &api.Envelope[[]api.Device]{Success: true, Data: &devices}, nil
}

func (f *fakeSource) GetHierarchy(_ context.Context, _ string) (*api.Envelope[[]api.HierarchyNode], error) {
	if f.err != nil {
		return nil, f.err
	}
	roots := testRoots
	return &api.Envelope[[]api.HierarchyNode]{Success: true, Data: &roots}, nil
}

func TestBuildPickerItems(t *testing.T) {
	items := buildPickerItems(testRoots, testDevices)
	require.Len(t, items, 4)

	want := []struct {
		id    string
		kind  SelectionKind
		depth int
	}{
		{"north", SelectHierarchy, 0},
		{"north-a", SelectHierarchy, 1},
		{"mpfm-101", SelectDevice, 2},
		{"mpfm-999", SelectDevice, 0},
	}
	for i, w := range want {
		item := items[i].(pickerItem)
		assert.Equal(t, w.id, item.sel.ID())
		assert.Equal(t, w.kind, item.sel.Kind())
		assert.Equal(t, w.depth, item.depth)
	}
}

func TestPickerItem_Text(t *testing.T) {
	item := deviceItem(testDevices[0], 2)
	assert.Equal(t, "    • MPFM 101", item.Title())
	assert.Equal(t, "      device · Site A · online", item.Description())
	assert.Equal(t, "MPFM 101 mpfm-101", item.FilterValue())

	node := buildPickerItems(testRoots, nil)[0].(pickerItem)
	assert.Equal(t, "▸ North Field", node.Title())
	assert.Contains(t, node.Description(), "region · 1 children")
}

func TestPicker_EnterEmitsSelection(t *testing.T) {
	p := NewPicker(DarkTheme)
	p.SetSize(80, 20)
	p.SetInventory(testRoots, testDevices)
	assert.Equal(t, 4, p.Len())

	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyDown})
	_ = cmd
	p, cmd = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(SelectionMsg)
	require.True(t, ok)
	assert.Equal(t, "north-a", msg.Selection.ID())
	assert.Equal(t, SelectHierarchy, msg.Selection.Kind())
}

func TestPicker_EnterOnEmptyList(t *testing.T) {
	p := NewPicker(DarkTheme)
	_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestPicker_View(t *testing.T) {
	p := NewPicker(DarkTheme)
	p.SetSize(80, 20)
	assert.Contains(t, ansi.Strip(p.View(DarkTheme)), "Loading devices")

	p.SetError(fmt.Errorf("boom"))
	assert.Contains(t, ansi.Strip(p.View(DarkTheme)), "Could not load devices: boom")

	p.SetInventory(testRoots, testDevices)
	view := ansi.Strip(p.View(DarkTheme))
	assert.Contains(t, view, "North Field")
	assert.Contains(t, view, "MPFM 101")
}

func TestLoadInventory(t *testing.T) {
	msg := loadInventory(&fakeSource{}, "tok", defaultTestTimeout)().(inventoryMsg)
	assert.NoError(t, msg.err)
	assert.Len(t, msg.devices, 2)
	assert.Len(t, msg.roots, 1)

	msg = loadInventory(&fakeSource{err: fmt.Errorf("down")}, "tok", defaultTestTimeout)().(inventoryMsg)
	assert.EqualError(t, msg.err, "down")
}
