package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/saherflow/saher/internal/api"
	"github.com/saherflow/saher/internal/errors"
	"golang.org/x/sync/errgroup"
)

// InventorySource lists the devices and hierarchy the picker offers.
type InventorySource interface {
	ListDevices(ctx context.Context, token string) (*api.Envelope[[]api.Device], error)
	GetHierarchy(ctx context.Context, token string) (*api.Envelope[[]api.HierarchyNode], error)
}

// inventoryMsg carries the loaded inventory back into the update loop.
type inventoryMsg struct {
	devices []api.Device
	roots   []api.HierarchyNode
	err     error
}

// SelectionMsg is emitted when the user picks a device or hierarchy node.
type SelectionMsg struct {
	Selection Selection
}

// loadInventory fetches devices and hierarchy concurrently in one command.
// Either request failing fails the whole load.
func loadInventory(src InventorySource, token string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var msg inventoryMsg
		g, ctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			devices, err := src.ListDevices(ctx, token)
			if err != nil {
				return err
			}
			if devices.Success && devices.Data != nil {
				msg.devices = *devices.Data
			}
			return nil
		})

		g.Go(func() error {
			roots, err := src.GetHierarchy(ctx, token)
			if err != nil {
				return err
			}
			if roots.Success && roots.Data != nil {
				msg.roots = *roots.Data
			}
			return nil
		})

		if err := g.Wait(); err != nil {
			return inventoryMsg{err: err}
		}
		return msg
	}
}

// pickerItem implements list.Item for one device or hierarchy node.
type pickerItem struct {
	sel    Selection
	depth  int
	detail string
	status string
}

func (i pickerItem) indent() string {
	return strings.Repeat("  ", i.depth)
}

func (i pickerItem) Title() string {
	glyph := "▸"
	if i.sel.Kind() == SelectDevice {
		glyph = "•"
	}
	return i.indent() + glyph + " " + i.sel.Name()
}

func (i pickerItem) Description() string {
	return i.indent() + "  " + i.detail
}

func (i pickerItem) FilterValue() string {
	return i.sel.Name() + " " + i.sel.ID()
}

// buildPickerItems flattens the hierarchy depth-first, listing each node's
// devices beneath it. Devices outside the hierarchy come last.
func buildPickerItems(roots []api.HierarchyNode, devices []api.Device) []list.Item {
	byNode := map[string][]api.Device{}
	for _, d := range devices {
		byNode[d.HierarchyID] = append(byNode[d.HierarchyID], d)
	}

	var items []list.Item
	placed := map[string]bool{}

	var walk func(n api.HierarchyNode, depth int)
	walk = func(n api.HierarchyNode, depth int) {
		level := n.Level
		if level == "" {
			level = "node"
		}
		detail := level
		if len(n.Children) > 0 {
			detail = fmt.Sprintf("%s · %d children", level, len(n.Children))
		}
		items = append(items, pickerItem{sel: HierarchySelection(n), depth: depth, detail: detail})
		for _, child := range n.Children {
			walk(child, depth+1)
		}
		for _, d := range byNode[n.ID] {
			items = append(items, deviceItem(d, depth+1))
			placed[d.ID] = true
		}
	}
	for _, r := range roots {
		walk(r, 0)
	}

	for _, d := range devices {
		if !placed[d.ID] {
			items = append(items, deviceItem(d, 0))
		}
	}
	return items
}

func deviceItem(d api.Device, depth int) pickerItem {
	parts := []string{"device"}
	if d.Site != "" {
		parts = append(parts, d.Site)
	}
	if d.Status != "" {
		parts = append(parts, d.Status)
	}
	return pickerItem{
		sel:    DeviceSelection(d),
		depth:  depth,
		detail: strings.Join(parts, " · "),
		status: d.Status,
	}
}

var pickerSelectKey = key.NewBinding(
	key.WithKeys("enter"),
	key.WithHelp("enter", "select"),
)

// Picker lists hierarchy nodes and devices for the Devices tab.
type Picker struct {
	list   list.Model
	loaded bool
	err    error
}

// NewPicker creates an empty picker.
func NewPicker(theme Theme) Picker {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(theme.TextPrimary).
		BorderForeground(theme.Accent)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(theme.TextSecondary).
		BorderForeground(theme.Accent)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Select a device or hierarchy"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	l.SetStatusBarItemName("entry", "entries")
	l.Styles.Title = lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true).
		Padding(0, 0, 1, 0)
	l.Styles.HelpStyle = lipgloss.NewStyle().Foreground(theme.TextMuted)
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{pickerSelectKey}
	}

	return Picker{list: l}
}

// SetInventory replaces the listed entries.
func (p *Picker) SetInventory(roots []api.HierarchyNode, devices []api.Device) {
	p.list.SetItems(buildPickerItems(roots, devices))
	p.loaded = true
	p.err = nil
}

// SetError records a failed inventory load.
func (p *Picker) SetError(err error) {
	p.err = err
}

// SetSize sizes the list.
func (p *Picker) SetSize(width, height int) {
	p.list.SetSize(width, height)
}

// Filtering reports whether the filter input has focus.
func (p Picker) Filtering() bool {
	return p.list.FilterState() == list.Filtering
}

// Len returns the number of entries.
func (p Picker) Len() int {
	return len(p.list.Items())
}

// Update handles list navigation and emits SelectionMsg on enter.
func (p Picker) Update(msg tea.Msg) (Picker, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && !p.Filtering() && key.Matches(k, pickerSelectKey) {
		item, ok := p.list.SelectedItem().(pickerItem)
		if !ok {
			return p, nil
		}
		sel := item.sel
		return p, func() tea.Msg { return SelectionMsg{Selection: sel} }
	}

	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return p, cmd
}

// View renders the list, or a status line before the inventory arrives.
func (p Picker) View(theme Theme) string {
	switch {
	case p.err != nil:
		return lipgloss.NewStyle().Foreground(theme.Critical).Render("Could not load devices: " + errors.Summary(p.err))
	case !p.loaded:
		return theme.muted().Render("Loading devices…")
	default:
		return p.list.View()
	}
}
