package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/saherflow/saher/internal/errors"
)

// renderPage stacks header, status bar, scrollable body and footer.
func (m Model) renderPage() string {
	return strings.Join([]string{
		m.header.View(m.width),
		m.renderStatusBar(),
		m.viewport.View(),
		m.renderFooter(),
	}, "\n")
}

// renderBody renders the active tab's content.
func (m Model) renderBody() string {
	data := m.viewData()
	switch m.activeTab {
	case TabDevices:
		return Content{Slot: m.picker.View(m.theme)}.View(data, m.width)
	case TabAlarms:
		return Content{Slot: m.renderAlarms()}.View(data, m.width)
	default:
		return Content{}.View(data, m.width)
	}
}

func (m Model) renderAlarms() string {
	t := m.theme
	body := t.muted().Render("No active alarms")
	return t.Panel("Alarms", "", body, max(m.width, minContentWidth), 3)
}

// renderStatusBar shows the selection, time range and fetch state.
func (m Model) renderStatusBar() string {
	t := m.theme
	sep := t.muted().Render("  │  ")

	sel := t.muted().Render("No selection")
	if !m.selection.IsNone() {
		kind := "Device"
		if m.selection.Kind() == SelectHierarchy {
			kind = "Hierarchy"
		}
		sel = t.label().Render(kind+" ") + t.value().Render(m.selection.Name())
	}

	tr := t.label().Render("Range ") + t.value().Render(m.timeRange.Label())

	return lipgloss.NewStyle().Padding(0, 1).Render(sel + sep + tr + sep + m.renderFetchStatus())
}

func (m Model) renderFetchStatus() string {
	t := m.theme
	switch m.controller.Status() {
	case StatusLoading:
		return m.spinner.View() + " " + t.label().Render("Loading")
	case StatusLoaded:
		s := lipgloss.NewStyle().Foreground(t.Healthy).Render("✓") + " " + t.label().Render("Loaded")
		if !m.lastLoaded.IsZero() {
			s += t.muted().Render(" at " + m.lastLoaded.Format("15:04:05"))
		}
		return s
	case StatusEmpty:
		return lipgloss.NewStyle().Foreground(t.Warning).Render("○") + " " + t.label().Render("No data for selection")
	case StatusFailed:
		msg := "Fetch failed"
		if err := m.controller.LastError(); err != nil {
			msg += ": " + errors.Summary(err)
		}
		return lipgloss.NewStyle().Foreground(t.Critical).Render("✗ " + msg)
	case StatusNotReady:
		return lipgloss.NewStyle().Foreground(t.Warning).Render("⚿") + " " + t.label().Render("Sign-in required (set SAHER_TOKEN)")
	default:
		return t.muted().Render("Pick a device or hierarchy on the Devices tab")
	}
}

func (m Model) renderFooter() string {
	return lipgloss.NewStyle().Padding(0, 1).Render(m.help.ShortHelpView(keys.ShortHelp()))
}

// renderHelpOverlay renders a centered box with every key binding.
func (m Model) renderHelpOverlay() string {
	t := m.theme
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Accent).
		Padding(1, 2)
	title := lipgloss.NewStyle().Foreground(t.Accent).Bold(true).MarginBottom(1).Render("Keyboard Shortcuts")

	content := strings.Join([]string{
		title,
		m.help.FullHelpView(keys.FullHelp()),
		"",
		t.label().Render(fmt.Sprintf("Press %s to close", keys.Help.Help().Key)),
	}, "\n")

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box.Render(content),
		lipgloss.WithWhitespaceChars(" "),
	)
}
