package dashboard

import (
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Tab labels, in display order.
const (
	TabDashboard = "Dashboard"
	TabDevices   = "Devices"
	TabAlarms    = "Alarms"
)

// Tabs is the fixed navigation set.
var Tabs = []string{TabDashboard, TabDevices, TabAlarms}

// ClockLayout renders as dd.mm.yyyy: HH:MM:SS.
const ClockLayout = "02.01.2006: 15:04:05"

// FormatClock formats t for the header clock.
func FormatClock(t time.Time) string {
	return t.Format(ClockLayout)
}

// TabSelectedMsg asks the parent to activate a tab. The header never
// changes its active tab on its own.
type TabSelectedMsg struct {
	Tab string
}

// clockTickMsg is one tick of a header's clock chain.
type clockTickMsg struct {
	id  int
	tag int
	t   time.Time
}

var lastHeaderID int64

func nextHeaderID() int {
	return int(atomic.AddInt64(&lastHeaderID, 1))
}

// Header renders the logo, tab navigation, clock and status markers.
//
// The clock is driven by a tick chain started with Start and torn down with
// Stop. Every Start/Stop bumps a tag; ticks carrying an old tag are ignored
// and do not reschedule.
type Header struct {
	id      int
	tag     int
	running bool
	now     time.Time
	clock   func() time.Time

	active   string
	user     string
	notify   bool
	interval time.Duration
	theme    Theme
}

// NewHeader creates a stopped header showing the Dashboard tab.
func NewHeader(theme Theme) Header {
	return Header{
		id:       nextHeaderID(),
		active:   TabDashboard,
		interval: time.Second,
		clock:    time.Now,
		theme:    theme,
	}
}

// Start captures the current time and begins the tick chain.
func (h *Header) Start() tea.Cmd {
	h.running = true
	h.tag++
	h.now = h.clock()
	return h.tick()
}

// Stop ends the tick chain. Ticks already scheduled are ignored on arrival.
func (h *Header) Stop() {
	h.running = false
	h.tag++
}

// Running reports whether the clock is ticking.
func (h Header) Running() bool { return h.running }

// Clock returns the formatted time, or "" before the first Start.
func (h Header) Clock() string {
	if h.now.IsZero() {
		return ""
	}
	return FormatClock(h.now)
}

// Active returns the highlighted tab.
func (h Header) Active() string { return h.active }

// SetActive highlights tab. Unknown labels are ignored.
func (h *Header) SetActive(tab string) {
	if tabIndex(tab) >= 0 {
		h.active = tab
	}
}

// SetUser sets the user marker text.
func (h *Header) SetUser(user string) { h.user = user }

// SetNotify toggles the notification dot.
func (h *Header) SetNotify(on bool) { h.notify = on }

// SetTheme replaces the palette.
func (h *Header) SetTheme(theme Theme) { h.theme = theme }

// SelectTab returns a command emitting TabSelectedMsg for tab.
func (h Header) SelectTab(tab string) tea.Cmd {
	if tabIndex(tab) < 0 {
		return nil
	}
	return func() tea.Msg { return TabSelectedMsg{Tab: tab} }
}

// SelectIndex is SelectTab by zero-based position.
func (h Header) SelectIndex(i int) tea.Cmd {
	if i < 0 || i >= len(Tabs) {
		return nil
	}
	return h.SelectTab(Tabs[i])
}

// NextTab returns a command selecting the tab after the active one.
func (h Header) NextTab() tea.Cmd {
	i := tabIndex(h.active)
	return h.SelectIndex((i + 1) % len(Tabs))
}

func tabIndex(tab string) int {
	for i, t := range Tabs {
		if t == tab {
			return i
		}
	}
	return -1
}

func (h Header) tick() tea.Cmd {
	id, tag := h.id, h.tag
	return tea.Tick(h.interval, func(t time.Time) tea.Msg {
		return clockTickMsg{id: id, tag: tag, t: t}
	})
}

// Update advances the clock on its own ticks.
func (h Header) Update(msg tea.Msg) (Header, tea.Cmd) {
	tick, ok := msg.(clockTickMsg)
	if !ok {
		return h, nil
	}
	if tick.id != h.id || tick.tag != h.tag || !h.running {
		return h, nil
	}
	h.now = tick.t
	return h, h.tick()
}

// View renders the header at the given width.
func (h Header) View(width int) string {
	t := h.theme

	logoMark := lipgloss.NewStyle().
		Foreground(t.Background).
		Background(t.TextPrimary).
		Bold(true).
		Render(" S ")
	logoText := lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true).Render("SAHER")
	logo := logoMark + " " + logoText

	activeTab := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(t.Accent).
		Bold(true).
		Padding(0, 2)
	idleTab := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Padding(0, 2)

	tabs := make([]string, 0, len(Tabs))
	for i, tab := range Tabs {
		label := string(rune('1'+i)) + " " + tab
		if tab == h.active {
			tabs = append(tabs, activeTab.Render(label))
		} else {
			tabs = append(tabs, idleTab.Render(label))
		}
	}
	left := logo + "   " + lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	var right []string
	if clock := h.Clock(); clock != "" {
		right = append(right, lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true).Render(clock))
	}

	marker := t.muted()
	themeGlyph := "☾"
	if t.Name == LightTheme.Name {
		themeGlyph = "☀"
	}
	right = append(right, marker.Render(themeGlyph))

	bell := marker.Render("◔")
	if h.notify {
		bell += lipgloss.NewStyle().Foreground(t.Accent).Render("•")
	}
	right = append(right, bell)

	user := "guest"
	if h.user != "" {
		user = h.user
	}
	right = append(right, marker.Render("◯ "+user))

	rightStr := strings.Join(right, "  ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(rightStr) - 2
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Background(t.Background).
		Padding(0, 1).
		Render(left + strings.Repeat(" ", gap) + rightStr)
}
