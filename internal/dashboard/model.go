package dashboard

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/saherflow/saher/internal/api"
	"github.com/saherflow/saher/internal/auth"
	"github.com/saherflow/saher/internal/errors"
	"github.com/saherflow/saher/internal/logger"
)

// Default terminal size until the first WindowSizeMsg arrives.
const (
	defaultWidth  = 120
	defaultHeight = 40
)

// chromeHeight is the number of rows outside the scrollable body:
// header, status bar, and footer.
const chromeHeight = 3

// Options configures a dashboard Model.
type Options struct {
	Source    ChartSource
	Inventory InventorySource
	Auth      auth.Provider
	Log       logger.Logger
	Recorder  Recorder

	// Timeout bounds each request.
	Timeout   time.Duration
	TimeRange api.TimeRange
	Theme     Theme
	Gauges    GaugeDefaults

	// Selection is the initial selection, usually none.
	Selection Selection
}

type inventoryState int

const (
	inventoryIdle inventoryState = iota
	inventoryLoading
	inventoryLoaded
	inventoryFailed
)

// mountMsg starts the header clock and the first fetch.
type mountMsg struct{}

// Model is the root Bubble Tea model of the dashboard.
type Model struct {
	header     Header
	picker     Picker
	controller *Controller
	spinner    spinner.Model
	help       help.Model
	viewport   viewport.Model

	auth      auth.Provider
	inventory InventorySource
	log       logger.Logger
	timeout   time.Duration
	theme     Theme
	gauges    GaugeDefaults

	selection Selection
	timeRange api.TimeRange
	activeTab string
	token     string

	devices    []api.Device
	roots      []api.HierarchyNode
	invState   inventoryState
	lastLoaded time.Time

	width    int
	height   int
	showHelp bool
	quitting bool
}

// NewModel creates the dashboard model.
func NewModel(opts Options) Model {
	if opts.Log == nil {
		opts.Log = logger.Noop()
	}
	if opts.Auth == nil {
		opts.Auth = auth.Static("")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.TimeRange == "" {
		opts.TimeRange = api.RangeDay
	}
	if opts.Theme.Name == "" {
		opts.Theme = DarkTheme
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(opts.Theme.Accent)

	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(opts.Theme.TextSecondary)
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(opts.Theme.TextMuted)
	h.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(opts.Theme.Border)
	h.Styles.FullKey = lipgloss.NewStyle().Foreground(opts.Theme.TextPrimary).Bold(true)
	h.Styles.FullDesc = lipgloss.NewStyle().Foreground(opts.Theme.TextSecondary)
	h.Styles.FullSeparator = lipgloss.NewStyle().Foreground(opts.Theme.Border)

	m := Model{
		header:     NewHeader(opts.Theme),
		picker:     NewPicker(opts.Theme),
		controller: NewController(opts.Source, opts.Timeout, opts.Log, opts.Recorder),
		spinner:    sp,
		help:       h,
		viewport:   viewport.New(defaultWidth, defaultHeight-chromeHeight),
		auth:       opts.Auth,
		inventory:  opts.Inventory,
		log:        opts.Log,
		timeout:    opts.Timeout,
		theme:      opts.Theme,
		gauges:     opts.Gauges,
		selection:  opts.Selection,
		timeRange:  opts.TimeRange,
		activeTab:  TabDashboard,
		width:      defaultWidth,
		height:     defaultHeight,
	}
	m.picker.SetSize(defaultWidth, defaultHeight-chromeHeight)
	m.refreshToken()
	m.refreshViewport()
	return m
}

// Init schedules the mount message.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return mountMsg{} }
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case mountMsg:
		m.refreshToken()
		cmds = append(cmds, m.header.Start(), m.spinner.Tick, m.syncFetch(), m.loadInventory())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-chromeHeight)
		m.picker.SetSize(msg.Width, m.viewport.Height)
		m.help.Width = msg.Width

	case tea.KeyMsg:
		if handled, cmd := m.handleKey(msg); handled {
			m.refreshViewport()
			return m, cmd
		}
		var cmd tea.Cmd
		if m.activeTab == TabDevices {
			m.picker, cmd = m.picker.Update(msg)
		} else {
			m.viewport, cmd = m.viewport.Update(msg)
		}
		cmds = append(cmds, cmd)

	case clockTickMsg:
		var cmd tea.Cmd
		m.header, cmd = m.header.Update(msg)
		cmds = append(cmds, cmd)
		// The token may appear, rotate, or expire between ticks.
		m.refreshToken()
		cmds = append(cmds, m.syncFetch(), m.loadInventory())

	case TabSelectedMsg:
		m.setTab(msg.Tab)

	case SelectionMsg:
		m.selection = msg.Selection
		m.setTab(TabDashboard)
		m.viewport.GotoTop()
		cmds = append(cmds, m.syncFetch())

	case fetchResultMsg:
		if m.controller.Handle(msg) && m.controller.Status() == StatusLoaded {
			m.lastLoaded = time.Now()
		}

	case inventoryMsg:
		if msg.err != nil {
			m.invState = inventoryFailed
			m.picker.SetError(msg.err)
			m.log.Warn("Failed to load device inventory: %s", errors.Summary(msg.err))
			break
		}
		m.invState = inventoryLoaded
		m.devices = msg.devices
		m.roots = msg.roots
		m.picker.SetInventory(msg.roots, msg.devices)
		m.log.Info("Loaded %d devices and %d hierarchy roots", len(msg.devices), len(msg.roots))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	default:
		if m.activeTab == TabDevices {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.refreshViewport()
	return m, tea.Batch(cmds...)
}

// handleKey processes dashboard-level keys. Returns false for keys that
// belong to the picker or the viewport.
func (m *Model) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	// The picker's filter input owns the keyboard while focused.
	if m.activeTab == TabDevices && m.picker.Filtering() {
		if msg.Type == tea.KeyCtrlC {
			return true, m.quit()
		}
		return false, nil
	}

	if m.showHelp {
		switch {
		case key.Matches(msg, keys.Help), key.Matches(msg, keys.Close):
			m.showHelp = false
		case key.Matches(msg, keys.Quit):
			return true, m.quit()
		}
		return true, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return true, m.quit()

	case key.Matches(msg, keys.Help):
		m.showHelp = true
		return true, nil

	case key.Matches(msg, keys.NextTab):
		return true, m.header.NextTab()

	case key.Matches(msg, keys.TimeRange):
		m.timeRange = m.timeRange.Next()
		return true, m.syncFetch()

	case key.Matches(msg, keys.Refresh):
		m.refreshToken()
		cmd := m.syncFetch()
		if cmd == nil {
			cmd = m.controller.Refresh()
		}
		if m.invState == inventoryFailed {
			m.invState = inventoryIdle
		}
		return true, tea.Batch(cmd, m.loadInventory())

	case key.Matches(msg, keys.Clear):
		m.selection = NoSelection()
		return true, m.syncFetch()
	}

	for i, b := range keys.tabKeys() {
		if key.Matches(msg, b) {
			return true, m.header.SelectIndex(i)
		}
	}

	return false, nil
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.header.Stop()
	m.controller.Stop()
	return tea.Quit
}

func (m *Model) setTab(tab string) {
	if tabIndex(tab) < 0 {
		return
	}
	m.activeTab = tab
	m.header.SetActive(tab)
	m.viewport.GotoTop()
}

// refreshToken reads the current token and updates the user marker.
func (m *Model) refreshToken() {
	token := m.auth.Token()
	if token == m.token {
		return
	}
	m.token = token
	m.header.SetUser(auth.Subject(token))
	if token == "" {
		m.log.Info("No usable token; chart requests paused")
	}
}

func (m *Model) syncFetch() tea.Cmd {
	return m.controller.Sync(FetchInputs{
		Selection: m.selection,
		TimeRange: m.timeRange,
		Token:     m.token,
	})
}

// loadInventory starts an inventory load once a token is available.
func (m *Model) loadInventory() tea.Cmd {
	if m.inventory == nil || m.invState != inventoryIdle || m.token == "" {
		return nil
	}
	m.invState = inventoryLoading
	return loadInventory(m.inventory, m.token, m.timeout)
}

func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderBody())
}

// viewData snapshots what the widgets render.
func (m Model) viewData() ViewData {
	return ViewData{
		Selection: m.selection,
		TimeRange: m.timeRange,
		Device:    m.controller.DeviceData(),
		Hierarchy: m.controller.HierarchyData(),
		Loading:   m.controller.Loading(),
		Status:    m.controller.Status(),
		Spinner:   m.spinner.View(),
		Gauges:    m.gauges,
		Devices:   m.devices,
		Theme:     m.theme,
	}
}

// Selection returns the current selection.
func (m Model) Selection() Selection { return m.selection }

// TimeRange returns the current time range.
func (m Model) TimeRange() api.TimeRange { return m.timeRange }

// ActiveTab returns the highlighted tab.
func (m Model) ActiveTab() string { return m.activeTab }

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderPage()
}
