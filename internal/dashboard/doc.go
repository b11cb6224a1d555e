// Package dashboard implements the terminal production dashboard: a header
// with tab navigation and a live clock, flow and production widgets, GVF/WLR
// gauges, and the controller that fetches chart data for the selected device
// or hierarchy node.
//
// # Architecture
//
// The package uses Bubble Tea (Model-Update-View). Network calls run inside
// tea.Cmd functions and report back as messages, so all state changes happen
// on the update loop and no locks are needed.
//
// # Key Components
//
//	Model       - Root model: tabs, selection, time range, picker, body viewport
//	Controller  - Decides when to fetch chart data and holds the result
//	Header      - Logo, tabs, clock tick chain, user and notification markers
//	Content     - Fixed widget grid, or an override slot for other tabs
//	Gauge       - Two-slice ring chart with a centered percentage
//	Picker      - List of hierarchy nodes and devices for the Devices tab
//
// # Message Flow
//
//  1. mountMsg starts the clock, the spinner, and the first fetch sync
//  2. SelectionMsg (from the picker) or a t/x key changes the fetch inputs
//  3. Controller.Sync compares inputs and returns a fetch command if they changed
//  4. fetchResultMsg arrives; responses from superseded requests are dropped
//  5. clockTickMsg re-reads the token every second, so signing in resumes fetching
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C   - Quit
//	Tab, 1-3    - Switch tab
//	t           - Cycle time range (24h/7d/30d/1y)
//	r           - Refresh
//	x           - Clear selection
//	?           - Toggle help overlay
package dashboard
