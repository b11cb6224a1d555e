package dashboard

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/saherflow/saher/internal/api"
	"github.com/saherflow/saher/internal/errors"
	"github.com/saherflow/saher/internal/logger"
)

// ChartSource is the subset of the API client the controller needs.
type ChartSource interface {
	GetDeviceChartData(ctx context.Context, deviceID string, timeRange api.TimeRange, token string) (*api.Envelope[api.DeviceChartData], error)
	GetHierarchyChartData(ctx context.Context, hierarchyID string, timeRange api.TimeRange, token string) (*api.Envelope[api.HierarchyChartData], error)
}

// Recorder receives fetch outcomes. telemetry.Metrics implements it.
type Recorder interface {
	ObserveFetch(kind, status string, d time.Duration)
	SetLoading(loading bool)
}

type nopRecorder struct{}

func (nopRecorder) ObserveFetch(string, string, time.Duration) {}
func (nopRecorder) SetLoading(bool)                            {}

// FetchStatus is the outcome of the most recent fetch cycle.
type FetchStatus int

const (
	// StatusIdle: nothing selected, nothing to fetch.
	StatusIdle FetchStatus = iota
	// StatusNotReady: no token, fetch skipped.
	StatusNotReady
	// StatusLoading: a request is in flight.
	StatusLoading
	// StatusLoaded: the last response carried data and it was stored.
	StatusLoaded
	// StatusEmpty: the API answered success=false or without data.
	StatusEmpty
	// StatusFailed: transport, status, or decode error.
	StatusFailed
)

// String returns a label used in logs and metrics.
func (s FetchStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusNotReady:
		return "not_ready"
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FetchInputs are the values the controller reacts to.
type FetchInputs struct {
	Selection Selection
	TimeRange api.TimeRange
	Token     string
}

// fetchResultMsg carries a chart response back into the update loop.
type fetchResultMsg struct {
	seq       uint64
	selection Selection
	timeRange api.TimeRange
	device    *api.Envelope[api.DeviceChartData]
	hierarchy *api.Envelope[api.HierarchyChartData]
	err       error
	elapsed   time.Duration
}

// Controller owns the fetched chart data and decides when to fetch.
//
// It holds at most one dataset: switching to a device clears hierarchy data
// and vice versa, before any request is made. Each request gets a sequence
// number and a cancellable context; issuing a new request (or leaving the
// fetchable state) cancels the previous one, and responses carrying an old
// sequence number are dropped, so the last request wins.
//
// All methods must be called from the Bubble Tea update loop.
type Controller struct {
	source   ChartSource
	log      logger.Logger
	recorder Recorder
	timeout  time.Duration

	last   FetchInputs
	synced bool
	seq    uint64
	cancel context.CancelFunc

	deviceData    *api.DeviceChartData
	hierarchyData *api.HierarchyChartData
	loading       bool
	status        FetchStatus
	lastErr       error
}

// NewController creates a controller. A nil logger or recorder discards.
func NewController(source ChartSource, timeout time.Duration, log logger.Logger, rec Recorder) *Controller {
	if log == nil {
		log = logger.Noop()
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Controller{
		source:   source,
		log:      log,
		recorder: rec,
		timeout:  timeout,
	}
}

// Sync reacts to the inputs if they differ from the last synced inputs.
// The returned command (possibly nil) performs the request.
func (c *Controller) Sync(in FetchInputs) tea.Cmd {
	if c.synced && in == c.last {
		return nil
	}
	c.synced = true
	c.last = in
	return c.run(in)
}

// Refresh re-runs the last synced inputs unconditionally.
func (c *Controller) Refresh() tea.Cmd {
	if !c.synced {
		return nil
	}
	return c.run(c.last)
}

// Stop cancels any in-flight request.
func (c *Controller) Stop() {
	c.abort()
}

func (c *Controller) run(in FetchInputs) tea.Cmd {
	kind := in.Selection.Kind()

	switch kind {
	case SelectDevice:
		c.hierarchyData = nil
	case SelectHierarchy:
		c.deviceData = nil
	default:
		c.abort()
		c.status = StatusIdle
		c.lastErr = nil
		return nil
	}

	c.abort()

	if in.Token == "" {
		c.status = StatusNotReady
		c.lastErr = nil
		c.log.Debug("Skipping %s chart fetch for %s: no token", kind, in.Selection.ID())
		c.recorder.ObserveFetch(kind.String(), StatusNotReady.String(), 0)
		return nil
	}

	seq := c.seq
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	c.cancel = cancel
	c.setLoading(true)
	c.status = StatusLoading

	source := c.source
	sel := in.Selection
	tr := in.TimeRange
	token := in.Token

	c.log.Debug("Fetching %s chart data for %s (%s, seq %d)", kind, sel.ID(), tr, seq)

	return func() tea.Msg {
		defer cancel()
		start := time.Now()
		msg := fetchResultMsg{seq: seq, selection: sel, timeRange: tr}
		switch sel.Kind() {
		case SelectDevice:
			msg.device, msg.err = source.GetDeviceChartData(ctx, sel.ID(), tr, token)
		case SelectHierarchy:
			msg.hierarchy, msg.err = source.GetHierarchyChartData(ctx, sel.ID(), tr, token)
		}
		msg.elapsed = time.Since(start)
		return msg
	}
}

// abort cancels the in-flight request and invalidates its sequence number.
func (c *Controller) abort() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.seq++
	c.setLoading(false)
}

func (c *Controller) setLoading(loading bool) {
	c.loading = loading
	c.recorder.SetLoading(loading)
}

// Handle applies a fetch result produced by a Sync or Refresh command.
// It returns false for other messages and for stale results, which are
// dropped without touching state.
func (c *Controller) Handle(m tea.Msg) bool {
	msg, ok := m.(fetchResultMsg)
	if !ok {
		return false
	}
	kind := msg.selection.Kind().String()

	if msg.seq != c.seq {
		c.log.Debug("Dropping stale %s chart response for %s (seq %d, current %d)", kind, msg.selection.ID(), msg.seq, c.seq)
		c.recorder.ObserveFetch(kind, "stale", msg.elapsed)
		return false
	}

	c.cancel = nil
	c.setLoading(false)

	if msg.err != nil {
		c.status = StatusFailed
		c.lastErr = msg.err
		c.log.Error("Failed to load %s chart data for %s: %s", kind, msg.selection.ID(), errors.Summary(msg.err))
		c.recorder.ObserveFetch(kind, StatusFailed.String(), msg.elapsed)
		return true
	}

	c.lastErr = nil
	c.status = StatusEmpty
	switch msg.selection.Kind() {
	case SelectDevice:
		if msg.device != nil && msg.device.Success && msg.device.Data != nil {
			c.deviceData = msg.device.Data
			c.status = StatusLoaded
		}
	case SelectHierarchy:
		if msg.hierarchy != nil && msg.hierarchy.Success && msg.hierarchy.Data != nil {
			c.hierarchyData = msg.hierarchy.Data
			c.status = StatusLoaded
		}
	}
	c.recorder.ObserveFetch(kind, c.status.String(), msg.elapsed)
	return true
}

// DeviceData returns the stored device dataset, or nil.
func (c *Controller) DeviceData() *api.DeviceChartData { return c.deviceData }

// HierarchyData returns the stored hierarchy dataset, or nil.
func (c *Controller) HierarchyData() *api.HierarchyChartData { return c.hierarchyData }

// Loading reports whether a request is in flight.
func (c *Controller) Loading() bool { return c.loading }

// Status returns the outcome of the most recent cycle.
func (c *Controller) Status() FetchStatus { return c.status }

// LastError returns the error of the most recent failed cycle, or nil.
func (c *Controller) LastError() error { return c.lastErr }
