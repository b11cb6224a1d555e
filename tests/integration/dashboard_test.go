package integration

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/saherflow/saher/internal/api"
	"github.com/saherflow/saher/internal/auth"
	"github.com/saherflow/saher/internal/config"
	"github.com/saherflow/saher/internal/dashboard"
	"github.com/saherflow/saher/internal/logger"
	"github.com/saherflow/saher/internal/mockapi"
	"github.com/saherflow/saher/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const token = "integration-token"

// setup serves the mock API and loads a config file pointing at it.
func setup(t *testing.T) (*config.Config, *api.Client) {
	t.Helper()
	for _, k := range []string{"SAHER_TOKEN", "SAHER_AUTH_TOKEN", "SAHER_API_URL", "SAHER_API_BASE_URL"} {
		t.Setenv(k, "")
	}

	srv := httptest.NewServer(mockapi.NewHandler(mockapi.Options{Token: token}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "token"), []byte(token+"\n"), 0o600))

	path := filepath.Join(dir, ".saher.yaml")
	content := "version: 1\n" +
		"api:\n  base_url: " + srv.URL + "/api\n  timeout: 5s\n" +
		"auth:\n  token_file: " + filepath.Join(dir, "token") + "\n" +
		"dashboard:\n  time_range: day\n  theme: dark\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	return cfg, api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, logger.Noop())
}

// run executes a controller command and applies its result.
func run(t *testing.T, c *dashboard.Controller, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	require.True(t, c.Handle(cmd()))
}

func TestDeviceThenHierarchy(t *testing.T) {
	cfg, client := setup(t)
	provider := auth.New(cfg.Auth.Token, cfg.Auth.TokenFile)
	require.Equal(t, token, provider.Token())

	reg := prometheus.NewRegistry()
	c := dashboard.NewController(client, cfg.API.Timeout, logger.Noop(), telemetry.NewMetrics(reg))
	t.Cleanup(c.Stop)

	device := dashboard.DeviceSelection(api.Device{ID: "mpfm-101", Name: "MPFM 101"})
	run(t, c, c.Sync(dashboard.FetchInputs{Selection: device, TimeRange: api.RangeDay, Token: provider.Token()}))

	require.Equal(t, dashboard.StatusLoaded, c.Status())
	require.NotNil(t, c.DeviceData())
	assert.Len(t, c.DeviceData().FlowRate.Oil, 24)
	assert.Nil(t, c.HierarchyData())

	node := dashboard.HierarchySelection(api.HierarchyNode{ID: "north", Name: "North Field"})
	cmd := c.Sync(dashboard.FetchInputs{Selection: node, TimeRange: api.RangeWeek, Token: provider.Token()})
	assert.Nil(t, c.DeviceData(), "device data is cleared before the hierarchy request")
	run(t, c, cmd)

	require.NotNil(t, c.HierarchyData())
	assert.Equal(t, 3, c.HierarchyData().DeviceCount)
	assert.Equal(t, api.RangeWeek, c.HierarchyData().TimeRange)

	count, err := testutil.GatherAndCount(reg, "saher_chart_fetches_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one loaded series per selection kind")

	out := ansi.Strip(dashboard.Content{}.View(dashboard.ViewData{
		Selection: node,
		TimeRange: api.RangeWeek,
		Hierarchy: c.HierarchyData(),
		Status:    c.Status(),
		Gauges:    dashboard.GaugeDefaults{GVF: 65, WLR: 85},
		Theme:     dashboard.DarkTheme,
	}, 120))
	assert.Contains(t, out, "Site A")
	assert.Contains(t, out, "Average GVF")
}

func TestUnknownDeviceFails(t *testing.T) {
	cfg, client := setup(t)
	c := dashboard.NewController(client, cfg.API.Timeout, logger.Noop(), nil)
	t.Cleanup(c.Stop)

	sel := dashboard.DeviceSelection(api.Device{ID: "nope"})
	run(t, c, c.Sync(dashboard.FetchInputs{Selection: sel, TimeRange: api.RangeDay, Token: token}))

	assert.Equal(t, dashboard.StatusFailed, c.Status())
	require.Error(t, c.LastError())
	var httpErr *api.HTTPError
	require.ErrorAs(t, c.LastError(), &httpErr)
	assert.Equal(t, 404, httpErr.StatusCode)
	assert.False(t, c.Loading())
}

func TestInventory(t *testing.T) {
	_, client := setup(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	devices, err := client.ListDevices(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, devices.Data)
	assert.Len(t, *devices.Data, 5)

	roots, err := client.GetHierarchy(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, roots.Data)
	var names []string
	for _, r := range *roots.Data {
		names = append(names, r.Name)
	}
	assert.Equal(t, "North Field, South Field", strings.Join(names, ", "))
}
