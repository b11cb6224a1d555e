package mockapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/saherflow/saher/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 19, 12, 30, 0, 0, time.UTC)

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	opts.Now = func() time.Time { return fixedNow }
	srv := httptest.NewServer(NewHandler(opts))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestDeviceChart(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp := get(t, srv.URL+"/api/devices/mpfm-101/chart?timeRange=week", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var env api.Envelope[api.DeviceChartData]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.True(t, env.Success)
	require.NotNil(t, env.Data)

	assert.Equal(t, "mpfm-101", env.Data.DeviceID)
	assert.Equal(t, api.RangeWeek, env.Data.TimeRange)
	assert.Len(t, env.Data.FlowRate.Oil, 28)
	require.NotNil(t, env.Data.GVF)
	assert.GreaterOrEqual(t, *env.Data.GVF, 0.0)
	assert.LessOrEqual(t, *env.Data.GVF, 100.0)
}

func TestDeviceChart_Deterministic(t *testing.T) {
	c := DefaultCatalog()
	a, ok := c.DeviceChart("mpfm-201", api.RangeDay, fixedNow)
	require.True(t, ok)
	b, _ := c.DeviceChart("mpfm-201", api.RangeDay, fixedNow)
	assert.Equal(t, a, b)
}

func TestDeviceChart_NotFound(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp := get(t, srv.URL+"/api/devices/nope/chart", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var env api.Envelope[struct{}]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "nope")
}

func TestChart_BadTimeRange(t *testing.T) {
	srv := newTestServer(t, Options{})
	resp := get(t, srv.URL+"/api/hierarchy/north/chart?timeRange=decade", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHierarchyChart_Aggregates(t *testing.T) {
	c := DefaultCatalog()

	north, ok := c.HierarchyChart("north", api.RangeDay, fixedNow)
	require.True(t, ok)
	assert.Equal(t, 3, north.DeviceCount)
	require.Len(t, north.Regions, 2)
	assert.Equal(t, "Site A", north.Regions[0].Name)

	a101, _ := c.DeviceChart("mpfm-101", api.RangeDay, fixedNow)
	a102, _ := c.DeviceChart("mpfm-102", api.RangeDay, fixedNow)
	siteA, _ := c.HierarchyChart("north-a", api.RangeDay, fixedNow)
	assert.InDelta(t, a101.FlowRate.Oil[0].Value+a102.FlowRate.Oil[0].Value, siteA.FlowRate.Oil[0].Value, 0.001)

	// A leaf node reports itself as its only region
	require.Len(t, siteA.Regions, 1)
	assert.Equal(t, "Site A", siteA.Regions[0].Name)

	_, ok = c.HierarchyChart("west", api.RangeDay, fixedNow)
	assert.False(t, ok)
}

func TestListings(t *testing.T) {
	srv := newTestServer(t, Options{})

	var devices api.Envelope[[]api.Device]
	require.NoError(t, json.NewDecoder(get(t, srv.URL+"/api/devices", "").Body).Decode(&devices))
	require.NotNil(t, devices.Data)
	assert.Len(t, *devices.Data, 5)

	var tree api.Envelope[[]api.HierarchyNode]
	require.NoError(t, json.NewDecoder(get(t, srv.URL+"/api/hierarchy", "").Body).Decode(&tree))
	require.NotNil(t, tree.Data)
	assert.Len(t, *tree.Data, 2)
}

func TestRequireToken(t *testing.T) {
	srv := newTestServer(t, Options{Token: "s3cret"})

	assert.Equal(t, http.StatusUnauthorized, get(t, srv.URL+"/api/devices", "").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, get(t, srv.URL+"/api/devices", "wrong").StatusCode)
	assert.Equal(t, http.StatusOK, get(t, srv.URL+"/api/devices", "s3cret").StatusCode)
}

func TestRequireToken_NeedsBearerScheme(t *testing.T) {
	srv := newTestServer(t, Options{Token: "s3cret"})

	for _, header := range []string{"s3cret", "Basic s3cret", "bearer s3cret"} {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/devices", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", header)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, header)
	}
}

func getWithOrigin(t *testing.T, url, origin string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	req.Header.Set("Origin", origin)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t, Options{AllowedOrigins: []string{"http://localhost:5173"}})

	resp := getWithOrigin(t, srv.URL+"/api/devices", "http://localhost:5173")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))

	resp = getWithOrigin(t, srv.URL+"/api/devices", "http://evil.example")
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestCORS_DisabledByDefault(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp := getWithOrigin(t, srv.URL+"/api/devices", "http://localhost:5173")
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, Options{RateLimit: 2})

	assert.Equal(t, http.StatusOK, get(t, srv.URL+"/api/devices", "").StatusCode)
	assert.Equal(t, http.StatusOK, get(t, srv.URL+"/api/hierarchy", "").StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, get(t, srv.URL+"/api/devices", "").StatusCode)
}
