package api_test

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/saherflow/saher/internal/api"
	"github.com/saherflow/saher/internal/errors"
	"github.com/saherflow/saher/internal/logger"
	"github.com/saherflow/saher/internal/mockapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, h http.Handler) *api.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL+"/api", 2*time.Second, logger.NewBufferLogger())
}

func TestClient_GetDeviceChartData(t *testing.T) {
	c := newClient(t, mockapi.NewHandler(mockapi.Options{Token: "tok"}))

	env, err := c.GetDeviceChartData(context.Background(), "mpfm-102", api.RangeMonth, "tok")
	require.NoError(t, err)
	require.True(t, env.Success)
	require.NotNil(t, env.Data)
	assert.Equal(t, "mpfm-102", env.Data.DeviceID)
	assert.Equal(t, api.RangeMonth, env.Data.TimeRange)
	assert.Len(t, env.Data.FlowRate.Gas, 30)
}

func TestClient_GetHierarchyChartData(t *testing.T) {
	c := newClient(t, mockapi.NewHandler(mockapi.Options{}))

	env, err := c.GetHierarchyChartData(context.Background(), "south", api.RangeDay, "tok")
	require.NoError(t, err)
	require.NotNil(t, env.Data)
	assert.Equal(t, "South Field", env.Data.Name)
	assert.Equal(t, 2, env.Data.DeviceCount)
}

func TestClient_SendsHeadersAndQuery(t *testing.T) {
	var got *http.Request
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"deviceId":"d1","timeRange":"week"}}`))
	})
	c := newClient(t, h)

	env, err := c.GetDeviceChartData(context.Background(), "d1", api.RangeWeek, "abc")
	require.NoError(t, err)
	assert.Equal(t, "d1", env.Data.DeviceID)

	require.NotNil(t, got)
	assert.Equal(t, "/api/devices/d1/chart", got.URL.Path)
	assert.Equal(t, "week", got.URL.Query().Get("timeRange"))
	assert.Equal(t, "Bearer abc", got.Header.Get("Authorization"))
	assert.NotEmpty(t, got.Header.Get(api.RequestIDHeader))
}

func TestClient_UnsuccessfulEnvelope(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"message":"no samples"}`))
	})
	c := newClient(t, h)

	env, err := c.GetHierarchyChartData(context.Background(), "north", api.RangeDay, "abc")
	require.NoError(t, err)
	assert.False(t, env.Success)
	assert.Nil(t, env.Data)
	assert.Equal(t, "no samples", env.Message)
}

func TestClient_Unauthorized(t *testing.T) {
	c := newClient(t, mockapi.NewHandler(mockapi.Options{Token: "right"}))

	_, err := c.ListDevices(context.Background(), "wrong")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrAuth))

	var httpErr *api.HTTPError
	require.True(t, stderrors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	assert.Equal(t, "invalid or missing token", httpErr.Message)
}

func TestClient_NotFound(t *testing.T) {
	c := newClient(t, mockapi.NewHandler(mockapi.Options{}))

	_, err := c.GetDeviceChartData(context.Background(), "ghost", api.RangeDay, "tok")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrAPI))

	var httpErr *api.HTTPError
	require.True(t, stderrors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
}

func TestClient_TransportError(t *testing.T) {
	c := api.NewClient("http://127.0.0.1:1/api", 500*time.Millisecond, nil)

	_, err := c.GetDeviceChartData(context.Background(), "d1", api.RangeDay, "tok")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrAPI))
}

func TestClient_ContextCancelled(t *testing.T) {
	c := newClient(t, mockapi.NewHandler(mockapi.Options{Latency: 2 * time.Second}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetDeviceChartData(ctx, "mpfm-101", api.RangeDay, "tok")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_ListingEndpoints(t *testing.T) {
	c := newClient(t, mockapi.NewHandler(mockapi.Options{}))

	devices, err := c.ListDevices(context.Background(), "")
	require.NoError(t, err)
	require.NotNil(t, devices.Data)
	assert.NotEmpty(t, *devices.Data)

	tree, err := c.GetHierarchy(context.Background(), "")
	require.NoError(t, err)
	require.NotNil(t, tree.Data)
	assert.Equal(t, "north", (*tree.Data)[0].ID)
}
