// Package api is the typed HTTP client for the chart API.
//
// Every endpoint answers with an Envelope. Transport failures and non-2xx
// statuses come back as errors; a 2xx envelope with success=false is
// returned as-is so callers can treat it as an empty result.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/saherflow/saher/internal/errors"
	"github.com/saherflow/saher/internal/logger"
)

// RequestIDHeader carries a per-request id for correlating with API logs.
const RequestIDHeader = "X-Request-ID"

// HTTPError is a non-2xx response from the API.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Client talks to the chart API.
type Client struct {
	http *resty.Client
	log  logger.Logger
}

// NewClient creates a client rooted at baseURL (e.g. https://host/api).
func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.Noop()
	}
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{http: rc, log: log}
}

// GetDeviceChartData fetches chart data for one device over the time range.
func (c *Client) GetDeviceChartData(ctx context.Context, deviceID string, timeRange TimeRange, token string) (*Envelope[DeviceChartData], error) {
	var env Envelope[DeviceChartData]
	req := c.request(ctx, token).
		SetPathParam("id", deviceID).
		SetQueryParam("timeRange", string(timeRange))
	if err := c.do(req, "/devices/{id}/chart", &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// GetHierarchyChartData fetches aggregated chart data for a hierarchy node.
func (c *Client) GetHierarchyChartData(ctx context.Context, hierarchyID string, timeRange TimeRange, token string) (*Envelope[HierarchyChartData], error) {
	var env Envelope[HierarchyChartData]
	req := c.request(ctx, token).
		SetPathParam("id", hierarchyID).
		SetQueryParam("timeRange", string(timeRange))
	if err := c.do(req, "/hierarchy/{id}/chart", &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// ListDevices returns every device visible to the token.
func (c *Client) ListDevices(ctx context.Context, token string) (*Envelope[[]Device], error) {
	var env Envelope[[]Device]
	if err := c.do(c.request(ctx, token), "/devices", &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// GetHierarchy returns the hierarchy tree roots.
func (c *Client) GetHierarchy(ctx context.Context, token string) (*Envelope[[]HierarchyNode], error) {
	var env Envelope[[]HierarchyNode]
	if err := c.do(c.request(ctx, token), "/hierarchy", &env); err != nil {
		return nil, err
	}
	return &env, nil
}

func (c *Client) request(ctx context.Context, token string) *resty.Request {
	req := c.http.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, uuid.NewString())
	if token != "" {
		req.SetAuthToken(token)
	}
	return req
}

// do executes a GET and decodes the envelope into out.
func (c *Client) do(req *resty.Request, path string, out any) error {
	// Error bodies use the same envelope; decode them for the message.
	var errEnv Envelope[struct{}]
	resp, err := req.SetResult(out).SetError(&errEnv).Get(path)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrAPI,
			"Chart API request failed",
			"Check api.base_url and that the API is reachable.")
	}

	c.log.Debug("GET %s -> %d (%s, request %s)", resp.Request.URL, resp.StatusCode(), resp.Time(), req.Header.Get(RequestIDHeader))

	if resp.IsError() || resp.StatusCode() >= http.StatusMultipleChoices {
		httpErr := &HTTPError{StatusCode: resp.StatusCode(), Message: errEnv.Message}
		if resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden {
			return errors.WrapWithCode(httpErr, errors.ErrAuth,
				"Chart API rejected the token",
				"Refresh the token in auth.token, auth.token_file, or SAHER_TOKEN.")
		}
		return errors.WrapWithCode(httpErr, errors.ErrAPI,
			"Chart API returned an error",
			"")
	}
	return nil
}
