package doctor

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/saherflow/saher/internal/api"
	"github.com/saherflow/saher/internal/errors"
	"github.com/saherflow/saher/internal/util"
)

// DeviceLister is the slice of the API client the reachability check needs.
type DeviceLister interface {
	ListDevices(ctx context.Context, token string) (*api.Envelope[[]api.Device], error)
}

// APICheck lists devices once to confirm the API answers and accepts the token.
type APICheck struct {
	Client  DeviceLister
	BaseURL string
	Token   string
	Timeout time.Duration
}

func (c *APICheck) Name() string     { return "api_reachable" }
func (c *APICheck) Category() string { return "API" }

func (c *APICheck) Run() CheckResult {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	env, err := c.Client.ListDevices(ctx, c.Token)
	elapsed := time.Since(start).Round(time.Millisecond)

	if err != nil {
		var httpErr *api.HTTPError
		switch {
		case errors.IsCode(err, errors.ErrAuth):
			return CheckResult{
				Status:     StatusFail,
				Message:    fmt.Sprintf("%s rejected the token", c.BaseURL),
				Suggestion: "Refresh the token in auth.token, auth.token_file, or SAHER_TOKEN",
			}
		case stderrors.As(err, &httpErr):
			return CheckResult{
				Status:     StatusFail,
				Message:    fmt.Sprintf("%s answered %s", c.BaseURL, httpErr.Error()),
				Suggestion: "Check api.base_url includes the API prefix (e.g. /api)",
			}
		default:
			return CheckResult{
				Status:     StatusFail,
				Message:    fmt.Sprintf("Cannot reach %s: %s", c.BaseURL, errors.Summary(err)),
				Suggestion: "Check api.base_url, or start a local API with 'saher mock-api'",
			}
		}
	}

	n := 0
	if env != nil && env.Data != nil {
		n = len(*env.Data)
	}
	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("%s answered in %s with %s", c.BaseURL, elapsed, util.CountNoun(n, "device", "devices")),
	}
}
