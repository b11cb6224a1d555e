package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrConfig,
		ErrAPI,
		ErrAuth,
		ErrRender,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	err := New(ErrConfig, "Invalid configuration in .saher.yaml", "Check your configuration file syntax")

	require.NotNil(t, err)
	assert.Equal(t, ErrConfig, err.Code)
	assert.Nil(t, err.Cause)

	out := err.Error()
	assert.True(t, strings.HasPrefix(out, "✗ Invalid configuration in .saher.yaml"))
	assert.Contains(t, out, "Check your configuration file syntax")
}

func TestWrap_DefaultsToAPICode(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(cause, "Chart request failed")

	assert.Equal(t, ErrAPI, err.Code)
	assert.Contains(t, err.Error(), "connection refused")
	assert.True(t, errors.Is(err, cause))
}

func TestWrapWithCode(t *testing.T) {
	cause := fmt.Errorf("token expired")
	err := WrapWithCode(cause, ErrAuth, "Not authorized", "Refresh your token")

	assert.True(t, IsCode(err, ErrAuth))
	assert.False(t, IsCode(err, ErrAPI))
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestIsCode(t *testing.T) {
	assert.False(t, IsCode(nil, ErrConfig))
	assert.False(t, IsCode(fmt.Errorf("plain"), ErrConfig))

	wrapped := fmt.Errorf("outer: %w", New(ErrRender, "bad width", ""))
	assert.True(t, IsCode(wrapped, ErrRender))
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain", err: fmt.Errorf("boom"), want: "boom"},
		{name: "structured", err: New(ErrAPI, "Request failed", "retry"), want: "Request failed"},
		{name: "structured with cause", err: Wrap(fmt.Errorf("503"), "Request failed"), want: "Request failed: 503"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summary(tt.err))
		})
	}
}
