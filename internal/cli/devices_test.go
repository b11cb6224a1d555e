package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevicesCommand_Table(t *testing.T) {
	setupMockAPI(t, testToken)

	var buf bytes.Buffer
	require.NoError(t, devicesCommand(&buf, false, false))

	out := ansi.Strip(buf.String())
	assert.Contains(t, out, "STATUS")
	for _, id := range []string{"mpfm-101", "mpfm-102", "mpfm-201", "mpfm-301", "mpfm-302"} {
		assert.Contains(t, out, id)
	}
	assert.Contains(t, out, "offline")
}

func TestDevicesCommand_Tree(t *testing.T) {
	setupMockAPI(t, testToken)

	var buf bytes.Buffer
	require.NoError(t, devicesCommand(&buf, true, false))

	out := ansi.Strip(buf.String())
	assert.Contains(t, out, "North Field (north)")
	assert.Contains(t, out, "└─ Site C (south-a)")
	assert.NotContains(t, out, "mpfm-101")
}

func TestDevicesCommand_JSON(t *testing.T) {
	setupMockAPI(t, testToken)

	var buf bytes.Buffer
	require.NoError(t, devicesCommand(&buf, false, true))

	var env struct {
		Success bool          `json:"success"`
		Data    DevicesResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Len(t, env.Data.Devices, 5)
	assert.Empty(t, env.Data.Hierarchy)
}

func TestDevicesCommand_Unauthorized(t *testing.T) {
	setupMockAPI(t, "")

	var buf bytes.Buffer
	err := devicesCommand(&buf, false, true)
	require.Error(t, err)

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.Equal(t, ErrCodeAuthRequired, env.Error.Code)
}
