package doctor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogDirCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "saher.log")
	result := (&LogDirCheck{Path: path}).Run()

	assert.Equal(t, StatusPass, result.Status, result.Message)
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Empty(t, entries, "probe file should be removed")

	assert.Equal(t, StatusWarn, (&LogDirCheck{}).Run().Status)
}

func TestLogDirCheck_ParentIsFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	result := (&LogDirCheck{Path: filepath.Join(blocker, "saher.log")}).Run()
	assert.Equal(t, StatusFail, result.Status)
}

func TestTerminalCheck(t *testing.T) {
	notTTY := &TerminalCheck{IsTerminal: func(int) bool { return false }}
	assert.Equal(t, StatusWarn, notTTY.Run().Status)

	tty := &TerminalCheck{IsTerminal: func(int) bool { return true }}
	result := tty.Run()
	assert.Equal(t, StatusPass, result.Status)
	assert.Contains(t, result.Message, "Interactive terminal")
}
