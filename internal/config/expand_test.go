package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"~", home},
		{"~/token", filepath.Join(home, "token")},
		{"/etc/saher/token", "/etc/saher/token"},
		{"~other/token", "~other/token"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandTilde(tt.input))
		})
	}
}

func TestExpand(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("USER", "operator")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_STATE_HOME", "")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no variables", "/var/log/saher.log", "/var/log/saher.log"},
		{"home", "${HOME}/token", home + "/token"},
		{"user", "/srv/${USER}/token", "/srv/operator/token"},
		{"xdg config set", "${XDG_CONFIG_HOME}/saher/token", "/xdg/config/saher/token"},
		{"xdg state fallback", "${XDG_STATE_HOME}/saher.log", filepath.Join(home, ".local", "state") + "/saher.log"},
		{"unknown left alone", "${NOPE}/x", "${NOPE}/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Expand(tt.input))
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("USER", "operator")

	assert.Equal(t, filepath.Join(home, "operator", "token"), ExpandPath("~/${USER}/token"))
}
