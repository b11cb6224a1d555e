package cli

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/saherflow/saher/internal/config"
	"github.com/saherflow/saher/internal/errors"
	"github.com/saherflow/saher/internal/mockapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestGetInitDefaults(t *testing.T) {
	tests := []struct {
		name               string
		opts               InitOptions
		env                map[string]string
		wantURL            string
		wantTokenFile      string
		wantNonInteractive bool
	}{
		{
			name:    "config defaults",
			wantURL: "http://localhost:8080/api",
		},
		{
			name:               "environment fills gaps",
			env:                map[string]string{"SAHER_API_URL": "https://env.example.com/api", "SAHER_TOKEN_FILE": "/tmp/tok", "CI": "true"},
			wantURL:            "https://env.example.com/api",
			wantTokenFile:      "/tmp/tok",
			wantNonInteractive: true,
		},
		{
			name:               "flags win over environment",
			opts:               InitOptions{BaseURL: "https://flag.example.com/api", NonInteractive: true},
			env:                map[string]string{"SAHER_API_URL": "https://env.example.com/api"},
			wantURL:            "https://flag.example.com/api",
			wantNonInteractive: true,
		},
		{
			name:               "explicit non-interactive env",
			env:                map[string]string{"SAHER_NON_INTERACTIVE": "1"},
			wantURL:            "http://localhost:8080/api",
			wantNonInteractive: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, nonInteractive := getInitDefaults(tt.opts, envMap(tt.env))
			assert.Equal(t, tt.wantURL, v.BaseURL)
			assert.Equal(t, tt.wantTokenFile, v.TokenFile)
			assert.Equal(t, "day", v.TimeRange)
			assert.Equal(t, "auto", v.Theme)
			assert.Equal(t, tt.wantNonInteractive, nonInteractive)
		})
	}
}

func TestBuildInitConfig(t *testing.T) {
	cfg := buildInitConfig(initValues{
		BaseURL:   "  https://scada.example.com/api/ ",
		TokenFile: " /etc/saher/token ",
		TimeRange: "month",
		Theme:     "light",
	})

	assert.Equal(t, "https://scada.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, "/etc/saher/token", cfg.Auth.TokenFile)
	assert.Equal(t, "month", cfg.Dashboard.TimeRange)
	assert.Equal(t, "light", cfg.Dashboard.Theme)
	assert.Empty(t, cfg.Auth.Token, "init never writes an inline token")
	assert.NoError(t, config.Validate(cfg))
}

func TestInit_NonInteractiveWritesConfig(t *testing.T) {
	clearSaherEnv(t)
	srv := httptest.NewServer(mockapi.NewHandler(mockapi.Options{}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	var out bytes.Buffer
	err := Init(InitOptions{
		BaseURL:        srv.URL + "/api",
		NonInteractive: true,
		Dir:            dir,
		Out:            &out,
	})
	require.NoError(t, err)

	path := filepath.Join(dir, config.ConfigFileName)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/api", cfg.API.BaseURL)
	assert.Contains(t, out.String(), "Created "+path)
	assert.Contains(t, out.String(), "Testing connection to")
}

func TestInit_ExistingConfigRequiresForce(t *testing.T) {
	clearSaherEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, config.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("version: 1\n"), 0o600))

	err := Init(InitOptions{NonInteractive: true, SkipCheck: true, Dir: dir, Out: &bytes.Buffer{}})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Contains(t, err.Error(), "--force")

	err = Init(InitOptions{NonInteractive: true, SkipCheck: true, Overwrite: true, Dir: dir, Out: &bytes.Buffer{}})
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "base_url: http://localhost:8080/api")
}

func TestInit_UnreachableAPIFailsNonInteractive(t *testing.T) {
	clearSaherEnv(t)
	srv := httptest.NewServer(mockapi.NewHandler(mockapi.Options{}))
	url := srv.URL + "/api"
	srv.Close()

	dir := t.TempDir()
	err := Init(InitOptions{BaseURL: url, NonInteractive: true, Dir: dir, Out: &bytes.Buffer{}})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrAPI))

	_, statErr := os.Stat(filepath.Join(dir, config.ConfigFileName))
	assert.True(t, os.IsNotExist(statErr), "config must not be written when the check fails")
}

func TestInit_InvalidURL(t *testing.T) {
	err := Init(InitOptions{BaseURL: "not a url", NonInteractive: true, SkipCheck: true, Dir: t.TempDir(), Out: &bytes.Buffer{}})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}
