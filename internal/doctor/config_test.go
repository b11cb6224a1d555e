package doctor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".saher.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestConfigFileCheck(t *testing.T) {
	t.Run("explicit path missing", func(t *testing.T) {
		check := &ConfigFileCheck{ConfigPath: filepath.Join(t.TempDir(), "nonexistent.yaml")}
		result := check.Run()

		assert.Equal(t, StatusFail, result.Status)
		assert.Contains(t, result.Message, "not found")
	})

	t.Run("config found", func(t *testing.T) {
		path := writeConfig(t, "version: 1\n")
		result := (&ConfigFileCheck{ConfigPath: path}).Run()

		assert.Equal(t, StatusPass, result.Status)
		assert.Contains(t, result.Message, path)
	})

	t.Run("name and category", func(t *testing.T) {
		check := &ConfigFileCheck{}
		assert.Equal(t, "config_file", check.Name())
		assert.Equal(t, "CONFIG", check.Category())
	})
}

func TestConfigSchemaCheck(t *testing.T) {
	t.Run("valid schema", func(t *testing.T) {
		path := writeConfig(t, `version: 1
api:
  base_url: http://localhost:9999/api
dashboard:
  time_range: week
`)
		result := (&ConfigSchemaCheck{ConfigPath: path}).Run()
		assert.Equal(t, StatusPass, result.Status, result.Message)
	})

	t.Run("invalid time range", func(t *testing.T) {
		path := writeConfig(t, `version: 1
dashboard:
  time_range: fortnight
`)
		result := (&ConfigSchemaCheck{ConfigPath: path}).Run()

		assert.Equal(t, StatusFail, result.Status)
		assert.NotEmpty(t, result.Suggestion)
	})

	t.Run("broken yaml", func(t *testing.T) {
		path := writeConfig(t, "api: [unclosed\n")
		result := (&ConfigSchemaCheck{ConfigPath: path}).Run()
		assert.Equal(t, StatusFail, result.Status)
	})
}

func TestNewConfigChecks(t *testing.T) {
	checks := NewConfigChecks("")
	require.Len(t, checks, 2)
	assert.Equal(t, "config_file", checks[0].Name())
	assert.Equal(t, "config_schema", checks[1].Name())
}
