package doctor

import (
	"fmt"

	"github.com/saherflow/saher/internal/config"
	"github.com/saherflow/saher/internal/errors"
)

// ConfigFileCheck reports which config file is in effect. Running on
// defaults is allowed, so a missing file is only a warning.
type ConfigFileCheck struct {
	ConfigPath string // Explicit path, or empty to search
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return "CONFIG" }

func (c *ConfigFileCheck) Run() CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Status:     StatusFail,
			Message:    errors.Summary(err),
			Suggestion: "Check the --config path or run 'saher init' to create a config",
		}
	}
	if path == "" {
		return CheckResult{
			Status:     StatusWarn,
			Message:    "No config file found, using defaults",
			Suggestion: "Run 'saher init' to create a " + config.ConfigFileName,
		}
	}
	return CheckResult{
		Status:  StatusPass,
		Message: "Config file: " + path,
	}
}

// ConfigSchemaCheck loads and validates the effective config.
type ConfigSchemaCheck struct {
	ConfigPath string
}

func (c *ConfigSchemaCheck) Name() string     { return "config_schema" }
func (c *ConfigSchemaCheck) Category() string { return "CONFIG" }

func (c *ConfigSchemaCheck) Run() CheckResult {
	if _, err := config.LoadOrDefault(c.ConfigPath); err != nil {
		return CheckResult{
			Status:     StatusFail,
			Message:    fmt.Sprintf("Config invalid: %s", errors.Summary(err)),
			Suggestion: "Fix the reported fields in your " + config.ConfigFileName,
		}
	}
	return CheckResult{
		Status:  StatusPass,
		Message: "Schema valid",
	}
}

// NewConfigChecks creates all config-related checks.
func NewConfigChecks(configPath string) []Check {
	return []Check{
		&ConfigFileCheck{ConfigPath: configPath},
		&ConfigSchemaCheck{ConfigPath: configPath},
	}
}
