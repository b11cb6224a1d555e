package doctor

import (
	"github.com/saherflow/saher/internal/auth"
	"github.com/saherflow/saher/internal/config"
)

// NewChecks builds the full diagnostic suite. cfg is nil when the config
// failed to load; the checks that depend on it are then skipped and the
// schema check reports why.
func NewChecks(configPath string, cfg *config.Config, client DeviceLister) []Check {
	checks := NewConfigChecks(configPath)
	if cfg != nil {
		checks = append(checks, &TokenCheck{Token: cfg.Auth.Token, TokenFile: cfg.Auth.TokenFile})
		if client != nil {
			checks = append(checks, &APICheck{
				Client:  client,
				BaseURL: cfg.API.BaseURL,
				Token:   auth.New(cfg.Auth.Token, cfg.Auth.TokenFile).Token(),
				Timeout: cfg.API.Timeout,
			})
		}
		checks = append(checks, &LogDirCheck{Path: cfg.Log.File})
	}
	return append(checks, &TerminalCheck{})
}
