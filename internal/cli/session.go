package cli

import (
	"os"

	"github.com/saherflow/saher/internal/api"
	"github.com/saherflow/saher/internal/auth"
	"github.com/saherflow/saher/internal/config"
	"github.com/saherflow/saher/internal/logger"
	"github.com/saherflow/saher/internal/ui"
	"golang.org/x/term"
)

// session bundles what one-shot commands need to talk to the API.
type session struct {
	cfg    *config.Config
	client *api.Client
	auth   auth.Provider
	log    logger.Logger
}

func openSession(name string) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if verboseFlag {
		os.Setenv(logger.DebugEnv, "1")
	}
	log := logger.NewEnvLogger(name)
	return &session{
		cfg:    cfg,
		client: api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, log),
		auth:   auth.New(cfg.Auth.Token, cfg.Auth.TokenFile),
		log:    log,
	}, nil
}

// progress is the subset of the spinner one-shot commands drive.
type progress interface {
	Start()
	Success()
	Fail()
}

type quietProgress struct{}

func (quietProgress) Start()   {}
func (quietProgress) Success() {}
func (quietProgress) Fail()    {}

// newProgress animates on stderr only when it's a terminal and output
// isn't meant for machines.
func newProgress(label string, machine bool) progress {
	if machine || !term.IsTerminal(int(os.Stderr.Fd())) {
		return quietProgress{}
	}
	return ui.NewSpinner(label, os.Stderr)
}
