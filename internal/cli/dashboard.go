package cli

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/saherflow/saher/internal/api"
	"github.com/saherflow/saher/internal/auth"
	"github.com/saherflow/saher/internal/config"
	"github.com/saherflow/saher/internal/dashboard"
	"github.com/saherflow/saher/internal/errors"
	"github.com/saherflow/saher/internal/logger"
	"github.com/saherflow/saher/internal/telemetry"
	"golang.org/x/term"
)

// DashboardOptions holds flag overrides for the dashboard.
type DashboardOptions struct {
	Device      string
	Hierarchy   string
	Range       string
	Theme       string
	MetricsAddr string
}

// dashboardCommand runs the TUI until the user quits.
func dashboardCommand(opts DashboardOptions) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrRender,
			"The dashboard needs an interactive terminal",
			"Use 'saher fetch' for scripted output.")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, closeLog := openLog(cfg, "dashboard")
	defer func() { _ = closeLog() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var rec dashboard.Recorder
	if addr := metricsAddr(cfg, opts); addr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		rec = telemetry.NewMetrics(reg)
		go func() {
			if err := telemetry.Serve(ctx, addr, reg); err != nil {
				log.Error("metrics server on %s: %v", addr, err)
			}
		}()
		log.Info("serving metrics on %s", addr)
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, log)
	modelOpts, err := buildDashboardOptions(cfg, opts, client, log)
	if err != nil {
		return err
	}
	modelOpts.Recorder = rec

	log.Info("dashboard starting against %s", cfg.API.BaseURL)
	p := tea.NewProgram(dashboard.NewModel(modelOpts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrRender,
			"Dashboard exited with an error",
			"See the log at "+cfg.Log.File)
	}
	return nil
}

// buildDashboardOptions merges config and flags into model options.
func buildDashboardOptions(cfg *config.Config, opts DashboardOptions, client *api.Client, log logger.Logger) (dashboard.Options, error) {
	if err := validatePreselect(opts.Device, opts.Hierarchy); err != nil {
		return dashboard.Options{}, err
	}

	tr, err := ParseRangeFlag(opts.Range, cfg.Dashboard.TimeRange)
	if err != nil {
		return dashboard.Options{}, err
	}

	themeName := cfg.Dashboard.Theme
	if opts.Theme != "" {
		themeName = opts.Theme
	}

	var device *api.Device
	var node *api.HierarchyNode
	if opts.Device != "" {
		device = &api.Device{ID: opts.Device}
	}
	if opts.Hierarchy != "" {
		node = &api.HierarchyNode{ID: opts.Hierarchy}
	}
	sel := dashboard.SelectionFrom(device, node)

	return dashboard.Options{
		Source:    client,
		Inventory: client,
		Auth:      auth.New(cfg.Auth.Token, cfg.Auth.TokenFile),
		Log:       log,
		Timeout:   cfg.API.Timeout,
		TimeRange: tr,
		Theme:     dashboard.ResolveTheme(themeName),
		Gauges: dashboard.GaugeDefaults{
			GVF: cfg.Dashboard.Gauges.GVF,
			WLR: cfg.Dashboard.Gauges.WLR,
		},
		Selection: sel,
	}, nil
}

// validatePreselect rejects a device and hierarchy preselected together.
func validatePreselect(device, hierarchy string) error {
	if device != "" && hierarchy != "" {
		return errors.New(errors.ErrConfig,
			"--device and --hierarchy cannot be used together",
			"Preselect one of them; switch on the Devices tab.")
	}
	return nil
}

func metricsAddr(cfg *config.Config, opts DashboardOptions) string {
	if opts.MetricsAddr != "" {
		return opts.MetricsAddr
	}
	return cfg.Metrics.Addr
}
