package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/saherflow/saher/internal/api"
	"github.com/saherflow/saher/internal/auth"
	"github.com/saherflow/saher/internal/config"
	"github.com/saherflow/saher/internal/errors"
	"github.com/saherflow/saher/internal/logger"
	"github.com/saherflow/saher/internal/ui"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	BaseURL        string // Pre-specified API base URL
	TokenFile      string // Pre-specified token file
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Skip prompts, use defaults
	SkipCheck      bool   // Don't test the API before saving

	// Dir is where .saher.yaml is written. Defaults to the current directory.
	Dir string
	// Out receives progress and next steps. Defaults to stdout.
	Out io.Writer
}

// initValues are the answers collected by flags, environment, or prompts.
type initValues struct {
	BaseURL   string
	TokenFile string
	TimeRange string
	Theme     string
}

// getInitDefaults fills unset values from the environment and config defaults.
// SAHER_NON_INTERACTIVE or CI switch to non-interactive mode.
func getInitDefaults(opts InitOptions, getenv func(string) string) (initValues, bool) {
	def := config.DefaultConfig()
	v := initValues{
		BaseURL:   opts.BaseURL,
		TokenFile: opts.TokenFile,
		TimeRange: def.Dashboard.TimeRange,
		Theme:     def.Dashboard.Theme,
	}
	if v.BaseURL == "" {
		v.BaseURL = getenv("SAHER_API_URL")
	}
	if v.BaseURL == "" {
		v.BaseURL = def.API.BaseURL
	}
	if v.TokenFile == "" {
		v.TokenFile = getenv("SAHER_TOKEN_FILE")
	}

	nonInteractive := opts.NonInteractive ||
		getenv("SAHER_NON_INTERACTIVE") != "" ||
		getenv("CI") != ""
	return v, nonInteractive
}

// buildInitConfig turns the collected answers into a config.
func buildInitConfig(v initValues) *config.Config {
	cfg := config.DefaultConfig()
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(v.BaseURL), "/")
	cfg.Auth.TokenFile = strings.TrimSpace(v.TokenFile)
	cfg.Dashboard.TimeRange = v.TimeRange
	cfg.Dashboard.Theme = v.Theme
	return cfg
}

// Init creates a new .saher.yaml configuration file.
func Init(opts InitOptions) error {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	out := opts.Out
	configPath := filepath.Join(opts.Dir, config.ConfigFileName)

	values, nonInteractive := getInitDefaults(opts, os.Getenv)

	// Check for existing config
	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if nonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	if !nonInteractive {
		if err := promptInitValues(&values); err != nil {
			return err
		}
	}

	cfg := buildInitConfig(values)
	if err := config.Validate(cfg); err != nil {
		return err
	}

	if !opts.SkipCheck {
		if err := checkAPI(out, cfg, nonInteractive); err != nil {
			return err
		}
	}

	if err := config.Write(configPath, cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", configPath),
			"Check directory permissions")
	}

	fmt.Fprintf(out, "%s Created %s\n\n", ui.SymbolSuccess, configPath)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  saher devices   - List devices the API reports")
	fmt.Fprintln(out, "  saher           - Open the dashboard")
	fmt.Fprintln(out, "  saher mock-api  - Serve sample data locally")
	return nil
}

// promptInitValues asks for each value with huh.
func promptInitValues(v *initValues) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Chart API base URL").
				Description("Root of the chart endpoints, including any /api prefix").
				Placeholder("https://scada.example.com/api").
				Value(&v.BaseURL).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s == "" {
						return fmt.Errorf("API URL is required")
					}
					if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
						return fmt.Errorf("API URL must start with http:// or https://")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Token file (optional)").
				Description("File holding the bearer token; SAHER_TOKEN works too").
				Placeholder("~/.config/saher/token (leave empty to skip)").
				Value(&v.TokenFile),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Initial time range").
				Options(
					huh.NewOption("Last 24 hours", "day"),
					huh.NewOption("Last 7 days", "week"),
					huh.NewOption("Last 30 days", "month"),
					huh.NewOption("Last year", "year"),
				).
				Value(&v.TimeRange),
			huh.NewSelect[string]().
				Title("Theme").
				Options(
					huh.NewOption("Match terminal", "auto"),
					huh.NewOption("Dark", "dark"),
					huh.NewOption("Light", "light"),
				).
				Value(&v.Theme),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility or use --non-interactive flag")
	}
	return nil
}

// checkAPI lists devices once to confirm the API answers. Interactive
// users may save the config anyway.
func checkAPI(out io.Writer, cfg *config.Config, nonInteractive bool) error {
	fmt.Fprintln(out)
	spinner := ui.NewSpinner("Testing connection to "+cfg.API.BaseURL, out)
	spinner.Start()

	err := pingAPI(cfg)
	if err == nil {
		spinner.Success()
		fmt.Fprintln(out)
		return nil
	}
	spinner.Fail()

	failed := errors.WrapWithCode(err, errors.ErrAPI,
		fmt.Sprintf("Connection to '%s' failed", cfg.API.BaseURL),
		"Check the URL, or start a local API with 'saher mock-api'")
	if nonInteractive {
		return failed
	}

	fmt.Fprintf(out, "\n%s Connection to '%s' failed: %s\n\n", ui.SymbolFail, cfg.API.BaseURL, errors.Summary(err))
	var saveAnyway bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save config anyway? (You can fix the connection later)").
				Value(&saveAnyway),
		),
	)
	if formErr := form.Run(); formErr != nil || !saveAnyway {
		return failed
	}
	return nil
}

func pingAPI(cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.Timeout)
	defer cancel()

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, logger.Default())
	token := auth.New(os.Getenv("SAHER_TOKEN"), cfg.Auth.TokenFile).Token()
	_, err := client.ListDevices(ctx, token)
	return err
}
