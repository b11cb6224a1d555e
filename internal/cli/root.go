package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/saherflow/saher/internal/config"
	"github.com/saherflow/saher/internal/errors"
	"github.com/saherflow/saher/internal/logger"
	"github.com/spf13/cobra"
)

// Global flags
var (
	cfgFile     string
	verboseFlag bool
)

// rootCmd is the base command. Running it without a subcommand opens the dashboard.
var rootCmd = &cobra.Command{
	Use:   "saher",
	Short: "Saher - Flow measurement dashboard in your terminal",
	Long: `Saher shows production flow data from multiphase flow meters.

Pick a device or a hierarchy node, choose a time range, and the dashboard
fetches chart data for it: flow rates for oil, gas and water, GVF and WLR
gauges, top regions and a site map.

Run 'saher init' to create a config file, then 'saher' to open the dashboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(dashboardFlags)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .saher.yaml, then ~/.config/saher/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "log debug output")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if isUnknownCommandError(err) {
			if name := extractUnknownCommand(err); name != "" {
				fmt.Fprintf(os.Stderr, "✗ Unknown command %q\n\n  Run 'saher --help' to see available commands\n", name)
				os.Exit(1)
			}
		}
		fmt.Fprint(os.Stderr, formatError(err))
		os.Exit(1)
	}
}

// formatError renders structured errors as-is and wraps plain ones in the same shape.
func formatError(err error) string {
	if _, ok := err.(*errors.Error); ok {
		return err.Error()
	}
	return fmt.Sprintf("✗ %s\n", err.Error())
}

// isUnknownCommandError reports whether cobra rejected the command line itself.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag")
}

// extractUnknownCommand pulls the command name out of cobra's
// `unknown command "foo" for "saher"` message.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}

// loadConfig finds and loads the config, falling back to defaults plus
// environment overrides when no file exists.
func loadConfig() (*config.Config, error) {
	return config.LoadOrDefault(cfgFile)
}

// openLog creates the file logger for cfg and installs it as the default.
// The TUI owns the terminal, so logs never go to stderr.
func openLog(cfg *config.Config, name string) (logger.Logger, func() error) {
	if verboseFlag {
		os.Setenv(logger.DebugEnv, "1")
	}

	path := cfg.Log.File
	if path == "" {
		path = config.DefaultLogPath()
	}
	log, closeFn, err := logger.NewFileLogger(name, path)
	if err != nil {
		// Logging is best effort; keep running without it.
		return logger.Noop(), func() error { return nil }
	}
	logger.SetDefault(log)
	return log, closeFn
}
