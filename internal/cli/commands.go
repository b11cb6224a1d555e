package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// Command-specific flags
var (
	dashboardFlags DashboardOptions
	fetchFlags     TargetFlags
	fetchJSON      bool
	devicesJSON    bool
	devicesTree    bool
	initFlags      InitOptions
	mockAPIFlags   MockAPIOptions
	doctorJSON     bool
)

// dashboardCmd opens the interactive dashboard
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the interactive flow dashboard",
	Long: `Open the full-screen dashboard.

The Devices tab lists hierarchy nodes and devices; pick one and the
Dashboard tab shows its flow rates, GVF/WLR gauges and regions. Data is
refetched whenever the selection or time range changes.

Keyboard shortcuts:
  tab / 1-3   Switch tabs
  t           Cycle time range (24h, 7d, 30d, 1y)
  r           Refresh
  x           Clear selection
  ?           Show help
  q / Ctrl+C  Quit

Examples:
  saher dashboard
  saher dashboard --device mpfm-101 --range week
  saher dashboard --metrics-addr 127.0.0.1:9090`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(dashboardFlags)
	},
}

// fetchCmd fetches chart data once and prints a summary
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch chart data for a device or hierarchy node",
	Long: `Fetch chart data once and print a summary: per-phase flow means,
latest values and a sparkline trend, plus GVF and WLR.

Examples:
  saher fetch --device mpfm-101
  saher fetch --hierarchy north --range month
  saher fetch --device mpfm-101 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return fetchCommand(cmd.OutOrStdout(), fetchFlags, fetchJSON)
	},
}

// devicesCmd lists devices and the hierarchy
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List devices and hierarchy nodes",
	Long: `List the devices the API reports, or the hierarchy tree with --tree.

Examples:
  saher devices
  saher devices --tree
  saher devices --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return devicesCommand(cmd.OutOrStdout(), devicesTree, devicesJSON)
	},
}

// initCmd creates a new .saher.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .saher.yaml configuration",
	Long: `Initialize a new Saher configuration file.

Creates a .saher.yaml file in the current directory. Prompts for the API
URL, token source, initial time range and theme, then checks that the API
answers.

Examples:
  saher init
  saher init --url https://scada.example.com/api
  saher init --non-interactive --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Init(initFlags)
	},
}

// mockAPICmd serves a local chart API
var mockAPICmd = &cobra.Command{
	Use:   "mock-api",
	Short: "Serve a local chart API with generated data",
	Long: `Serve the chart API endpoints with a fixed inventory and generated
flow series, for trying the dashboard without a live system.

Examples:
  saher mock-api
  saher mock-api --addr 127.0.0.1:8080 --token dev-token
  saher mock-api --latency 750ms
  saher mock-api --cors-origin http://localhost:5173 --rate-limit 120`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return mockAPICommand(cmd.Context(), cmd.OutOrStdout(), mockAPIFlags)
	},
}

// doctorCmd diagnoses the setup
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose config, token and API connectivity",
	Long: `Run diagnostics on everything the dashboard depends on: the config
file and its schema, the bearer token and its expiry, whether the chart
API answers and accepts the token, the log directory and the terminal.

Examples:
  saher doctor
  saher doctor --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand(cmd.OutOrStdout(), doctorJSON)
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate a completion script for your shell.

Examples:
  saher completion bash > /etc/bash_completion.d/saher
  saher completion zsh > "${fpath[1]}/_saher"
  saher completion fish > ~/.config/fish/completions/saher.fish`,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeCompletion(cmd.OutOrStdout(), cmd.Root(), args[0])
	},
}

func writeCompletion(w io.Writer, root *cobra.Command, shell string) error {
	switch shell {
	case "bash":
		return root.GenBashCompletion(w)
	case "zsh":
		return root.GenZshCompletion(w)
	case "fish":
		return root.GenFishCompletion(w, true)
	default:
		return root.GenPowerShellCompletionWithDesc(w)
	}
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(mockAPICmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(completionCmd)

	// Bare `saher` opens the dashboard too, so it shares the flags.
	for _, c := range []*cobra.Command{rootCmd, dashboardCmd} {
		c.Flags().StringVar(&dashboardFlags.Device, "device", "", "preselect a device")
		c.Flags().StringVar(&dashboardFlags.Hierarchy, "hierarchy", "", "preselect a hierarchy node")
		c.Flags().StringVar(&dashboardFlags.Range, "range", "", "initial time range: day, week, month, or year")
		c.Flags().StringVar(&dashboardFlags.Theme, "theme", "", "dark, light, or auto")
		c.Flags().StringVar(&dashboardFlags.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on host:port")
	}

	AddTargetFlags(fetchCmd, &fetchFlags)
	fetchCmd.Flags().BoolVar(&fetchJSON, "json", false, "output as JSON")

	devicesCmd.Flags().BoolVar(&devicesTree, "tree", false, "show the hierarchy tree instead of devices")
	devicesCmd.Flags().BoolVar(&devicesJSON, "json", false, "output as JSON")

	initCmd.Flags().StringVar(&initFlags.BaseURL, "url", "", "chart API base URL")
	initCmd.Flags().StringVar(&initFlags.TokenFile, "token-file", "", "file holding the bearer token")
	initCmd.Flags().BoolVar(&initFlags.Overwrite, "force", false, "overwrite existing config")
	initCmd.Flags().BoolVar(&initFlags.NonInteractive, "non-interactive", false, "skip prompts and use defaults")
	initCmd.Flags().BoolVar(&initFlags.SkipCheck, "skip-check", false, "don't test the API before saving")

	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output as JSON")

	mockAPICmd.Flags().StringVar(&mockAPIFlags.Addr, "addr", "127.0.0.1:8080", "listen address")
	mockAPICmd.Flags().StringVar(&mockAPIFlags.Token, "token", "", "require this bearer token")
	mockAPICmd.Flags().DurationVar(&mockAPIFlags.Latency, "latency", 0, "delay each chart response")
	mockAPICmd.Flags().StringSliceVar(&mockAPIFlags.CORSOrigins, "cors-origin", nil, "allow browser requests from this origin (repeatable)")
	mockAPICmd.Flags().IntVar(&mockAPIFlags.RateLimit, "rate-limit", 0, "max requests per minute per client IP (0 disables)")
}
