// Package cli implements the saher command-line interface.
//
// The package is organized around Cobra commands, with each command
// delegating to a small function that does the work against injected
// writers so it can be tested without a terminal:
//
//   - Command definitions (cobra.Command instances in commands.go)
//   - Command bodies (dashboardCommand, fetchCommand, devicesCommand, doctorCommand, Init)
//   - Rendering and transport (in the dashboard, ui, api, and mockapi packages)
//
// # Command Structure
//
// The root command is "saher"; run bare, it opens the dashboard:
//
//	saher [dashboard]   - Interactive flow dashboard
//	saher fetch         - Fetch one device or hierarchy chart and summarize it
//	saher devices       - List devices, or the hierarchy with --tree
//	saher init          - Create .saher.yaml
//	saher mock-api      - Serve generated chart data locally
//	saher doctor        - Diagnose config, token, API and terminal
//	saher version       - Build information
//
// # Output
//
// The dashboard owns the terminal, so it logs to a file (log.file in the
// config). One-shot commands log to stderr and print results to stdout;
// --json wraps results and errors in a JSONEnvelope for scripts.
//
// # Flag Handling
//
// Global flags (--config, --verbose) are defined on the root command.
// TargetFlags and AddTargetFlags provide the --device/--hierarchy/--range
// selection shared by one-shot commands.
package cli
