package doctor

import (
	"os"
	"path/filepath"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// LogDirCheck verifies the dashboard log file can be created.
type LogDirCheck struct {
	Path string
}

func (c *LogDirCheck) Name() string     { return "log_dir" }
func (c *LogDirCheck) Category() string { return "ENVIRONMENT" }

func (c *LogDirCheck) Run() CheckResult {
	if c.Path == "" {
		return CheckResult{Status: StatusWarn, Message: "No log file configured"}
	}
	dir := filepath.Dir(c.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return CheckResult{
			Status:     StatusFail,
			Message:    "Cannot create log directory " + dir,
			Suggestion: "Set log.file to a writable path",
		}
	}
	probe, err := os.CreateTemp(dir, ".saher-doctor-*")
	if err != nil {
		return CheckResult{
			Status:     StatusFail,
			Message:    "Log directory is not writable: " + dir,
			Suggestion: "Fix permissions or set log.file to a writable path",
		}
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)

	return CheckResult{Status: StatusPass, Message: "Logging to " + c.Path}
}

// TerminalCheck reports whether stdout can host the dashboard.
type TerminalCheck struct {
	// Fd is the file descriptor to inspect; the default is stdout.
	Fd uintptr
	// IsTerminal overrides the TTY probe in tests.
	IsTerminal func(fd int) bool
}

func (c *TerminalCheck) Name() string     { return "terminal" }
func (c *TerminalCheck) Category() string { return "ENVIRONMENT" }

func (c *TerminalCheck) Run() CheckResult {
	fd := c.Fd
	if fd == 0 {
		fd = os.Stdout.Fd()
	}
	isTerm := term.IsTerminal
	if c.IsTerminal != nil {
		isTerm = c.IsTerminal
	}

	if !isTerm(int(fd)) {
		return CheckResult{
			Status:     StatusWarn,
			Message:    "stdout is not a terminal; only fetch and devices will work",
			Suggestion: "Run 'saher' from an interactive terminal to open the dashboard",
		}
	}

	msg := "Interactive terminal"
	switch termenv.EnvColorProfile() {
	case termenv.TrueColor:
		msg += ", true color"
	case termenv.ANSI256:
		msg += ", 256 colors"
	case termenv.ANSI:
		msg += ", 16 colors"
	default:
		msg += ", no color"
	}
	return CheckResult{Status: StatusPass, Message: msg}
}
