package cli

import (
	"fmt"
	"time"

	"github.com/saherflow/saher/internal/api"
	"github.com/saherflow/saher/internal/errors"
	"github.com/spf13/cobra"
)

// TargetFlags selects what a one-shot command fetches.
type TargetFlags struct {
	Device    string
	Hierarchy string
	Range     string
	Timeout   string
}

// AddTargetFlags registers --device, --hierarchy, --range, and --timeout on a command.
func AddTargetFlags(cmd *cobra.Command, flags *TargetFlags) {
	cmd.Flags().StringVar(&flags.Device, "device", "", "device ID to fetch")
	cmd.Flags().StringVar(&flags.Hierarchy, "hierarchy", "", "hierarchy node ID to fetch")
	cmd.Flags().StringVar(&flags.Range, "range", "", "time range: day, week, month, or year (default from config)")
	cmd.Flags().StringVar(&flags.Timeout, "timeout", "", "request timeout (e.g., 5s, 1m)")
}

// ValidateTarget checks that exactly one of --device and --hierarchy is set.
func ValidateTarget(device, hierarchy string) error {
	switch {
	case device != "" && hierarchy != "":
		return errors.New(errors.ErrConfig,
			"--device and --hierarchy cannot be used together",
			"Fetch a device or a hierarchy node, not both.")
	case device == "" && hierarchy == "":
		return errors.New(errors.ErrConfig,
			"Nothing to fetch",
			"Pass --device <id> or --hierarchy <id>. 'saher devices' lists both.")
	}
	return nil
}

// ParseRangeFlag parses a time range flag, falling back to def when empty.
func ParseRangeFlag(flag, def string) (api.TimeRange, error) {
	if flag == "" {
		flag = def
	}
	tr, err := api.ParseTimeRange(flag)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' isn't a time range", flag),
			"Use day, week, month, or year.")
	}
	return tr, nil
}

// ParseTimeout parses a timeout string into a duration.
// Returns def if the flag is empty.
func ParseTimeout(flag string, def time.Duration) (time.Duration, error) {
	if flag == "" {
		return def, nil
	}

	duration, err := time.ParseDuration(flag)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid timeout", flag),
			"Try something like 5s, 2m, or 500ms.")
	}
	if duration <= 0 {
		return 0, errors.New(errors.ErrConfig,
			fmt.Sprintf("Timeout must be positive, got %s", flag),
			"Try something like 5s, 2m, or 500ms.")
	}
	return duration, nil
}
