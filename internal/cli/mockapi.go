package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saherflow/saher/internal/errors"
	"github.com/saherflow/saher/internal/logger"
	"github.com/saherflow/saher/internal/mockapi"
	"github.com/saherflow/saher/internal/ui"
)

// MockAPIOptions holds options for the mock-api command.
type MockAPIOptions struct {
	Addr    string
	Token   string
	Latency time.Duration
	// CORSOrigins lets browser dashboards on these origins call the mock.
	CORSOrigins []string
	RateLimit   int
}

// mockAPICommand serves the mock chart API until interrupted.
func mockAPICommand(ctx context.Context, out io.Writer, opts MockAPIOptions) error {
	if opts.Latency < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Latency can't be negative, got %s", opts.Latency),
			"Use 0 for no delay, or something like 500ms.")
	}
	if opts.RateLimit < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Rate limit can't be negative, got %d", opts.RateLimit),
			"Use 0 to disable it, or a number of requests per minute.")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if verboseFlag {
		os.Setenv(logger.DebugEnv, "1")
	}
	log := logger.NewEnvLogger("mock-api")

	h := mockapi.NewHandler(mockapi.Options{
		Token:          opts.Token,
		Latency:        opts.Latency,
		AllowedOrigins: opts.CORSOrigins,
		RateLimit:      opts.RateLimit,
		Log:            log,
	})

	fmt.Fprintf(out, "%s Mock chart API on http://%s/api\n", ui.SymbolSuccess, opts.Addr)
	if opts.Token != "" {
		fmt.Fprintf(out, "  Requires: Authorization: Bearer %s\n", opts.Token)
	}
	fmt.Fprintf(out, "  Try: SAHER_API_URL=http://%s/api saher devices\n", opts.Addr)

	if err := mockapi.Serve(ctx, opts.Addr, h); err != nil {
		return errors.WrapWithCode(err, errors.ErrAPI,
			fmt.Sprintf("Mock API stopped: %s", opts.Addr),
			"Check the address is free, or pick another with --addr")
	}
	return nil
}
