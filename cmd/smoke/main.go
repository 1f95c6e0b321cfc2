package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/catprofile/internal/smoke"
	"github.com/okian/catprofile/pkg/logger"
)

// Default configuration constants.
const (
	defaultURL     = "http://localhost:3000"
	defaultTimeout = 10 * time.Second
	defaultProbes  = 20
	defaultWorkers = 2 // multiplier for runtime.NumCPU()
	runTimeout     = 2 * time.Minute
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := &smoke.Config{}

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Verify a running profile service",
		Long: `Probe a running profile service and verify its public behaviour:
health and uptime, the welcome payload, /me fields and fallback handling,
the OpenAPI document, the docs page, 404s and the CORS header on every reply.`,
		Example: `  smoke --url http://localhost:3000
  smoke --url https://my-app.fly.dev --expect-fallback --verbose`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.BaseURL, "url", defaultURL, "Base URL of the service")
	flags.DurationVar(&cfg.Timeout, "timeout", defaultTimeout, "HTTP request timeout")
	flags.IntVar(&cfg.Probes, "probes", defaultProbes, "Number of concurrent /me requests")
	flags.IntVar(&cfg.Workers, "workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
	flags.BoolVar(&cfg.ExpectFallback, "expect-fallback", false, "Require /me to serve the fallback fact")
	flags.BoolVar(&cfg.Verbose, "verbose", false, "Enable verbose logging and list passing checks")

	return cmd
}

func run(cmd *cobra.Command, cfg *smoke.Config) error {
	if err := logger.Init(logger.WithOutput(cmd.ErrOrStderr())); err != nil {
		return err
	}
	if cfg.Verbose {
		_ = logger.SetLevelString("debug")
	} else {
		_ = logger.SetLevelString("warn")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	report, err := smoke.Run(ctx, cfg)
	if report != nil {
		report.Write(cmd.OutOrStdout(), cfg.Verbose)
	}
	return err
}
