// Package smoke probes a running profile service and verifies the behaviour
// every deployment must show.
package smoke

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/okian/catprofile/pkg/logger"
)

// Run executes every check against cfg.BaseURL. The returned error wraps
// ErrChecksFailed when at least one check failed; the report is always
// returned once the configuration is valid.
func Run(ctx context.Context, cfg *Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.Named("smoke")
	log.Info(ctx, "starting smoke run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Duration("timeout", cfg.Timeout),
		logger.Int("probes", cfg.Probes),
		logger.Int("workers", cfg.Workers),
		logger.Any("expectFallback", cfg.ExpectFallback))

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	report := &Report{StartTime: time.Now()}

	for _, ch := range checks() {
		start := time.Now()
		err := ch.run(ctx, client, cfg)
		res := Result{Name: ch.name, Err: err, Duration: time.Since(start)}
		report.Results = append(report.Results, res)

		if err != nil {
			log.Warn(ctx, "check failed", logger.String("check", ch.name), logger.Error(err))
		} else {
			log.Debug(ctx, "check passed", logger.String("check", ch.name), logger.Duration("duration", res.Duration))
		}

		// Nothing else can pass if the service is down.
		if ch.name == "health" && errors.Is(err, ErrUnreachable) {
			break
		}
	}

	report.EndTime = time.Now()

	if failed := report.Failed(); len(failed) > 0 {
		return report, fmt.Errorf("%w: %d of %d", ErrChecksFailed, len(failed), len(report.Results))
	}
	log.Info(ctx, "smoke run completed", logger.Duration("duration", report.Duration()))
	return report, nil
}

// Write prints a human readable summary of r. Passing checks are listed only
// when verbose is set.
func (r *Report) Write(w io.Writer, verbose bool) {
	for _, res := range r.Results {
		switch {
		case !res.Passed():
			fmt.Fprintf(w, "FAIL %-20s %v\n", res.Name, res.Err)
		case verbose:
			fmt.Fprintf(w, "ok   %-20s %s\n", res.Name, res.Duration.Round(time.Millisecond))
		}
	}
	fmt.Fprintf(w, "%d checks, %d failed, %s\n",
		len(r.Results), len(r.Failed()), r.Duration().Round(time.Millisecond))
}
