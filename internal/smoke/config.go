package smoke

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL        string        // Base URL of the service
	Timeout        time.Duration // Per-request timeout
	Probes         int           // Number of concurrent /me requests
	Workers        int           // Number of concurrent workers for the probes
	ExpectFallback bool          // Require /me to serve the fallback fact
	Verbose        bool          // Report passing checks too
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: base url %q", ErrInvalidConfig, c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	if c.Probes < 0 || c.Workers < 1 {
		return fmt.Errorf("%w: probes must be >= 0 and workers >= 1", ErrInvalidConfig)
	}
	return nil
}

// Result is the outcome of one check.
type Result struct {
	Name     string
	Err      error
	Duration time.Duration
}

// Passed reports whether the check succeeded.
func (r Result) Passed() bool { return r.Err == nil }

// Report collects every check of a run.
type Report struct {
	Results   []Result
	StartTime time.Time
	EndTime   time.Time
}

// Failed returns the checks that did not pass.
func (r *Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Passed() {
			out = append(out, res)
		}
	}
	return out
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}
