// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"time"

	"github.com/okian/catprofile/internal/adapters/catfact"
	"github.com/okian/catprofile/internal/config"
	"github.com/okian/catprofile/internal/domain/profile"
	"github.com/okian/catprofile/pkg/logger"
	"github.com/okian/catprofile/pkg/metrics"
)

// Service assembles the payloads served by the API. It holds no mutable
// state shared between requests.
type Service struct {
	cfg     *config.Config
	facts   catfact.Fetcher
	now     func() time.Time
	started time.Time
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig sets the immutable process configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithFetcher sets the upstream fact source.
func WithFetcher(f catfact.Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.facts = f
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithStartTime overrides the process start time used for uptime.
func WithStartTime(t time.Time) Option {
	return func(s *Service) {
		if !t.IsZero() {
			s.started = t
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Without options it uses default config and the
// public cat fact provider.
func New(opts ...Option) *Service {
	s := &Service{
		now:    time.Now,
		logger: logger.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.cfg == nil {
		s.cfg = config.New(context.Background())
	}
	if s.facts == nil {
		s.facts = catfact.New(
			catfact.WithURL(s.cfg.FactURL),
			catfact.WithTimeout(s.cfg.FactTimeout()),
			catfact.WithLogger(s.logger),
		)
	}
	if s.started.IsZero() {
		s.started = s.now()
	}

	return s
}

// Config returns the configuration the service was built with.
func (s *Service) Config() *config.Config {
	return s.cfg
}

// Fact resolves the fact to serve. Fetch errors are mapped to the fallback
// here and nowhere else.
func (s *Service) Fact(ctx context.Context) string {
	fact, err := s.facts.Fetch(ctx)
	if err != nil || fact.Text == "" {
		metrics.RecordFactFallback()
		s.logger.Debug(ctx, "serving fallback fact", logger.Any("cause", err))
	}
	return profile.FactOrFallback(fact.Text, err)
}

// Profile builds the GET /me payload. It always succeeds.
func (s *Service) Profile(ctx context.Context) profile.Response {
	now := s.now()
	fact := s.Fact(ctx)
	return profile.NewResponse(profile.User{
		Email: s.cfg.UserEmail,
		Name:  s.cfg.UserName,
		Stack: s.cfg.UserStack,
	}, now, fact)
}

// Health builds the GET /health payload.
func (s *Service) Health(_ context.Context) profile.Health {
	h := profile.NewHealth(s.started, s.now(), s.cfg.Environment)
	metrics.UpdateUptime(h.Uptime)
	return h
}

// Welcome returns the static GET / payload.
func (s *Service) Welcome(_ context.Context) profile.Welcome {
	return profile.DefaultWelcome()
}

// HideErrorDetail reports whether 500 bodies must omit the raw error.
func (s *Service) HideErrorDetail() bool {
	return s.cfg.IsProduction()
}

// Uptime returns the time elapsed since the service started.
func (s *Service) Uptime() time.Duration {
	return s.now().Sub(s.started)
}
