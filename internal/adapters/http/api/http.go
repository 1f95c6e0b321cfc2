// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/catprofile/internal/domain/profile"
	"github.com/okian/catprofile/pkg/logger"
)

// ProfileProvider builds the GET /me payload. It must not fail on upstream
// errors; those are already mapped to the fallback fact.
type ProfileProvider interface {
	Profile(ctx context.Context) profile.Response
}

// HealthProvider builds the GET /health payload.
type HealthProvider interface {
	Health(ctx context.Context) profile.Health
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ProfileProvider
	HealthProvider

	// HideErrorDetail reports whether 500 bodies must omit the raw error.
	HideErrorDetail() bool
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps           Dependencies
	logger         logger.Logger
	profileHandler *ProfileHandler
	healthHandler  *HealthHandler
	metricsHandler *MetricsHandler
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the logger used by handlers and middleware.
func WithLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...ServerOption) *Server {
	s := &Server{deps: deps, logger: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	s.profileHandler = NewProfileHandler(deps, s.logger)
	s.healthHandler = NewHealthHandler(deps)
	s.metricsHandler = NewMetricsHandler()
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/me", MetricsMiddleware(s.profileHandler.HandleProfile, "me"))
	mux.HandleFunc("/health", MetricsMiddleware(s.healthHandler.HandleHealth, "health"))
	mux.HandleFunc("/metrics", s.metricsHandler.HandleMetrics)
}

// Handler wraps next with the middleware every response goes through:
// request id, CORS, access logging and panic recovery.
func (s *Server) Handler(next http.Handler) http.Handler {
	return Chain(next,
		RequestIDMiddleware(),
		CORSMiddleware(),
		LoggingMiddleware(s.logger),
		RecoveryMiddleware(s.logger, s.deps.HideErrorDetail()),
	)
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeInternalError(w, err, true)
		return
	}
	writeBody(w, status, body)
}

func writeBody(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// writeInternalError writes the generic 500 body; the raw error is included
// only when hideDetail is false.
func writeInternalError(w http.ResponseWriter, err error, hideDetail bool) {
	body, mErr := json.Marshal(profile.NewErrorResponse(err, hideDetail))
	if mErr != nil {
		body = []byte(`{"status":"error","message":"` + profile.GenericErrorMessage + `"}`)
	}
	writeBody(w, http.StatusInternalServerError, body)
}
