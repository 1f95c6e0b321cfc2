// Package profile holds the response shapes served by the API and the rules
// that assemble them.
package profile

import (
	"time"
)

// FallbackFact is served whenever the upstream fact cannot be obtained.
const FallbackFact = "Cats sleep for 70% of their lives. (Fallback fact)"

// Notes attached to a profile response.
const (
	NoteLoaded  = "User data loaded from environment variables"
	NoteDefault = "Using default environment variables"
)

// Status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusHealthy = "healthy"
)

// GenericErrorMessage is the only message ever shown to clients on a 500.
const GenericErrorMessage = "Something went wrong"

// timestampLayout renders ISO-8601 UTC with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// User carries the configured identity. Nil fields serialise as null.
type User struct {
	Email *string `json:"email"`
	Name  *string `json:"name"`
	Stack *string `json:"stack"`
}

// Response is the body of GET /me.
type Response struct {
	Status    string `json:"status"`
	User      User   `json:"user"`
	Timestamp string `json:"timestamp"`
	Fact      string `json:"fact"`
	Note      string `json:"note,omitempty"`
}

// ErrorResponse is the body of a failed request. Error is only set outside
// production.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Health is the body of GET /health.
type Health struct {
	Status      string  `json:"status"`
	Timestamp   string  `json:"timestamp"`
	Uptime      float64 `json:"uptime"`
	Environment string  `json:"environment"`
}

// Endpoint describes one route in the welcome payload.
type Endpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

// Welcome is the body of GET /.
type Welcome struct {
	Message       string     `json:"message"`
	Documentation string     `json:"documentation"`
	Endpoints     []Endpoint `json:"endpoints"`
}

// FormatTimestamp renders t the way every payload expects it.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// FactOrFallback maps the outcome of a fact fetch to the text that is served.
// Any error, or an empty fact, yields FallbackFact.
func FactOrFallback(fact string, err error) string {
	if err != nil || fact == "" {
		return FallbackFact
	}
	return fact
}

// IsSet reports whether a profile value was configured.
func IsSet(v *string) bool {
	return v != nil && *v != ""
}

// NoteFor returns the presence note for the configured email.
func NoteFor(email *string) string {
	if IsSet(email) {
		return NoteLoaded
	}
	return NoteDefault
}

// NewResponse assembles a successful profile response.
func NewResponse(user User, now time.Time, fact string) Response {
	return Response{
		Status:    StatusSuccess,
		User:      user,
		Timestamp: FormatTimestamp(now),
		Fact:      fact,
		Note:      NoteFor(user.Email),
	}
}

// NewErrorResponse builds the 500 body; detail is dropped when hideDetail is set.
func NewErrorResponse(err error, hideDetail bool) ErrorResponse {
	resp := ErrorResponse{Status: StatusError, Message: GenericErrorMessage}
	if err != nil && !hideDetail {
		resp.Error = err.Error()
	}
	return resp
}

// NewHealth builds the health payload from the process start time.
func NewHealth(started, now time.Time, environment string) Health {
	uptime := now.Sub(started).Seconds()
	if uptime < 0 {
		uptime = 0
	}
	return Health{
		Status:      StatusHealthy,
		Timestamp:   FormatTimestamp(now),
		Uptime:      uptime,
		Environment: environment,
	}
}

// DefaultWelcome is the static payload served at GET /.
func DefaultWelcome() Welcome {
	return Welcome{
		Message:       "Welcome to the Profile API with Cat Facts",
		Documentation: "/api-docs",
		Endpoints: []Endpoint{
			{Method: "GET", Path: "/me", Description: "Profile information with a random cat fact"},
			{Method: "GET", Path: "/health", Description: "Service health check"},
			{Method: "GET", Path: "/api-docs", Description: "Interactive API documentation"},
			{Method: "GET", Path: "/swagger.json", Description: "OpenAPI document"},
		},
	}
}
