// Package site serves the welcome payload at the root path.
package site

import (
	"context"
	"net/http"

	"github.com/okian/catprofile/internal/adapters/http/api"
	"github.com/okian/catprofile/internal/domain/profile"
)

// WelcomeProvider builds the GET / payload.
type WelcomeProvider interface {
	Welcome(ctx context.Context) profile.Welcome
}

// Register attaches the root route to mux. Paths no other route claims fall
// through to "/" and are answered with 404.
func Register(_ context.Context, mux *http.ServeMux, provider WelcomeProvider) {
	if mux == nil {
		panic("mux is nil")
	}
	if provider == nil {
		panic("welcome provider is nil")
	}
	h := NewRootHandler(provider)
	mux.HandleFunc("/", api.MetricsMiddleware(h.HandleRoot, "root"))
}

// RootHandler handles root path requests.
type RootHandler struct {
	provider WelcomeProvider
}

// NewRootHandler creates a new root handler.
func NewRootHandler(provider WelcomeProvider) *RootHandler {
	return &RootHandler{provider: provider}
}

// HandleRoot handles GET / requests.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" || r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	api.WriteJSON(w, http.StatusOK, h.provider.Welcome(r.Context()))
}
