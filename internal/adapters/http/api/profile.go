// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okian/catprofile/pkg/logger"
)

// ProfileHandler handles profile requests.
type ProfileHandler struct {
	deps   Dependencies
	logger logger.Logger
	encode func(any) ([]byte, error)
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(deps Dependencies, l logger.Logger) *ProfileHandler {
	return &ProfileHandler{deps: deps, logger: l, encode: json.Marshal}
}

// HandleProfile handles GET /me requests.
func (h *ProfileHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_profile"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	resp := h.deps.Profile(r.Context())

	body, err := h.encode(resp)
	if err != nil {
		err = fmt.Errorf("%s: %w: %w", op, ErrEncode, err)
		h.logger.Error(r.Context(), "profile response failed", logger.Error(err))
		writeInternalError(w, err, h.deps.HideErrorDetail())
		return
	}
	writeBody(w, http.StatusOK, body)
}
