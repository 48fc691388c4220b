package client

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// ViewProvider supplies read-only session snapshots for rendering.
// Satisfied by *Session.
type ViewProvider interface {
	View() View
}

// StateHandler serves the session state to the presentation layer over
// local HTTP. Display-only; nothing mutates the session through it.
type StateHandler struct {
	provider ViewProvider
}

// NewStateHandler creates a state handler over the given session.
func NewStateHandler(provider ViewProvider) *StateHandler {
	return &StateHandler{provider: provider}
}

// HandleGetState handles GET /api/state.
func (h *StateHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	view := h.provider.View()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(view); err != nil {
		log.Error().Err(err).Msg("failed to encode state response")
	}
}

// RegisterStateRoutes registers the rendering-boundary routes.
func (h *StateHandler) RegisterStateRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/state", h.HandleGetState)
}
