package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dvloznov/card-campaign-analytics/internal/api/middleware"
	"github.com/dvloznov/card-campaign-analytics/internal/status"
	"github.com/rs/zerolog"
)

// StatusHandler handles status check endpoints.
type StatusHandler struct {
	store status.Store
	log   zerolog.Logger
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(store status.Store, log zerolog.Logger) *StatusHandler {
	return &StatusHandler{
		store: store,
		log:   log,
	}
}

// Create handles POST /api/status
func (h *StatusHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClientName string `json:"client_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	check, err := h.store.Create(r.Context(), req.ClientName)
	if err != nil {
		if errors.Is(err, status.ErrEmptyClientName) {
			middleware.WriteError(w, http.StatusBadRequest, "client_name is required")
			return
		}
		h.log.Error().Err(err).Msg("Failed to create status check")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to create status check")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, check)
}

// List handles GET /api/status
func (h *StatusHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, ok := positiveIntQuery(r, "limit", 0)
	if !ok {
		middleware.WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	checks, err := h.store.List(r.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list status checks")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list status checks")
		return
	}
	if checks == nil {
		checks = []status.StatusCheck{}
	}

	middleware.WriteJSON(w, http.StatusOK, checks)
}
