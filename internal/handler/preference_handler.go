package handler

import (
	"encoding/json"
	"net/http"

	"book-reader/internal/domain"
	apperrors "book-reader/pkg/errors"
)

// PreferenceHandler handles reader preference requests
type PreferenceHandler struct {
	preferenceService domain.PreferenceService
	logger            domain.Logger
}

// NewPreferenceHandler creates a new preference handler
func NewPreferenceHandler(preferenceService domain.PreferenceService, logger domain.Logger) *PreferenceHandler {
	return &PreferenceHandler{
		preferenceService: preferenceService,
		logger:            logger,
	}
}

// Get handles reading the current reader preferences
func (h *PreferenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.preferenceService.Get())
}

// Update handles changing reader preferences
func (h *PreferenceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var prefs domain.ReaderPreferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeError(w, apperrors.NewValidation("invalid preferences payload"))
		return
	}

	if err := h.preferenceService.Update(prefs); err != nil {
		h.logger.Error("Failed to persist preferences", err)
		writeError(w, apperrors.NewUnavailable("failed to persist preferences", err))
		return
	}
	writeJSON(w, http.StatusOK, h.preferenceService.Get())
}
