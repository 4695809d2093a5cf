package handler

import (
	"encoding/json"
	"net/http"

	"book-reader/internal/domain"
	apperrors "book-reader/pkg/errors"
)

// SessionHandler maps view commands onto reader session operations; it
// holds no state of its own, the session service does.
type SessionHandler struct {
	sessionService domain.SessionService
	logger         domain.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService domain.SessionService, logger domain.Logger) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		logger:         logger,
	}
}

type openRequest struct {
	BookID int `json:"book_id"`
}

// Open handles entering reading mode on a book
func (h *SessionHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req openRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.NewValidation("invalid open request"))
		return
	}
	if req.BookID < 1 {
		writeError(w, apperrors.NewValidation("book_id is required"))
		return
	}

	instruction, err := h.sessionService.Open(r.Context(), req.BookID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, instruction)
}

// Next handles advancing one page
func (h *SessionHandler) Next(w http.ResponseWriter, r *http.Request) {
	instruction, err := h.sessionService.Advance(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, instruction)
}

// Prev handles retreating one page
func (h *SessionHandler) Prev(w http.ResponseWriter, r *http.Request) {
	instruction, err := h.sessionService.Retreat(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, instruction)
}

// Close handles leaving reading mode
func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sessionService.Close())
}

// State reports the current session state without a page fetch
func (h *SessionHandler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sessionService.Snapshot())
}
