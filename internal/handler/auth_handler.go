package handler

import (
	"encoding/json"
	"net/http"

	"book-reader/internal/domain"
	apperrors "book-reader/pkg/errors"
)

// AuthHandler handles credential-related gateway requests
type AuthHandler struct {
	authService domain.AuthService
	logger      domain.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService domain.AuthService, logger domain.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type registerRequest struct {
	Login    string `json:"login"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles signing in
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.NewValidation("invalid login request"))
		return
	}
	if req.Login == "" || req.Password == "" {
		writeError(w, apperrors.NewValidation("login and password are required"))
		return
	}

	user, err := h.authService.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Register handles account creation with automatic sign-in
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.NewValidation("invalid registration request"))
		return
	}
	if req.Login == "" || req.Email == "" || req.Password == "" {
		writeError(w, apperrors.NewValidation("login, email and password are required"))
		return
	}

	user, err := h.authService.Register(r.Context(), req.Login, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Logout handles signing out; local state is cleared regardless of the
// remote call's outcome.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Profile handles fetching the signed-in user's profile
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.Profile(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
