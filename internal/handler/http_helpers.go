package handler

import (
	"encoding/json"
	"net/http"

	apperrors "book-reader/pkg/errors"
)

// errorInstruction is the wire form of a failed session operation.
type errorInstruction struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeError converts an operation error into an error instruction with
// the matching HTTP status.
func writeError(w http.ResponseWriter, err error) {
	kind := apperrors.KindOf(err)
	message := "internal error"
	if appErr, ok := err.(*apperrors.AppError); ok {
		message = appErr.Message
	}
	if kind == "" {
		kind = "internal"
	}
	writeJSON(w, apperrors.GetStatusCode(err), errorInstruction{
		Kind:    string(kind),
		Message: message,
	})
}
