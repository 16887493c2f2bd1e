package types

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	// Detail is the user-facing message.
	Detail string `json:"detail"`
}

// NewErrorResponse creates an error body.
func NewErrorResponse(detail string) *ErrorResponse {
	return &ErrorResponse{Detail: detail}
}

// WriteJSON writes v as a JSON body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("failed to encode response", "error", err, "status", status)
	}
}

// WriteError writes a {"detail": ...} body with the given status code.
func WriteError(w http.ResponseWriter, status int, detail string) {
	WriteJSON(w, status, NewErrorResponse(detail))
}
