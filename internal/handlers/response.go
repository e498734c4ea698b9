package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/harborstay/harborstay/internal/domain"
	"github.com/harborstay/harborstay/pkg/logger"
)

// ErrorResponse is the JSON shape of every error the API returns.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Common error codes
const (
	CodeInvalidInput  = "INVALID_INPUT"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeStateConflict = "STATE_CONFLICT"
	CodeRateLimit     = "RATE_LIMIT_EXCEEDED"
	CodeInternalError = "INTERNAL_ERROR"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// writeDomainError maps a typed domain error to the right HTTP status.
// Anything untyped is a 500 and gets logged.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		writeError(w, http.StatusBadRequest, err.Error(), CodeInvalidInput)
	case domain.KindPermission:
		writeError(w, http.StatusForbidden, err.Error(), CodeForbidden)
	case domain.KindNotFound:
		writeError(w, http.StatusNotFound, err.Error(), CodeNotFound)
	case domain.KindConflict:
		writeError(w, http.StatusConflict, err.Error(), CodeConflict)
	case domain.KindState:
		writeError(w, http.StatusConflict, err.Error(), CodeStateConflict)
	default:
		logger.ErrorContext(r.Context(), "Unhandled error", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal server error", CodeInternalError)
	}
}
