package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/echofinder/api/internal/api/dto"
	"github.com/echofinder/api/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps a taxonomy code to its HTTP status.
func statusFor(code apperr.Code) int {
	switch code {
	case apperr.CodeValidation:
		return http.StatusBadRequest
	case apperr.CodeUnauthorized:
		return http.StatusUnauthorized
	case apperr.CodeForbidden:
		return http.StatusForbidden
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeConflict:
		return http.StatusConflict
	case apperr.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders any error as the uniform envelope. Unknown errors
// collapse to an INTERNAL envelope with a generic message so internals never
// leak to clients.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		writeJSON(w, http.StatusInternalServerError,
			dto.NewError(apperr.CodeInternal, "An unexpected error occurred"))
		return
	}
	writeJSON(w, statusFor(appErr.Code),
		dto.NewErrorDetails(appErr.Code, appErr.Message, appErr.Details))
}

func writeValidationErrors(w http.ResponseWriter, fieldErrors map[string]string) {
	details := make(map[string]any, len(fieldErrors))
	for field, msg := range fieldErrors {
		details[field] = msg
	}
	writeError(w, apperr.ValidationDetails("Validation failed", details))
}

func writeBadBody(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest,
		dto.NewError(apperr.CodeValidation, "Invalid request body"))
}
