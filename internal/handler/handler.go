package handler

import (
	"encoding/json"
	"net/http"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().
		Str("code", code).
		Str("error", message).
		Int("status", status).
		Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeDomainError maps a domain error onto an HTTP status and writes it.
// Retryable conflicts (lost allocation races, duplicate submissions) map to
// 409 so clients know resubmitting may succeed.
func writeDomainError(w http.ResponseWriter, err *model.DomainError, logger zerolog.Logger) {
	status := http.StatusBadRequest

	switch err.Code {
	case model.ErrCodeInsufficientStock,
		model.ErrCodeAllocationConflict,
		model.ErrCodeDuplicateOrder:
		status = http.StatusConflict
	case model.ErrCodeAvailabilityUnknown:
		status = http.StatusServiceUnavailable
	case model.ErrCodeInternalError:
		status = http.StatusInternalServerError
	}

	writeError(w, status, err.Code, err.Message, logger)
}
