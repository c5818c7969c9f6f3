// Package respond writes JSON bodies and maps domain errors to HTTP statuses.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MrJamesThe3rd/finboard/internal/apperror"
	"github.com/MrJamesThe3rd/finboard/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

// Status returns the HTTP status for err's class.
func Status(err error) int {
	switch {
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrConstraint):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err with the status of its class. Unclassified errors are
// logged and reported without detail.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)

	body := errorResponse{Error: err.Error()}

	var verr *apperror.ValidationError
	if errors.As(err, &verr) {
		body.Field = verr.Field
	}

	if status == http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")

		body = errorResponse{Error: "internal error"}
	}

	JSON(w, r, status, body)
}

// BadRequest reports malformed input that never reached a service.
func BadRequest(w http.ResponseWriter, r *http.Request, field, format string, args ...any) {
	Error(w, r, apperror.Invalid(field, format, args...))
}
