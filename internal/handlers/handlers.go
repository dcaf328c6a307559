package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tatangdev/Mern-Invoice-App/internal/httpx"
	"github.com/tatangdev/Mern-Invoice-App/internal/services"
)

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Unexpected errors are logged with detail but reported generically.
func respondServiceError(w http.ResponseWriter, op string, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", verr.Violations)
	case errors.Is(err, services.ErrInvalidInput):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, services.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, services.ErrConflict):
		httpx.JSONError(w, http.StatusConflict, "conflict", err.Error())
	default:
		slog.Error("request failed", "op", op, "error", err)
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}
