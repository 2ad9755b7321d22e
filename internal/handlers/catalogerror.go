package handlers

import (
	"errors"
	"net/http"

	"github.com/ccoutinho/letterfy/internal/apperrors"
	"github.com/ccoutinho/letterfy/internal/handlers/render"
	"github.com/ccoutinho/letterfy/internal/spotify"
)

// catalogError maps catalog client failures to the uniform error envelope
// Validation problems are the caller's to fix, everything else is upstream
func catalogError(w http.ResponseWriter, err error) {
	var reqErr *spotify.RequestError
	var authErr *spotify.AuthError
	var unavailErr *spotify.UnavailableError
	var acqErr *spotify.AcquisitionError

	switch {
	case errors.Is(err, apperrors.ErrValidation):
		render.ServiceError(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &reqErr) && reqErr.Status == http.StatusNotFound:
		render.ServiceError(w, "Item not found in catalog", http.StatusNotFound)
	case errors.As(err, &reqErr):
		render.ServiceError(w, "Music catalog request failed", http.StatusBadGateway)
	case errors.As(err, &authErr):
		render.ServiceError(w, "Music catalog rejected our credentials", http.StatusBadGateway)
	case errors.As(err, &unavailErr), errors.As(err, &acqErr):
		render.ServiceError(w, "Music catalog temporarily unavailable", http.StatusServiceUnavailable)
	default:
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}
