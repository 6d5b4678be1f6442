package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/efreeman/world-war/api/internal/game"
	"github.com/efreeman/world-war/api/internal/service"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Error encoding response")
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads and decodes JSON from a request body.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// writeServiceError maps reducer and service sentinels to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrUserNotFound),
		errors.Is(err, game.ErrCountryNotFound),
		errors.Is(err, game.ErrWarNotFound),
		errors.Is(err, game.ErrProposalNotFound),
		errors.Is(err, game.ErrOfferNotFound),
		errors.Is(err, game.ErrRequestNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, game.ErrNotPermitted),
		errors.Is(err, game.ErrMuted),
		errors.Is(err, service.ErrSuspended):
		return http.StatusForbidden
	case errors.Is(err, game.ErrCountryOccupied),
		errors.Is(err, game.ErrCountrySelected),
		errors.Is(err, game.ErrWarAlreadyActive),
		errors.Is(err, game.ErrProposalClosed),
		errors.Is(err, game.ErrRequestClosed),
		errors.Is(err, game.ErrUserExists),
		errors.Is(err, service.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, game.ErrInsufficientFunds),
		errors.Is(err, game.ErrInsufficientStock),
		errors.Is(err, game.ErrShieldActive),
		errors.Is(err, game.ErrSameAlliance),
		errors.Is(err, game.ErrNoActiveWar),
		errors.Is(err, game.ErrWarNotActive):
		return http.StatusUnprocessableEntity
	case errors.Is(err, game.ErrInternal):
		return http.StatusInternalServerError
	case errors.Is(err, service.ErrInvalidUsername),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, game.ErrInvalidAmount),
		errors.Is(err, game.ErrInvalidResource),
		errors.Is(err, game.ErrSelfTarget),
		errors.Is(err, game.ErrEmptyForce),
		errors.Is(err, game.ErrNoCountry),
		errors.Is(err, game.ErrNotAggressor):
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}
