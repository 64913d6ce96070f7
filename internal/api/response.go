package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"tryout-be/internal/assessment"
	"tryout-be/internal/auth"
	"tryout-be/internal/club"
	"tryout-be/internal/payment"
)

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}

// writeDomainError maps core errors onto HTTP statuses. Anything
// unrecognized is an infrastructure failure and surfaces as a 500.
func writeDomainError(w http.ResponseWriter, err error) {
	var pe *payment.ProviderError

	switch {
	case errors.Is(err, payment.ErrInvalidMethod):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, payment.ErrInvalidAmount),
		errors.Is(err, payment.ErrMissingPayer):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, payment.ErrSessionNotFound),
		errors.Is(err, assessment.ErrNotFound),
		errors.Is(err, club.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, payment.ErrAlreadyPaid):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, payment.ErrSessionExpired):
		writeError(w, http.StatusGone, err.Error())
	case errors.As(err, &pe):
		writeError(w, http.StatusBadGateway, "payment provider unavailable, try again or pick another method")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
