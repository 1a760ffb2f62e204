package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/corebank-dev/corebank/internal/bank"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// statusFor maps domain error kinds to HTTP statuses. The engine guarantees
// no mutation happened for 4xx kinds, so clients can retry safely.
func statusFor(err error) int {
	switch {
	case errors.Is(err, bank.ErrInvalidAmount), errors.Is(err, bank.ErrSameAccount):
		return http.StatusBadRequest
	case errors.Is(err, bank.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, bank.ErrDuplicateKey):
		return http.StatusConflict
	case errors.Is(err, bank.ErrInsufficientFunds),
		errors.Is(err, bank.ErrHasActiveAccounts),
		errors.Is(err, bank.ErrWithdrawalFailed),
		errors.Is(err, bank.ErrCreationFailed):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
