// Package httpapi implements the request/response surface and push
// transport upgrade of SPEC_FULL.md §6, following the teacher's manual
// net/http.ServeMux routing idiom (game-state/main.go, deck-service/main.go)
// rather than a router library — none appears anywhere in the example
// pack's go.mod files.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/swarm-blackjack/trainer/internal/apperr"
)

// writeJSON is the teacher's writeJSON helper (bank-service/go/handlers.go),
// generalized to any payload.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps spec.md §7's four error kinds onto HTTP status codes,
// following bank-service/go/handlers.go's writeError(w, status, message)
// per-error-kind mapping style.
func writeError(w http.ResponseWriter, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		switch ae.Kind {
		case apperr.KindDomainViolation, apperr.KindInsufficientFunds:
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": ae.Message})
			return
		case apperr.KindUnknownSession:
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": ae.Message})
			return
		case apperr.KindEngineFault:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": ae.Message})
			return
		}
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
