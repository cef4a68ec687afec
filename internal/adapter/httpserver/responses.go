// Package httpserver contains the HTTP handlers and middleware for the
// interview API. It keeps HTTP concerns out of the interview service: the
// handlers parse, validate, delegate, and shape responses.
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/domain"
)

// Error responses carry a single flat message the exam UI shows verbatim.
type errorEnvelope struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	}
	writeJSON(w, status, errorEnvelope{Error: err.Error()})
}

func writeErrorMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorEnvelope{Error: msg})
}
