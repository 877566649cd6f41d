package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-verify-link/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// VerificationEnvelope wraps a freshly issued verification session.
// The code is returned exactly once, here; status lookups never echo it.
type VerificationEnvelope struct {
	RequesterID      string `json:"requester_id"`
	ScratchUsername  string `json:"scratch_username"`
	Code             string `json:"code"`
	ExpiresInSeconds int64  `json:"expires_in_seconds"` // 0 means no expiry
	ProjectURL       string `json:"project_url"`
}

// StatusEnvelope wraps a pending-session status lookup.
type StatusEnvelope struct {
	RequesterID     string     `json:"requester_id"`
	ScratchUsername string     `json:"scratch_username"`
	IssuedAt        time.Time  `json:"issued_at"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps domain sentinel errors to HTTP status codes.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
