package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-verify-link/internal/pkg/validate"
	"github.com/go-verify-link/internal/verify"
)

// CreateVerificationRequest is the payload the community-platform bot
// sends when a member runs the verify command.
type CreateVerificationRequest struct {
	RequesterID     string `json:"requester_id" validate:"required"`
	ScratchUsername string `json:"scratch_username" validate:"required"`
}

// VerificationHandler handles verification session endpoints.
type VerificationHandler struct {
	svc        verify.Service
	projectURL string
}

func NewVerificationHandler(svc verify.Service, projectURL string) *VerificationHandler {
	return &VerificationHandler{svc: svc, projectURL: projectURL}
}

func (h *VerificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	v, err := h.svc.RequestVerification(r.Context(), req.RequesterID, req.ScratchUsername)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, VerificationEnvelope{
		RequesterID:      v.RequesterID,
		ScratchUsername:  v.ExpectedHandle,
		Code:             v.Code,
		ExpiresInSeconds: int64(v.TTL / time.Second),
		ProjectURL:       h.projectURL,
	})
}

func (h *VerificationHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Get(r.Context(), chi.URLParam(r, "requesterID"))
	if err != nil {
		httpError(w, err)
		return
	}
	env := StatusEnvelope{
		RequesterID:     v.RequesterID,
		ScratchUsername: v.ExpectedHandle,
		IssuedAt:        v.IssuedAt,
	}
	if exp := v.ExpiresAt(); !exp.IsZero() {
		env.ExpiresAt = &exp
	}
	writeJSON(w, http.StatusOK, env)
}

func (h *VerificationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Cancel(r.Context(), chi.URLParam(r, "requesterID")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "verification cancelled"})
}
