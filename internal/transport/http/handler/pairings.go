package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-verify-link/internal/domain"
)

// PairingReader looks up durable pairing records.
type PairingReader interface {
	Get(ctx context.Context, requesterID string) (*domain.Pairing, error)
	GetByHandle(ctx context.Context, scratchHandle string) (*domain.Pairing, error)
}

// PairingHandler exposes read access to recorded pairings.
type PairingHandler struct {
	repo PairingReader
}

func NewPairingHandler(repo PairingReader) *PairingHandler {
	return &PairingHandler{repo: repo}
}

func (h *PairingHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeError(w, http.StatusServiceUnavailable, "pairing store not configured")
		return
	}
	p, err := h.repo.Get(r.Context(), chi.URLParam(r, "requesterID"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PairingHandler) GetByHandle(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeError(w, http.StatusServiceUnavailable, "pairing store not configured")
		return
	}
	p, err := h.repo.GetByHandle(r.Context(), chi.URLParam(r, "handle"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
