package verify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-verify-link/internal/domain"
	"github.com/go-verify-link/internal/pkg/code"
)

// Service is the request-facing surface of the verification core.
type Service interface {
	// RequestVerification issues a fresh code for the requester and
	// registers (or supersedes) their pending session.
	RequestVerification(ctx context.Context, requesterID, scratchUsername string) (*domain.PendingVerification, error)
	// Get returns the requester's pending session, if any.
	Get(ctx context.Context, requesterID string) (*domain.PendingVerification, error)
	// Cancel removes the requester's pending session. Idempotent.
	Cancel(ctx context.Context, requesterID string) error
}

type service struct {
	store      *Store
	codeLength int
	ttl        time.Duration
	now        func() time.Time
}

func NewService(store *Store, codeLength int, ttl time.Duration) Service {
	return &service{
		store:      store,
		codeLength: codeLength,
		ttl:        ttl,
		now:        time.Now,
	}
}

func (s *service) RequestVerification(ctx context.Context, requesterID, scratchUsername string) (*domain.PendingVerification, error) {
	requesterID = strings.TrimSpace(requesterID)
	scratchUsername = strings.TrimSpace(scratchUsername)
	if requesterID == "" || scratchUsername == "" {
		return nil, fmt.Errorf("requester id and scratch username required: %w", domain.ErrBadRequest)
	}

	c, err := code.Generate(s.codeLength)
	if err != nil {
		return nil, err
	}

	v := domain.PendingVerification{
		RequesterID:    requesterID,
		ExpectedHandle: scratchUsername,
		Code:           c,
		IssuedAt:       s.now(),
		TTL:            s.ttl,
	}
	_, superseded := s.store.Get(requesterID)
	s.store.Put(v)

	slog.Info("verification session created",
		"requester_id", requesterID,
		"expected_handle", scratchUsername,
		"ttl", s.ttl,
		"superseded", superseded)
	return &v, nil
}

func (s *service) Get(ctx context.Context, requesterID string) (*domain.PendingVerification, error) {
	v, ok := s.store.Get(requesterID)
	if !ok {
		return nil, fmt.Errorf("no pending verification for requester %s: %w", requesterID, domain.ErrNotFound)
	}
	return &v, nil
}

func (s *service) Cancel(ctx context.Context, requesterID string) error {
	s.store.Delete(requesterID)
	return nil
}
