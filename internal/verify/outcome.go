package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-verify-link/internal/domain"
	"github.com/go-verify-link/internal/pkg/id"
)

// AuditLog is the durable append-only record of successful pairings.
type AuditLog interface {
	Append(scratchHandle, requesterID string) error
}

// PairingStore persists pairing records for later lookup.
type PairingStore interface {
	Put(ctx context.Context, p *domain.Pairing) error
}

// RoleGrantor grants the trust role on the community platform.
type RoleGrantor interface {
	GrantRole(ctx context.Context, requesterID string) error
}

// Notifier delivers direct messages to requesters.
type Notifier interface {
	SendDirectMessage(ctx context.Context, requesterID, text string) error
}

// EventPublisher announces successful verifications to interested systems.
type EventPublisher interface {
	PublishVerified(ctx context.Context, p *domain.Pairing) error
}

// Outcomes is the production OutcomeSink. Every step is isolated: a failed
// grant, message, put, or publish is logged and never rolls back the audit
// append or resurrects the session.
type Outcomes struct {
	audit    AuditLog
	pairings PairingStore   // optional
	grantor  RoleGrantor
	notifier Notifier
	events   EventPublisher // optional
	now      func() time.Time
}

func NewOutcomes(audit AuditLog, pairings PairingStore, grantor RoleGrantor, notifier Notifier, events EventPublisher) *Outcomes {
	return &Outcomes{
		audit:    audit,
		pairings: pairings,
		grantor:  grantor,
		notifier: notifier,
		events:   events,
		now:      time.Now,
	}
}

func (o *Outcomes) OnSuccess(ctx context.Context, scratchHandle, requesterID string) {
	if err := o.audit.Append(scratchHandle, requesterID); err != nil {
		slog.Error("audit append failed",
			"scratch_handle", scratchHandle,
			"requester_id", requesterID,
			"err", err)
	}

	p := &domain.Pairing{
		PairingID:     id.New(),
		RequesterID:   requesterID,
		ScratchHandle: scratchHandle,
		VerifiedAt:    o.now().UTC(),
	}
	if o.pairings != nil {
		if err := o.pairings.Put(ctx, p); err != nil {
			slog.Warn("pairing record put failed", "requester_id", requesterID, "err", err)
		}
	}

	if err := o.grantor.GrantRole(ctx, requesterID); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			slog.Warn("role grant skipped, member or role missing", "requester_id", requesterID, "err", err)
		case errors.Is(err, domain.ErrForbidden):
			slog.Error("role grant forbidden, check bot permissions", "requester_id", requesterID, "err", err)
		default:
			slog.Warn("role grant failed", "requester_id", requesterID, "err", err)
		}
	}

	msg := fmt.Sprintf(
		"Verification complete! Your Scratch account %q is now linked and the role has been granted.",
		scratchHandle)
	if err := o.notifier.SendDirectMessage(ctx, requesterID, msg); err != nil {
		slog.Warn("success notification undeliverable", "requester_id", requesterID, "err", err)
	}

	if o.events != nil {
		if err := o.events.PublishVerified(ctx, p); err != nil {
			slog.Warn("verification event publish failed", "requester_id", requesterID, "err", err)
		}
	}
}

func (o *Outcomes) OnExpiry(ctx context.Context, requesterID, code string) {
	msg := fmt.Sprintf(
		"Your verification code %s expired before a matching comment was found. Request a new code to try again.",
		code)
	if err := o.notifier.SendDirectMessage(ctx, requesterID, msg); err != nil {
		slog.Warn("expiry notification undeliverable", "requester_id", requesterID, "err", err)
	}
}
