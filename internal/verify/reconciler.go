package verify

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/go-verify-link/internal/domain"
)

// CommentSource fetches the full currently-visible comment set for the
// target content. The same comment may appear in consecutive fetches.
type CommentSource interface {
	FetchComments(ctx context.Context) ([]domain.Comment, error)
}

// OutcomeSink is the side-effect boundary invoked on session resolution.
// Implementations must be best-effort: they log failures and never return
// control-flow errors back into the reconciliation core.
type OutcomeSink interface {
	OnSuccess(ctx context.Context, scratchHandle, requesterID string)
	OnExpiry(ctx context.Context, requesterID, code string)
}

// Reconciler runs the recurring cycle that reaps expired sessions and
// matches fetched comments against the remaining ones. A single goroutine
// owns the loop; the next cycle is scheduled only after the current one
// completes, so two cycles can never race over the same session.
type Reconciler struct {
	store        *Store
	source       CommentSource
	sink         OutcomeSink
	interval     time.Duration
	fetchTimeout time.Duration
	now          func() time.Time
}

func NewReconciler(store *Store, source CommentSource, sink OutcomeSink, interval, fetchTimeout time.Duration) *Reconciler {
	return &Reconciler{
		store:        store,
		source:       source,
		sink:         sink,
		interval:     interval,
		fetchTimeout: fetchTimeout,
		now:          time.Now,
	}
}

// Run blocks until ctx is cancelled, executing one cycle per interval.
func (r *Reconciler) Run(ctx context.Context) {
	slog.Info("reconciliation loop started", "interval", r.interval)
	timer := time.NewTimer(r.interval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("reconciliation loop stopped")
			return
		case <-timer.C:
		}
		r.RunCycle(ctx)
		// Rearm only after the cycle finished: non-overlapping scheduling.
		timer.Reset(r.interval)
	}
}

// RunCycle executes one full cycle: expiry reaping, then comment matching.
// The reap pass runs first so a session past its deadline is never matched
// by a comment arriving in the same cycle.
func (r *Reconciler) RunCycle(ctx context.Context) {
	r.reapExpired(ctx)

	fetchCtx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	comments, err := r.source.FetchComments(fetchCtx)
	cancel()
	if err != nil {
		// Transient: no session is mutated; the next cycle retries.
		slog.Warn("comment feed fetch failed, skipping match pass", "err", err)
		return
	}

	r.matchComments(ctx, comments)
}

func (r *Reconciler) reapExpired(ctx context.Context) {
	now := r.now()
	for _, v := range r.store.Snapshot() {
		if !v.Expired(now) {
			continue
		}
		r.store.Delete(v.RequesterID)
		slog.Info("verification session expired",
			"requester_id", v.RequesterID,
			"expected_handle", v.ExpectedHandle,
			"issued_at", v.IssuedAt)
		r.sink.OnExpiry(ctx, v.RequesterID, v.Code)
	}
}

func (r *Reconciler) matchComments(ctx context.Context, comments []domain.Comment) {
	for _, c := range comments {
		// Re-snapshot per comment so sessions resolved earlier in this
		// cycle are gone before the next comment is considered.
		for _, v := range r.store.Snapshot() {
			if !matches(c, v) {
				continue
			}
			r.store.Delete(v.RequesterID)
			slog.Info("verification matched",
				"requester_id", v.RequesterID,
				"scratch_handle", c.AuthorHandle)
			r.sink.OnSuccess(ctx, v.ExpectedHandle, v.RequesterID)
			// A comment resolves at most one session.
			break
		}
	}
}

// matches implements the reconciliation predicate: the comment author must
// equal the expected handle case-insensitively, and the comment text must
// contain the code as a substring. Substring (not exact-token) containment
// is deliberate, so surrounding text in the comment does not block a match.
func matches(c domain.Comment, v domain.PendingVerification) bool {
	return strings.EqualFold(c.AuthorHandle, v.ExpectedHandle) && strings.Contains(c.Text, v.Code)
}
