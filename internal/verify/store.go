package verify

import (
	"sort"
	"sync"

	"github.com/go-verify-link/internal/domain"
)

// Store is the single source of truth for pending verification sessions,
// keyed by requester ID. All operations are atomic with respect to each
// other; contention is human-scale, so one mutex around the map is enough.
type Store struct {
	mu       sync.Mutex
	sessions map[string]domain.PendingVerification
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]domain.PendingVerification)}
}

// Put inserts or overwrites the session for v.RequesterID. Overwriting
// silently supersedes the prior session; its code can never match again.
func (s *Store) Put(v domain.PendingVerification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[v.RequesterID] = v
}

// Get returns the pending session for the requester, if any.
func (s *Store) Get(requesterID string) (domain.PendingVerification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.sessions[requesterID]
	return v, ok
}

// Delete removes the session if present. Idempotent: deleting an absent
// session is a no-op. Callers must delete before dispatching side effects
// so a session resolves at most once even if two passes race.
func (s *Store) Delete(requesterID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, requesterID)
}

// Snapshot returns a point-in-time copy of all pending sessions, safe to
// iterate without holding the store locked. Entries are ordered by
// IssuedAt ascending (requester ID as tie-break) so scan order is stable
// and effectively insertion order.
func (s *Store) Snapshot() []domain.PendingVerification {
	s.mu.Lock()
	out := make([]domain.PendingVerification, 0, len(s.sessions))
	for _, v := range s.sessions {
		out = append(out, v)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].IssuedAt.Equal(out[j].IssuedAt) {
			return out[i].IssuedAt.Before(out[j].IssuedAt)
		}
		return out[i].RequesterID < out[j].RequesterID
	})
	return out
}

// Len returns the number of pending sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
