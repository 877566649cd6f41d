package verify

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-verify-link/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pending(requesterID, handle, code string, issuedAt time.Time) domain.PendingVerification {
	return domain.PendingVerification{
		RequesterID:    requesterID,
		ExpectedHandle: handle,
		Code:           code,
		IssuedAt:       issuedAt,
		TTL:            120 * time.Second,
	}
}

func TestStore_PutGet(t *testing.T) {
	s := NewStore()
	v := pending("42", "scratcher99", "Q7X2P9", time.Now())
	s.Put(v)

	got, ok := s.Get("42")
	require.True(t, ok)
	assert.Equal(t, v, got)
	assert.Equal(t, 1, s.Len())
}

func TestStore_PutOverwritesSupersedes(t *testing.T) {
	s := NewStore()
	now := time.Now()
	s.Put(pending("42", "scratcher99", "AAAAAA", now))
	s.Put(pending("42", "scratcher99", "BBBBBB", now.Add(time.Second)))

	got, ok := s.Get("42")
	require.True(t, ok)
	assert.Equal(t, "BBBBBB", got.Code, "newer session must replace the older one")
	assert.Equal(t, 1, s.Len())
}

func TestStore_DeleteIdempotent(t *testing.T) {
	s := NewStore()
	s.Put(pending("42", "scratcher99", "Q7X2P9", time.Now()))

	s.Delete("42")
	_, ok := s.Get("42")
	assert.False(t, ok)

	// Deleting again (or deleting an unknown key) is a no-op.
	s.Delete("42")
	s.Delete("never-existed")
	assert.Equal(t, 0, s.Len())
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := NewStore()
	s.Put(pending("1", "alice", "AAAAAA", time.Now()))

	snap := s.Snapshot()
	require.Len(t, snap, 1)

	s.Delete("1")
	// The snapshot is unaffected by later mutation.
	assert.Len(t, snap, 1)
	assert.Equal(t, "AAAAAA", snap[0].Code)
}

func TestStore_SnapshotOrderedByIssuedAt(t *testing.T) {
	s := NewStore()
	base := time.Now()
	s.Put(pending("3", "carol", "CCCCCC", base.Add(2*time.Second)))
	s.Put(pending("1", "alice", "AAAAAA", base))
	s.Put(pending("2", "bob", "BBBBBB", base.Add(time.Second)))

	snap := s.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "1", snap[0].RequesterID)
	assert.Equal(t, "2", snap[1].RequesterID)
	assert.Equal(t, "3", snap[2].RequesterID)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("user-%d", n%10)
			s.Put(pending(id, "handle", "CODE00", time.Now()))
			s.Get(id)
			s.Snapshot()
			if n%3 == 0 {
				s.Delete(id)
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, s.Len(), 10)
}
