package domain

import "time"

// PendingVerification is one in-flight proof-of-ownership request.
// At most one exists per requester; a newer request silently supersedes
// the older one and its code becomes permanently unmatchable.
type PendingVerification struct {
	RequesterID    string        `json:"requester_id"`
	ExpectedHandle string        `json:"expected_handle"`
	Code           string        `json:"code"`
	IssuedAt       time.Time     `json:"issued_at"`
	TTL            time.Duration `json:"ttl"`
}

// Expired reports whether the session's validity window has elapsed.
// A zero TTL means the session never expires (legacy mode).
func (v PendingVerification) Expired(now time.Time) bool {
	return v.TTL > 0 && now.Sub(v.IssuedAt) > v.TTL
}

// ExpiresAt returns the end of the validity window, or the zero time
// when the session has no TTL.
func (v PendingVerification) ExpiresAt() time.Time {
	if v.TTL <= 0 {
		return time.Time{}
	}
	return v.IssuedAt.Add(v.TTL)
}
