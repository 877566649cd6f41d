package domain

import "time"

// Pairing is a durably recorded successful verification.
// PK: requester_id. ScratchHandle is also indexed for reverse lookup.
type Pairing struct {
	PairingID     string    `json:"pairing_id" dynamodbav:"pairing_id"`
	RequesterID   string    `json:"requester_id" dynamodbav:"requester_id"`
	ScratchHandle string    `json:"scratch_handle" dynamodbav:"scratch_handle"`
	VerifiedAt    time.Time `json:"verified_at" dynamodbav:"verified_at"`
}
