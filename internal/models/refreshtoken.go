// Package models contains the persisted entities of the authkeeper server.
package models

import "time"

// RefreshToken is one active session: the persisted record of a long-lived
// opaque refresh secret. Only the SHA-256 digest of the secret is stored.
// Records are immutable; rotation deletes and recreates rather than updates.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}
