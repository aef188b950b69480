package auth

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/dmitrijs2005/authkeeper/internal/common"
)

// RefreshTokenBytes is the number of random bytes in a refresh secret.
// 32 bytes = 256 bits of entropy; the hex encoding doubles the length.
const RefreshTokenBytes = 32

// NewRefreshToken generates a new opaque refresh secret. The plaintext value
// is handed to the client and never stored.
func NewRefreshToken() (string, error) {
	return common.MakeRandHexString(RefreshTokenBytes)
}

// HashRefreshToken returns the hex-encoded SHA-256 digest of a refresh
// secret. The digest is deterministic and is the only form that touches
// persistent storage, so it doubles as the store lookup key.
func HashRefreshToken(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
