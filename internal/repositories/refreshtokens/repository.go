// Package refreshtokens declares the repository contract for managing
// refresh-token records in persistent storage, and provides the PostgreSQL
// implementation used by the server.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/models"
)

// Repository defines the store operations the session-lifecycle layer needs.
// Implementations must never see a plaintext refresh secret; every lookup is
// by digest.
type Repository interface {
	// Create stores a new record for userID with the given digest and
	// absolute expiry time.
	Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error

	// ListByUser returns all records for userID, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.RefreshToken, error)

	// DeleteByIDs removes the records with the given ids. Unknown ids are
	// silently skipped.
	DeleteByIDs(ctx context.Context, ids []string) error

	// DeleteExpiredForUser removes every record for userID whose expiry is
	// before now.
	DeleteExpiredForUser(ctx context.Context, userID string, now time.Time) error

	// FindByHash looks up a record by its digest. Implementations return
	// common.ErrorNotFound when the digest is absent.
	FindByHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)

	// DeleteByHash removes a record by its digest and returns the number of
	// records removed. Deleting a non-existent record is not an error; callers
	// that need exactly-once consumption check the count instead.
	DeleteByHash(ctx context.Context, tokenHash string) (int64, error)

	// DeleteAllForUser removes every record for userID ("log out everywhere").
	DeleteAllForUser(ctx context.Context, userID string) error
}
