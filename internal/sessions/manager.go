// Package sessions implements the refresh-token lifecycle policy: issuance
// with session-limit enforcement, verification with automatic purge of
// expired tokens, and revocation.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/auth"
	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/repositories/refreshtokens"
)

// DefaultSessionLimit is the fallback cap on concurrently valid refresh
// tokens per user: the current session plus one other device.
const DefaultSessionLimit = 2

// Manager is the policy layer between the refresh-token store and callers.
// It is stateless apart from its configuration; all session state lives in
// the store.
type Manager struct {
	repo  refreshtokens.Repository
	limit int
	now   func() time.Time
}

// NewManager returns a Manager enforcing the given session limit. A limit
// below 1 falls back to DefaultSessionLimit.
func NewManager(repo refreshtokens.Repository, limit int) *Manager {
	if limit < 1 {
		limit = DefaultSessionLimit
	}
	return &Manager{repo: repo, limit: limit, now: time.Now}
}

// Create issues a new refresh token for userID valid for ttl and returns the
// plaintext secret, the only time it exists outside the client.
//
// The order of the steps is load-bearing: expired records are purged first so
// they never count against the cap, then the cap is enforced on what is left,
// then the new record is inserted.
func (m *Manager) Create(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	now := m.now()

	if err := m.repo.DeleteExpiredForUser(ctx, userID, now); err != nil {
		return "", fmt.Errorf("error purging expired sessions: %w", err)
	}

	records, err := m.repo.ListByUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("error listing sessions: %w", err)
	}

	// Keep only the newest limit-1 records, making room for exactly one more.
	if keep := m.limit - 1; len(records) > keep {
		excess := make([]string, 0, len(records)-keep)
		for _, rec := range records[keep:] {
			excess = append(excess, rec.ID)
		}
		if err := m.repo.DeleteByIDs(ctx, excess); err != nil {
			return "", fmt.Errorf("error evicting excess sessions: %w", err)
		}
	}

	secret, err := auth.NewRefreshToken()
	if err != nil {
		return "", fmt.Errorf("error generating refresh token: %w", err)
	}

	if err := m.repo.Create(ctx, userID, auth.HashRefreshToken(secret), now.Add(ttl)); err != nil {
		return "", fmt.Errorf("error storing refresh token: %w", err)
	}

	return secret, nil
}

// Verify resolves a plaintext refresh secret to its user id. An unknown
// secret fails with common.ErrInvalidToken. A known but expired secret is
// deleted immediately, then fails with common.ErrRefreshTokenExpired:
// expired-but-presented tokens are never left behind for the next hygiene
// pass.
func (m *Manager) Verify(ctx context.Context, secret string) (string, error) {
	hash := auth.HashRefreshToken(secret)

	record, err := m.repo.FindByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", fmt.Errorf("%w: invalid refresh token", common.ErrInvalidToken)
		}
		return "", fmt.Errorf("error searching refresh token: %w", err)
	}

	if record.ExpiresAt.Before(m.now()) {
		if _, err := m.repo.DeleteByHash(ctx, hash); err != nil {
			return "", fmt.Errorf("error revoking expired refresh token: %w", err)
		}
		return "", fmt.Errorf("%w: %w", common.ErrInvalidToken, common.ErrRefreshTokenExpired)
	}

	return record.UserID, nil
}

// Revoke deletes the record for the given plaintext secret. Revoking an
// already-absent token is not an error.
func (m *Manager) Revoke(ctx context.Context, secret string) error {
	if _, err := m.repo.DeleteByHash(ctx, auth.HashRefreshToken(secret)); err != nil {
		return fmt.Errorf("error revoking refresh token: %w", err)
	}
	return nil
}

// Consume revokes the record for the given plaintext secret and fails unless
// this call was the one that removed it. Rotation uses Consume instead of
// Revoke so two requests presenting the same secret cannot both succeed: the
// loser of the delete race observes zero removed rows.
func (m *Manager) Consume(ctx context.Context, secret string) error {
	n, err := m.repo.DeleteByHash(ctx, auth.HashRefreshToken(secret))
	if err != nil {
		return fmt.Errorf("error revoking refresh token: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: refresh token already used", common.ErrInvalidToken)
	}
	return nil
}

// RevokeAll deletes every refresh token of the user ("log out everywhere").
func (m *Manager) RevokeAll(ctx context.Context, userID string) error {
	if err := m.repo.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("error revoking user sessions: %w", err)
	}
	return nil
}
