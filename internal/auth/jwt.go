// Package auth implements credential primitives for the server: a manager
// for short-lived signed access tokens (JWT, HMAC-signed) and helpers for
// long-lived opaque refresh secrets.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Standard claim names managed by the Manager. Caller-supplied claims with
// these names are overwritten on creation.
const (
	ClaimIssuedAt  = "iat"
	ClaimNotBefore = "nbf"
	ClaimExpiresAt = "exp"
)

// Config holds the settings for a token Manager.
type Config struct {
	// SecretKey is the HMAC signing secret. Must be non-empty.
	SecretKey string
	// SigningMethod selects the HMAC algorithm: "HS256" (default) or "HS512".
	SigningMethod string
	// AccessTTL is the lifetime of issued access tokens.
	AccessTTL time.Duration
	// RefreshThreshold is the remaining lifetime below which ShouldRefresh
	// reports true.
	RefreshThreshold time.Duration
}

// Manager mints and validates signed access tokens. It is immutable after
// construction and safe for concurrent use.
type Manager struct {
	secret    []byte
	method    jwt.SigningMethod
	accessTTL time.Duration
	threshold time.Duration
	now       func() time.Time
}

// NewManager validates cfg and returns a ready Manager. An empty secret is a
// configuration error: the service must refuse to start rather than issue
// tokens signed with an empty key.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("signing secret must not be empty")
	}
	if cfg.AccessTTL <= 0 {
		return nil, errors.New("access token TTL must be positive")
	}
	if cfg.RefreshThreshold < 0 {
		return nil, errors.New("refresh threshold must not be negative")
	}

	var method jwt.SigningMethod
	switch cfg.SigningMethod {
	case "", "HS256":
		method = jwt.SigningMethodHS256
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported signing method: %s", cfg.SigningMethod)
	}

	return &Manager{
		secret:    []byte(cfg.SecretKey),
		method:    method,
		accessTTL: cfg.AccessTTL,
		threshold: cfg.RefreshThreshold,
		now:       time.Now,
	}, nil
}

// Create merges the caller-supplied claims with fresh standard claims
// (iat=nbf=now, exp=now+TTL) and returns a signed token string. Standard
// claims always win if the caller supplies duplicates.
func (m *Manager) Create(claims map[string]any, now time.Time) (string, error) {
	mc := make(jwt.MapClaims, len(claims)+3)
	for k, v := range claims {
		mc[k] = v
	}
	mc[ClaimIssuedAt] = now.Unix()
	mc[ClaimNotBefore] = now.Unix()
	mc[ClaimExpiresAt] = now.Add(m.accessTTL).Unix()

	token := jwt.NewWithClaims(m.method, mc)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("token signing failed: %w", err)
	}
	return signed, nil
}

// DecodeStrict verifies the token's signature, expiry and not-before
// constraints and returns its claims. Any mismatch (bad signature, malformed
// structure, expired, not yet valid) fails with common.ErrInvalidToken;
// an expired token additionally matches common.ErrTokenExpired.
func (m *Manager) DecodeStrict(tokenStr string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	_, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, common.ErrTokenExpired)
		}
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	return claims, nil
}

// Verify is the permissive variant of DecodeStrict used on hot request
// paths: a missing or invalid token yields (nil, false) instead of an error,
// so failure falls through to "unauthenticated".
func (m *Manager) Verify(tokenStr string) (jwt.MapClaims, bool) {
	if tokenStr == "" {
		return nil, false
	}
	claims, err := m.DecodeStrict(tokenStr)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// ShouldRefresh reports whether the token behind claims is close enough to
// expiry that the client should obtain a fresh one. A missing or malformed
// exp claim counts as "refresh now": failing open toward refreshing never
// extends trust.
func (m *Manager) ShouldRefresh(claims jwt.MapClaims, now time.Time) bool {
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.Time.Sub(now) < m.threshold
}

// Refresh re-issues a token from an old claim set: the standard claims are
// stripped and regenerated, all custom claims are preserved verbatim.
func (m *Manager) Refresh(oldClaims jwt.MapClaims, now time.Time) (string, error) {
	custom := make(map[string]any, len(oldClaims))
	for k, v := range oldClaims {
		if k == ClaimIssuedAt || k == ClaimNotBefore || k == ClaimExpiresAt {
			continue
		}
		custom[k] = v
	}
	return m.Create(custom, now)
}
