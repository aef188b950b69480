// Package services contains server-side business logic. This file implements
// AuthService: registration, login, refresh-token rotation and logout, built
// on top of the token manager and the session lifecycle layer.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/authkeeper/internal/auth"
	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/config"
	"github.com/dmitrijs2005/authkeeper/internal/dbx"
	"github.com/dmitrijs2005/authkeeper/internal/models"
	"github.com/dmitrijs2005/authkeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/authkeeper/internal/sessions"
	"github.com/dmitrijs2005/authkeeper/internal/transport"
)

// TokenPair bundles a short-lived access token and a long-lived refresh
// token, each with its absolute expiry for the transport layer.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// AuthService provides the authentication operations of the server:
//   - Register / Login: account creation and credential verification
//   - Refresh: single-use refresh-token rotation
//   - Logout / LogoutAll: revocation of one or all sessions
//   - Authenticate: access-token verification for request handling
type AuthService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	tokens       *auth.Manager
	refreshTTL   time.Duration
	accessTTL    time.Duration
	sessionLimit int
	now          func() time.Time
}

// NewAuthService constructs an AuthService from the server config. The token
// manager is validated here so a bad signing setup fails at startup.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) (*AuthService, error) {
	tokens, err := auth.NewManager(auth.Config{
		SecretKey:        cfg.SecretKey,
		SigningMethod:    cfg.SigningMethod,
		AccessTTL:        cfg.AccessTokenValidityDuration,
		RefreshThreshold: cfg.RefreshThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("error configuring token manager: %w", err)
	}

	return &AuthService{
		db:           db,
		repomanager:  m,
		tokens:       tokens,
		refreshTTL:   cfg.RefreshTokenValidityDuration,
		accessTTL:    cfg.AccessTokenValidityDuration,
		sessionLimit: cfg.SessionLimit,
		now:          time.Now,
	}, nil
}

// Register creates a new user account. The password is stored as a bcrypt
// hash; a duplicate username yields common.ErrorAlreadyExists.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, errors.New("username and password must not be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.Create(ctx, &models.User{Username: username, PasswordHash: string(hash)})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

// Login verifies the username/password pair and, on success, issues a fresh
// token pair. Wrong username and wrong password both map to
// common.ErrorUnauthorized so callers cannot distinguish them.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, user.ID, tx)
		return genErr
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Refresh rotates the refresh credential carried by creds: the presented
// token is verified, revoked, and replaced, and a new access token is minted
// for the same user. Both new credentials are written back to creds. The
// whole rotation runs in one transaction, so a failed reissue does not leave
// the client without a valid session.
//
// A known-but-expired token is purged before the error is returned; the
// stale credentials are cleared from creds in every failure case so clients
// do not retry with a token that can no longer succeed.
func (s *AuthService) Refresh(ctx context.Context, creds transport.Credentials) (*TokenPair, error) {
	secret, ok := creds.RefreshCredential()
	if !ok {
		return nil, fmt.Errorf("%w: refresh credential missing", common.ErrInvalidToken)
	}

	var pair *TokenPair
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		mgr := s.sessions(tx)

		userID, err := mgr.Verify(ctx, secret)
		if err != nil {
			return err
		}
		if err := mgr.Consume(ctx, secret); err != nil {
			return err
		}

		var genErr error
		pair, genErr = s.generateTokenPair(ctx, userID, tx)
		return genErr
	})
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) || errors.Is(err, common.ErrRefreshTokenExpired) {
			creds.ClearRefreshCredential()
			creds.ClearAccessCredential()
		}
		return nil, err
	}

	creds.SetRefreshCredential(pair.RefreshToken, pair.RefreshExpiresAt)
	creds.SetAccessCredential(pair.AccessToken, pair.AccessExpiresAt)
	return pair, nil
}

// Logout revokes the session behind the presented refresh credential and
// clears both credentials. A missing or unknown credential is not an error:
// logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, creds transport.Credentials) error {
	defer func() {
		creds.ClearRefreshCredential()
		creds.ClearAccessCredential()
	}()

	secret, ok := creds.RefreshCredential()
	if !ok {
		return nil
	}
	return s.sessions(s.db).Revoke(ctx, secret)
}

// LogoutAll revokes every session of the user ("log out everywhere").
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	return s.sessions(s.db).RevokeAll(ctx, userID)
}

// Authenticate verifies an access token and returns the user id it was
// issued for. Failures match common.ErrInvalidToken; expired tokens also
// match common.ErrTokenExpired.
func (s *AuthService) Authenticate(ctx context.Context, tokenStr string) (string, error) {
	claims, err := s.tokens.DecodeStrict(tokenStr)
	if err != nil {
		return "", err
	}
	userID, ok := claims["id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("%w: missing user id claim", common.ErrInvalidToken)
	}
	return userID, nil
}

// ShouldRefresh reports whether a still-valid access token is close enough
// to expiry that the client should call the refresh endpoint. Invalid tokens
// report false; they cannot be refreshed, only re-authenticated.
func (s *AuthService) ShouldRefresh(tokenStr string) bool {
	claims, ok := s.tokens.Verify(tokenStr)
	if !ok {
		return false
	}
	return s.tokens.ShouldRefresh(claims, s.now())
}

// GetUser returns the user behind an authenticated request.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// --- helpers below ---

func (s *AuthService) sessions(db dbx.DBTX) *sessions.Manager {
	return sessions.NewManager(s.repomanager.RefreshTokens(db), s.sessionLimit)
}

func (s *AuthService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*TokenPair, error) {
	now := s.now()

	refresh, err := s.sessions(tx).Create(ctx, userID, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	access, err := s.tokens.Create(map[string]any{"id": userID}, now)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  now.Add(s.accessTTL),
		RefreshToken:     refresh,
		RefreshExpiresAt: now.Add(s.refreshTTL),
	}, nil
}
