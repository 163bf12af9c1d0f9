// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

// Package auth implements account registration, credential login, JWT
// session tokens and their revocation.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/videotheca/internal/config"
	"github.com/tomtom215/videotheca/internal/logging"
	"github.com/tomtom215/videotheca/internal/metrics"
	"github.com/tomtom215/videotheca/internal/models"
	"github.com/tomtom215/videotheca/internal/store"
)

// dummyHash is compared against when login names an unknown email, so
// the failure path costs a bcrypt verification either way.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)

// Service owns the account lifecycle: register, login, token refresh,
// logout and request authentication.
type Service struct {
	store      store.Store
	tokens     *JWTManager
	revocation RevocationStore
	cfg        *config.SecurityConfig
}

// NewService creates the authentication service.
func NewService(st store.Store, tokens *JWTManager, revocation RevocationStore, cfg *config.SecurityConfig) *Service {
	return &Service{
		store:      st,
		tokens:     tokens,
		revocation: revocation,
		cfg:        cfg,
	}
}

// NormalizeEmail lowercases and trims an email address. All storage and
// lookups use the normalized form; the address as typed is kept on the
// account for display.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and returns it with a signed session
// token. The password must satisfy the configured policy; a violating
// password yields a *PasswordPolicyError listing every failure. A
// duplicate email yields store.ErrEmailTaken.
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, string, error) {
	if violations := s.cfg.Password.Validate(req.Password); len(violations) > 0 {
		metrics.RecordAuthAttempt("register", false)
		return nil, "", &PasswordPolicyError{Violations: violations}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		metrics.RecordAuthAttempt("register", false)
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	email := NormalizeEmail(req.Email)
	role := models.RoleUser
	if s.isAdminEmail(email) {
		role = models.RoleAdmin
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        strings.TrimSpace(req.Email),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: string(hash),
		Subscription: models.TierBasic,
		Role:         role,
		Preferences:  models.DefaultPreferences(),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		metrics.RecordAuthAttempt("register", false)
		return nil, "", err
	}

	token, _, err := s.issueToken(user)
	if err != nil {
		metrics.RecordAuthAttempt("register", false)
		return nil, "", err
	}

	metrics.RecordAuthAttempt("register", true)
	logging.Ctx(ctx).Info().
		Str("user_id", user.ID).
		Str("role", user.Role).
		Msg("Account registered")
	return user, token, nil
}

// Login verifies credentials and returns the account with a fresh
// session token. Unknown email, wrong password and deactivated account
// all return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, error) {
	user, err := s.store.UserByEmail(ctx, NormalizeEmail(req.Email))
	if err != nil {
		// Burn a bcrypt comparison so an unknown email is not
		// distinguishable from a wrong password by response time.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
		metrics.RecordAuthAttempt("login", false)
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		metrics.RecordAuthAttempt("login", false)
		return nil, "", ErrInvalidCredentials
	}

	if !user.Active {
		metrics.RecordAuthAttempt("login", false)
		return nil, "", ErrInvalidCredentials
	}

	token, _, err := s.issueToken(user)
	if err != nil {
		metrics.RecordAuthAttempt("login", false)
		return nil, "", err
	}

	metrics.RecordAuthAttempt("login", true)
	logging.Ctx(ctx).Info().
		Str("user_id", user.ID).
		Msg("Login succeeded")
	return user, token, nil
}

// Authenticate validates a presented token: signature, algorithm,
// issuer, time claims, and the revocation deny-list.
func (s *Service) Authenticate(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	revoked, err := s.revocation.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	return claims, nil
}

// Refresh exchanges a valid token for a new one and revokes the old
// token's jti for its remaining lifetime. The presented token can no
// longer be used after a successful refresh.
func (s *Service) Refresh(ctx context.Context, tokenString string) (*models.User, string, error) {
	claims, err := s.Authenticate(ctx, tokenString)
	if err != nil {
		metrics.RecordAuthAttempt("refresh", false)
		return nil, "", err
	}

	// The account may have been deactivated since the token was minted.
	user, err := s.store.UserByID(ctx, claims.Subject)
	if err != nil || !user.Active {
		metrics.RecordAuthAttempt("refresh", false)
		return nil, "", ErrInvalidCredentials
	}

	if err := s.revoke(ctx, claims); err != nil {
		metrics.RecordAuthAttempt("refresh", false)
		return nil, "", err
	}

	token, _, err := s.issueToken(user)
	if err != nil {
		metrics.RecordAuthAttempt("refresh", false)
		return nil, "", err
	}

	metrics.RecordAuthAttempt("refresh", true)
	logging.Ctx(ctx).Debug().
		Str("user_id", user.ID).
		Msg("Token rotated")
	return user, token, nil
}

// Logout revokes the presented token. A second logout with the same
// token fails authentication because the jti is already denied.
func (s *Service) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.Authenticate(ctx, tokenString)
	if err != nil {
		return err
	}
	if err := s.revoke(ctx, claims); err != nil {
		return err
	}

	logging.Ctx(ctx).Info().
		Str("user_id", claims.Subject).
		Msg("Logged out")
	return nil
}

// RevokeClaims revokes an already-authenticated token by its claims.
// Used by handlers that carry the claims from the auth middleware.
func (s *Service) RevokeClaims(ctx context.Context, claims *Claims) error {
	return s.revoke(ctx, claims)
}

func (s *Service) revoke(ctx context.Context, claims *Claims) error {
	expiresAt := time.Now().Add(s.tokens.TTL())
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := s.revocation.Revoke(ctx, claims.ID, expiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	metrics.TokensRevoked.Inc()
	return nil
}

func (s *Service) issueToken(user *models.User) (string, *Claims, error) {
	token, claims, err := s.tokens.GenerateToken(user.ID, NormalizeEmail(user.Email), user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	metrics.TokensIssued.Inc()
	return token, claims, nil
}

func (s *Service) isAdminEmail(normalized string) bool {
	for _, admin := range s.cfg.AdminEmails {
		if NormalizeEmail(admin) == normalized {
			return true
		}
	}
	return false
}
