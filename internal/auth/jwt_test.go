// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/videotheca/internal/config"
)

const testSecret = "test-secret-0123456789abcdef-0123456789abcdef"

func newTestJWTManager(t *testing.T, ttl time.Duration) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(&config.SecurityConfig{
		JWTSecret: testSecret,
		TokenTTL:  ttl,
	})
	if err != nil {
		t.Fatalf("NewJWTManager failed: %v", err)
	}
	return m
}

func TestNewJWTManagerRequiresSecret(t *testing.T) {
	if _, err := NewJWTManager(&config.SecurityConfig{TokenTTL: time.Hour}); err == nil {
		t.Error("Expected error for empty secret")
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	m := newTestJWTManager(t, time.Hour)

	token, minted, err := m.GenerateToken("u-1", "alice@example.com", "user")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if minted.ID == "" {
		t.Error("Expected a jti to be assigned")
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.Subject != "u-1" {
		t.Errorf("Expected subject u-1, got %q", claims.Subject)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("Expected email claim, got %q", claims.Email)
	}
	if claims.Role != "user" {
		t.Errorf("Expected role user, got %q", claims.Role)
	}
	if claims.Issuer != TokenIssuer {
		t.Errorf("Expected issuer %q, got %q", TokenIssuer, claims.Issuer)
	}
	if claims.ID != minted.ID {
		t.Errorf("Validated jti %q differs from minted %q", claims.ID, minted.ID)
	}
}

func TestValidateTokenUniqueJTI(t *testing.T) {
	m := newTestJWTManager(t, time.Hour)

	_, first, err := m.GenerateToken("u-1", "a@example.com", "user")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	_, second, err := m.GenerateToken("u-1", "a@example.com", "user")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if first.ID == second.ID {
		t.Error("Expected distinct jti per token")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	m := newTestJWTManager(t, -time.Minute)

	token, _, err := m.GenerateToken("u-1", "a@example.com", "user")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if _, err := m.ValidateToken(token); err == nil {
		t.Error("Expected expired token to be rejected")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	m := newTestJWTManager(t, time.Hour)
	other, err := NewJWTManager(&config.SecurityConfig{
		JWTSecret: "another-secret-another-secret-another",
		TokenTTL:  time.Hour,
	})
	if err != nil {
		t.Fatalf("NewJWTManager failed: %v", err)
	}

	token, _, err := other.GenerateToken("u-1", "a@example.com", "user")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if _, err := m.ValidateToken(token); err == nil {
		t.Error("Expected token signed with a different secret to be rejected")
	}
}

func TestValidateTokenRejectsNoneAlgorithm(t *testing.T) {
	m := newTestJWTManager(t, time.Hour)

	claims := &Claims{
		Email: "a@example.com",
		Role:  "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-1",
			Issuer:    TokenIssuer,
			ID:        "forged",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("Failed to build unsigned token: %v", err)
	}

	if _, err := m.ValidateToken(token); err == nil {
		t.Error("Expected alg=none token to be rejected")
	}
}

func TestValidateTokenRejectsForeignIssuer(t *testing.T) {
	m := newTestJWTManager(t, time.Hour)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-1",
			Issuer:    "someone-else",
			ID:        "x",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err := signed.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	if _, err := m.ValidateToken(token); err == nil {
		t.Error("Expected token with a foreign issuer to be rejected")
	}
}
