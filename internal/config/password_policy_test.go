// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package config

import (
	"strings"
	"testing"
)

func TestDefaultPasswordPolicy(t *testing.T) {
	t.Parallel()

	p := DefaultPasswordPolicy()

	if p.MinLength != 8 {
		t.Errorf("expected min length 8, got %d", p.MinLength)
	}
	if !p.RequireLowercase {
		t.Error("expected lowercase requirement")
	}
	if !p.RequireDigit {
		t.Error("expected digit requirement")
	}
	if p.RequireUppercase {
		t.Error("uppercase should not be required by default")
	}
	if p.RequireSpecial {
		t.Error("special characters should not be required by default")
	}
	if !p.ForbidCommonPasswords {
		t.Error("expected common-password blocklist enabled")
	}
}

func TestPasswordPolicyValidate(t *testing.T) {
	t.Parallel()

	policy := DefaultPasswordPolicy()

	tests := []struct {
		name     string
		password string
		wantPart string // substring of an expected violation, empty = valid
	}{
		{"valid password", "correct-horse42", ""},
		{"valid with mixed case", "Str0ngpassword", ""},
		{"too short", "ab1", "at least 8 characters"},
		{"no digit", "longpassword", "at least one digit"},
		{"no lowercase", "12345678901", "lowercase"},
		{"common password", "password123", "too common"},
		{"common password uppercased", "PASSWORD123", "too common"},
		{"empty", "", "at least 8 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := policy.Validate(tt.password)

			if tt.wantPart == "" {
				if len(violations) != 0 {
					t.Errorf("expected no violations, got: %v", violations)
				}
				return
			}

			found := false
			for _, v := range violations {
				if strings.Contains(v, tt.wantPart) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("expected violation containing %q, got: %v", tt.wantPart, violations)
			}
		})
	}
}

func TestPasswordPolicyMultipleViolations(t *testing.T) {
	t.Parallel()

	policy := PasswordPolicy{
		MinLength:        10,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireDigit:     true,
		RequireSpecial:   true,
	}

	violations := policy.Validate("abc")
	// short, no uppercase, no digit, no special
	if len(violations) != 4 {
		t.Errorf("expected 4 violations, got %d: %v", len(violations), violations)
	}
}

func TestPasswordPolicyValidateWithError(t *testing.T) {
	t.Parallel()

	policy := DefaultPasswordPolicy()

	if err := policy.ValidateWithError("goodpassword7"); err != nil {
		t.Errorf("expected nil error for valid password, got: %v", err)
	}

	err := policy.ValidateWithError("a")
	if err == nil {
		t.Fatal("expected error for invalid password")
	}
	if !strings.Contains(err.Error(), ";") && !strings.Contains(err.Error(), "at least") {
		t.Errorf("expected joined violation message, got: %v", err)
	}
}

func TestPasswordPolicyDisabledChecks(t *testing.T) {
	t.Parallel()

	// A fully relaxed policy accepts anything of sufficient length.
	policy := PasswordPolicy{MinLength: 1}

	if violations := policy.Validate("x"); len(violations) != 0 {
		t.Errorf("relaxed policy should accept single character, got: %v", violations)
	}
	if violations := policy.Validate("password"); len(violations) != 0 {
		t.Errorf("relaxed policy should skip the blocklist, got: %v", violations)
	}
}
