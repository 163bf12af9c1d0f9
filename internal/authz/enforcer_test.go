// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package authz

import (
	"testing"

	"github.com/tomtom215/videotheca/internal/config"
	"github.com/tomtom215/videotheca/internal/models"
)

func TestAdminWritePolicy(t *testing.T) {
	e, err := New(config.WritePolicyAdmin)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	tests := []struct {
		role string
		want bool
	}{
		{models.RoleAdmin, true},
		{models.RoleUser, false},
		{"nonexistent", false},
		{"", false},
	}

	for _, tt := range tests {
		got, err := e.CanWriteContent(tt.role)
		if err != nil {
			t.Fatalf("CanWriteContent(%q) failed: %v", tt.role, err)
		}
		if got != tt.want {
			t.Errorf("CanWriteContent(%q) = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestAnyWritePolicy(t *testing.T) {
	e, err := New(config.WritePolicyAny)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for _, role := range []string{models.RoleUser, models.RoleAdmin} {
		allowed, err := e.CanWriteContent(role)
		if err != nil {
			t.Fatalf("CanWriteContent(%q) failed: %v", role, err)
		}
		if !allowed {
			t.Errorf("Expected role %q to be allowed under the any policy", role)
		}
	}

	// Unknown roles still get nothing.
	if allowed, _ := e.CanWriteContent("ghost"); allowed {
		t.Error("Unknown role should not be allowed to write")
	}
}

func TestAdminInheritsReads(t *testing.T) {
	e, err := New(config.WritePolicyAdmin)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// Reads are granted to user; admin inherits them via grouping.
	for _, role := range []string{models.RoleUser, models.RoleAdmin} {
		allowed, err := e.Enforce(role, ObjectContent, ActionRead)
		if err != nil {
			t.Fatalf("Enforce failed: %v", err)
		}
		if !allowed {
			t.Errorf("Expected role %q to read content", role)
		}
	}
}
