// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package badgerstore

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/videotheca/internal/models"
	"github.com/tomtom215/videotheca/internal/store"
)

func TestCreateUserAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := testUser("u-1", "alice@example.com")
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	got, err := s.UserByID(ctx, "u-1")
	if err != nil {
		t.Fatalf("UserByID failed: %v", err)
	}
	if got.Email != "alice@example.com" {
		t.Errorf("Expected email alice@example.com, got %q", got.Email)
	}
	if got.PasswordHash != u.PasswordHash {
		t.Error("Password hash did not survive the round trip")
	}
	if got.Preferences.Language != "en" {
		t.Errorf("Preferences lost: %+v", got.Preferences)
	}
	if len(got.Watchlist) != 0 || len(got.History) != 0 {
		t.Errorf("New user should have empty watchlist and history, got %d/%d",
			len(got.Watchlist), len(got.History))
	}
}

func TestUserByIDNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.UserByID(context.Background(), "nope")
	if !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, testUser("u-1", "alice@example.com")); err != nil {
		t.Fatalf("First CreateUser failed: %v", err)
	}

	tests := []struct {
		name  string
		email string
	}{
		{"exact duplicate", "alice@example.com"},
		{"case variant", "ALICE@Example.COM"},
		{"surrounding whitespace", "  alice@example.com "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.CreateUser(ctx, testUser("u-2", tt.email))
			if !errors.Is(err, store.ErrEmailTaken) {
				t.Errorf("Expected ErrEmailTaken for %q, got %v", tt.email, err)
			}
		})
	}

	// The failed attempts must not have registered anything.
	if _, err := s.UserByID(ctx, "u-2"); !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("Rejected registration leaked a user record: %v", err)
	}
}

func TestUserByEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, testUser("u-1", "Alice@Example.com")); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	got, err := s.UserByEmail(ctx, "alice@EXAMPLE.com")
	if err != nil {
		t.Fatalf("UserByEmail should match case-insensitively: %v", err)
	}
	if got.ID != "u-1" {
		t.Errorf("Expected u-1, got %q", got.ID)
	}
	// The record keeps the address as registered.
	if got.Email != "Alice@Example.com" {
		t.Errorf("Stored email was rewritten: %q", got.Email)
	}

	if _, err := s.UserByEmail(ctx, "bob@example.com"); !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound for unknown email, got %v", err)
	}
}

func TestUpdateUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := testUser("u-1", "alice@example.com")
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	u.Name = "Alice Prime"
	u.Subscription = models.TierPremium
	if err := s.UpdateUser(ctx, u); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}

	got, err := s.UserByID(ctx, "u-1")
	if err != nil {
		t.Fatalf("UserByID failed: %v", err)
	}
	if got.Name != "Alice Prime" || got.Subscription != models.TierPremium {
		t.Errorf("Update not applied: %+v", got)
	}
}

func TestUpdateUserNotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateUser(context.Background(), testUser("ghost", "ghost@example.com"))
	if !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateUserEmailMove(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := testUser("u-1", "alice@example.com")
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if err := s.CreateUser(ctx, testUser("u-2", "bob@example.com")); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	// Moving to a taken address must fail and leave the index intact.
	u.Email = "bob@example.com"
	if err := s.UpdateUser(ctx, u); !errors.Is(err, store.ErrEmailTaken) {
		t.Fatalf("Expected ErrEmailTaken, got %v", err)
	}

	// Moving to a free address releases the old one.
	u.Email = "alice2@example.com"
	if err := s.UpdateUser(ctx, u); err != nil {
		t.Fatalf("UpdateUser to free address failed: %v", err)
	}
	if _, err := s.UserByEmail(ctx, "alice2@example.com"); err != nil {
		t.Errorf("New address not indexed: %v", err)
	}
	if _, err := s.UserByEmail(ctx, "alice@example.com"); !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("Old address still resolves: %v", err)
	}

	if err := s.CreateUser(ctx, testUser("u-3", "alice@example.com")); err != nil {
		t.Errorf("Released address should be claimable: %v", err)
	}
}

func TestUpdateUserDoesNotTouchWatchlist(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := testUser("u-1", "alice@example.com")
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	seedContent(t, s, 1)
	if err := s.AddToWatchlist(ctx, "u-1", "c-000"); err != nil {
		t.Fatalf("AddToWatchlist failed: %v", err)
	}

	// An update carrying a stale, empty watchlist must not clear the
	// stored one.
	u.Watchlist = nil
	u.Name = "Renamed"
	if err := s.UpdateUser(ctx, u); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}

	got, err := s.UserByID(ctx, "u-1")
	if err != nil {
		t.Fatalf("UserByID failed: %v", err)
	}
	if len(got.Watchlist) != 1 || got.Watchlist[0] != "c-000" {
		t.Errorf("Watchlist damaged by UpdateUser: %v", got.Watchlist)
	}
}
