// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package badgerstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/videotheca/internal/models"
	"github.com/tomtom215/videotheca/internal/store"
)

func setupUserWithContent(t *testing.T, s *Store, n int) {
	t.Helper()

	if err := s.CreateUser(context.Background(), testUser("u-1", "alice@example.com")); err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	seedContent(t, s, n)
}

func TestWatchlistAddAndOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	setupUserWithContent(t, s, 3)

	// Deliberately not in ID order; the list must keep add order.
	for _, id := range []string{"c-001", "c-000", "c-002"} {
		if err := s.AddToWatchlist(ctx, "u-1", id); err != nil {
			t.Fatalf("AddToWatchlist(%s) failed: %v", id, err)
		}
	}

	ids, err := s.Watchlist(ctx, "u-1")
	if err != nil {
		t.Fatalf("Watchlist failed: %v", err)
	}
	want := []string{"c-001", "c-000", "c-002"}
	if len(ids) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(ids))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("Position %d: expected %q, got %q", i, want[i], ids[i])
		}
	}
}

func TestWatchlistAddIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	setupUserWithContent(t, s, 2)

	if err := s.AddToWatchlist(ctx, "u-1", "c-000"); err != nil {
		t.Fatalf("First add failed: %v", err)
	}
	if err := s.AddToWatchlist(ctx, "u-1", "c-001"); err != nil {
		t.Fatalf("Second add failed: %v", err)
	}

	// Re-adding must neither error nor move the entry to the back.
	if err := s.AddToWatchlist(ctx, "u-1", "c-000"); err != nil {
		t.Fatalf("Re-add failed: %v", err)
	}

	ids, err := s.Watchlist(ctx, "u-1")
	if err != nil {
		t.Fatalf("Watchlist failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("Expected 2 entries after re-add, got %d", len(ids))
	}
	if ids[0] != "c-000" || ids[1] != "c-001" {
		t.Errorf("Re-add changed ordering: %v", ids)
	}
}

func TestWatchlistRemove(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	setupUserWithContent(t, s, 2)

	if err := s.AddToWatchlist(ctx, "u-1", "c-000"); err != nil {
		t.Fatalf("AddToWatchlist failed: %v", err)
	}

	if err := s.RemoveFromWatchlist(ctx, "u-1", "c-000"); err != nil {
		t.Fatalf("RemoveFromWatchlist failed: %v", err)
	}
	// Removing again, or removing something never added, is a no-op.
	if err := s.RemoveFromWatchlist(ctx, "u-1", "c-000"); err != nil {
		t.Errorf("Repeat remove should be a no-op, got: %v", err)
	}
	if err := s.RemoveFromWatchlist(ctx, "u-1", "c-001"); err != nil {
		t.Errorf("Removing an absent entry should be a no-op, got: %v", err)
	}

	ids, err := s.Watchlist(ctx, "u-1")
	if err != nil {
		t.Fatalf("Watchlist failed: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("Expected empty watchlist, got %v", ids)
	}
}

func TestWatchlistUnknownUserAndContent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	setupUserWithContent(t, s, 1)

	if err := s.AddToWatchlist(ctx, "ghost", "c-000"); !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("Add for unknown user: expected ErrUserNotFound, got %v", err)
	}
	if err := s.AddToWatchlist(ctx, "u-1", "ghost"); !errors.Is(err, store.ErrContentNotFound) {
		t.Errorf("Add of unknown content: expected ErrContentNotFound, got %v", err)
	}
	if err := s.RemoveFromWatchlist(ctx, "ghost", "c-000"); !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("Remove for unknown user: expected ErrUserNotFound, got %v", err)
	}
	if _, err := s.Watchlist(ctx, "ghost"); !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("Watchlist for unknown user: expected ErrUserNotFound, got %v", err)
	}
}

func TestWatchlistSurvivesContentDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	setupUserWithContent(t, s, 2)

	for _, id := range []string{"c-000", "c-001"} {
		if err := s.AddToWatchlist(ctx, "u-1", id); err != nil {
			t.Fatalf("AddToWatchlist failed: %v", err)
		}
	}
	if err := s.DeleteContent(ctx, "c-000"); err != nil {
		t.Fatalf("DeleteContent failed: %v", err)
	}

	// The raw list still carries the dangling ID; resolution skips it.
	ids, err := s.Watchlist(ctx, "u-1")
	if err != nil {
		t.Fatalf("Watchlist failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("Expected 2 raw entries, got %d", len(ids))
	}

	items, err := s.ContentByIDs(ctx, ids)
	if err != nil {
		t.Fatalf("ContentByIDs failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != "c-001" {
		t.Errorf("Expected only c-001 to resolve, got %v", items)
	}
}

func TestRecordWatchUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	setupUserWithContent(t, s, 2)

	first := models.WatchHistoryEntry{
		ContentID: "c-000",
		Progress:  25,
		WatchedAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
	}
	second := models.WatchHistoryEntry{
		ContentID: "c-001",
		Progress:  80,
		WatchedAt: time.Date(2026, 2, 1, 11, 0, 0, 0, time.UTC),
	}
	if err := s.RecordWatch(ctx, "u-1", first); err != nil {
		t.Fatalf("RecordWatch failed: %v", err)
	}
	if err := s.RecordWatch(ctx, "u-1", second); err != nil {
		t.Fatalf("RecordWatch failed: %v", err)
	}

	// Re-watching c-000 replaces the old entry rather than adding one.
	rewatch := models.WatchHistoryEntry{
		ContentID: "c-000",
		Progress:  100,
		WatchedAt: time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC),
	}
	if err := s.RecordWatch(ctx, "u-1", rewatch); err != nil {
		t.Fatalf("RecordWatch upsert failed: %v", err)
	}

	u, err := s.UserByID(ctx, "u-1")
	if err != nil {
		t.Fatalf("UserByID failed: %v", err)
	}
	if len(u.History) != 2 {
		t.Fatalf("Expected 2 history entries, got %d", len(u.History))
	}
	// Oldest watch first: c-001 (Feb 1) then c-000 (Feb 2).
	if u.History[0].ContentID != "c-001" || u.History[1].ContentID != "c-000" {
		t.Errorf("History order wrong: %+v", u.History)
	}
	if u.History[1].Progress != 100 {
		t.Errorf("Re-watch did not replace progress: %v", u.History[1].Progress)
	}

	if err := s.RecordWatch(ctx, "ghost", first); !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("RecordWatch for unknown user: expected ErrUserNotFound, got %v", err)
	}
}
