// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tomtom215/videotheca/internal/config"
	"github.com/tomtom215/videotheca/internal/models"
	"github.com/tomtom215/videotheca/internal/store"
	"github.com/tomtom215/videotheca/internal/store/badgerstore"
)

// recordingPublisher captures broadcast events for assertions.
type recordingPublisher struct {
	events []string
	ids    []string
}

func (p *recordingPublisher) BroadcastContentEvent(event string, content *models.Content) {
	p.events = append(p.events, event)
	p.ids = append(p.ids, content.ID)
}

func testAPIConfig() *config.APIConfig {
	return &config.APIConfig{
		DefaultPageSize:     10,
		MaxPageSize:         100,
		RecommendationLimit: 10,
	}
}

func newTestService(t *testing.T) (*Service, *recordingPublisher, store.Store) {
	t.Helper()
	st, err := badgerstore.New(&config.BadgerConfig{InMemory: true})
	if err != nil {
		t.Fatalf("Failed to open in-memory store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	pub := &recordingPublisher{}
	return New(st, testAPIConfig(), pub), pub, st
}

func seedCatalog(t *testing.T, st store.Store, n int) {
	t.Helper()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		contentType := models.ContentTypeMovie
		if i%2 == 1 {
			contentType = models.ContentTypeSeries
		}
		created := base.Add(-time.Duration(i) * time.Hour)
		err := st.CreateContent(context.Background(), &models.Content{
			ID:          fmt.Sprintf("c-%03d", i),
			Title:       fmt.Sprintf("Title %03d", i),
			Description: "d",
			Type:        contentType,
			Genres:      []string{"Action"},
			ReleaseYear: 2020,
			Duration:    "1h",
			CreatedAt:   created,
			UpdatedAt:   created,
		})
		if err != nil {
			t.Fatalf("Failed to seed content %d: %v", i, err)
		}
	}
}

func TestListPagination(t *testing.T) {
	svc, _, st := newTestService(t)
	seedCatalog(t, st, 25)
	ctx := context.Background()

	page1, err := svc.List(ctx, store.ContentFilter{}, 1, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(page1.Items) != 10 {
		t.Errorf("Expected 10 items on page 1, got %d", len(page1.Items))
	}
	if page1.Pagination.Total != 25 {
		t.Errorf("Expected total 25, got %d", page1.Pagination.Total)
	}
	if page1.Pagination.Pages != 3 {
		t.Errorf("Expected 3 pages, got %d", page1.Pagination.Pages)
	}
	// Newest first: c-000 carries the latest created_at.
	if page1.Items[0].ID != "c-000" {
		t.Errorf("Expected newest entry first, got %q", page1.Items[0].ID)
	}

	page3, err := svc.List(ctx, store.ContentFilter{}, 3, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(page3.Items) != 5 {
		t.Errorf("Expected 5 items on the last page, got %d", len(page3.Items))
	}

	// A page past the end is empty, not an error; total is unchanged.
	page4, err := svc.List(ctx, store.ContentFilter{}, 4, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(page4.Items) != 0 {
		t.Errorf("Expected empty page past the end, got %d items", len(page4.Items))
	}
	if page4.Pagination.Total != 25 {
		t.Errorf("Expected total 25 on empty page, got %d", page4.Pagination.Total)
	}
}

func TestListClamping(t *testing.T) {
	svc, _, st := newTestService(t)
	seedCatalog(t, st, 5)
	ctx := context.Background()

	tests := []struct {
		name      string
		page      int
		limit     int
		wantPage  int
		wantLimit int
	}{
		{"zero values", 0, 0, 1, 10},
		{"negative values", -3, -1, 1, 10},
		{"limit above max", 1, 500, 1, 100},
		{"sane values", 2, 25, 2, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.List(ctx, store.ContentFilter{}, tt.page, tt.limit)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if result.Pagination.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", result.Pagination.Page, tt.wantPage)
			}
			if result.Pagination.Limit != tt.wantLimit {
				t.Errorf("Limit = %d, want %d", result.Pagination.Limit, tt.wantLimit)
			}
		})
	}
}

func TestListFilters(t *testing.T) {
	svc, _, st := newTestService(t)
	seedCatalog(t, st, 10) // 5 movies, 5 series
	ctx := context.Background()

	byType, err := svc.List(ctx, store.ContentFilter{Type: models.ContentTypeSeries}, 1, 50)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if byType.Pagination.Total != 5 {
		t.Errorf("Expected 5 series, got %d", byType.Pagination.Total)
	}

	bySearch, err := svc.List(ctx, store.ContentFilter{Search: "title 003"}, 1, 50)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if bySearch.Pagination.Total != 1 {
		t.Errorf("Expected 1 search match, got %d", bySearch.Pagination.Total)
	}
}

func TestByGenreCaseInsensitive(t *testing.T) {
	svc, _, st := newTestService(t)
	seedCatalog(t, st, 3)
	ctx := context.Background()

	result, err := svc.ByGenre(ctx, "aCtIoN", 1, 50)
	if err != nil {
		t.Fatalf("ByGenre failed: %v", err)
	}
	if result.Pagination.Total != 3 {
		t.Errorf("Expected 3 matches regardless of case, got %d", result.Pagination.Total)
	}

	empty, err := svc.ByGenre(ctx, "Documentary", 1, 50)
	if err != nil {
		t.Fatalf("ByGenre failed: %v", err)
	}
	if empty.Pagination.Total != 0 {
		t.Errorf("Expected no matches, got %d", empty.Pagination.Total)
	}
}

func TestCreateAndGet(t *testing.T) {
	svc, pub, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.ContentCreateRequest{
		Title:       "Inland Orbit",
		Description: "A crew drifts home",
		Type:        models.ContentTypeMovie,
		Genres:      []string{"Sci-Fi", "Drama"},
		ReleaseYear: 2024,
		Rating:      7.9,
		Duration:    "2h 10m",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" {
		t.Error("Expected an ID to be assigned")
	}
	if created.CreatedAt.IsZero() || !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Error("Expected fresh matching timestamps")
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != "Inland Orbit" {
		t.Errorf("Round-trip lost the title: %q", got.Title)
	}

	if len(pub.events) != 1 || pub.events[0] != EventContentCreated {
		t.Errorf("Expected one %s event, got %v", EventContentCreated, pub.events)
	}
}

func TestGetNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.Get(context.Background(), "ghost"); !errors.Is(err, store.ErrContentNotFound) {
		t.Errorf("Expected ErrContentNotFound, got %v", err)
	}
}

func TestUpdatePatch(t *testing.T) {
	svc, pub, st := newTestService(t)
	seedCatalog(t, st, 1)
	ctx := context.Background()

	newTitle := "Renamed"
	newRating := 9.1
	updated, err := svc.Update(ctx, "c-000", &models.ContentUpdateRequest{
		Title:  &newTitle,
		Rating: &newRating,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Title != "Renamed" || updated.Rating != 9.1 {
		t.Errorf("Patch not applied: %+v", updated)
	}
	// Untouched fields survive.
	if updated.Description != "d" || updated.Duration != "1h" {
		t.Errorf("Patch clobbered unrelated fields: %+v", updated)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Error("Expected UpdatedAt to advance")
	}
	if len(pub.events) != 1 || pub.events[0] != EventContentUpdated {
		t.Errorf("Expected one %s event, got %v", EventContentUpdated, pub.events)
	}

	// An all-nil patch changes nothing and stays silent.
	before := updated.UpdatedAt
	same, err := svc.Update(ctx, "c-000", &models.ContentUpdateRequest{})
	if err != nil {
		t.Fatalf("Empty update failed: %v", err)
	}
	if !same.UpdatedAt.Equal(before) {
		t.Error("Empty patch must not touch UpdatedAt")
	}
	if len(pub.events) != 1 {
		t.Errorf("Empty patch must not publish, got %v", pub.events)
	}
}

func TestUpdateNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	title := "x"
	_, err := svc.Update(context.Background(), "ghost", &models.ContentUpdateRequest{Title: &title})
	if !errors.Is(err, store.ErrContentNotFound) {
		t.Errorf("Expected ErrContentNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc, pub, st := newTestService(t)
	seedCatalog(t, st, 1)
	ctx := context.Background()

	if err := svc.Delete(ctx, "c-000"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := svc.Get(ctx, "c-000"); !errors.Is(err, store.ErrContentNotFound) {
		t.Errorf("Expected entry gone, got %v", err)
	}
	// Deleting again reports not found.
	if err := svc.Delete(ctx, "c-000"); !errors.Is(err, store.ErrContentNotFound) {
		t.Errorf("Expected ErrContentNotFound on repeat delete, got %v", err)
	}

	if len(pub.events) != 1 || pub.events[0] != EventContentDeleted {
		t.Errorf("Expected one %s event, got %v", EventContentDeleted, pub.events)
	}
	if pub.ids[0] != "c-000" {
		t.Errorf("Delete event carries wrong ID: %q", pub.ids[0])
	}
}

func TestNilPublisher(t *testing.T) {
	st, err := badgerstore.New(&config.BadgerConfig{InMemory: true})
	if err != nil {
		t.Fatalf("Failed to open in-memory store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	svc := New(st, testAPIConfig(), nil)

	if _, err := svc.Create(context.Background(), &models.ContentCreateRequest{
		Title: "T", Description: "d", Type: models.ContentTypeMovie,
		Genres: []string{"Action"}, ReleaseYear: 2020, Duration: "1h",
	}); err != nil {
		t.Fatalf("Create with nil publisher failed: %v", err)
	}
}
