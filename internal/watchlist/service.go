// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

// Package watchlist manages the per-user saved list and watch history.
package watchlist

import (
	"context"
	"time"

	"github.com/tomtom215/videotheca/internal/logging"
	"github.com/tomtom215/videotheca/internal/metrics"
	"github.com/tomtom215/videotheca/internal/models"
	"github.com/tomtom215/videotheca/internal/store"
)

// Service owns watchlist and history operations.
type Service struct {
	store store.Store
}

// New creates the watchlist service.
func New(st store.Store) *Service {
	return &Service{store: st}
}

// Add puts the title on the user's list. Adding a title already on the
// list succeeds without changing its position. The title must exist;
// adding an unknown ID fails with store.ErrContentNotFound.
func (s *Service) Add(ctx context.Context, userID, contentID string) error {
	if err := s.store.AddToWatchlist(ctx, userID, contentID); err != nil {
		return err
	}
	metrics.WatchlistOperations.WithLabelValues("add").Inc()
	logging.Ctx(ctx).Debug().
		Str("user_id", userID).
		Str("content_id", contentID).
		Msg("Watchlist add")
	return nil
}

// Remove drops the title from the user's list. Removing a title that is
// not on the list succeeds, so removal is safe to retry.
func (s *Service) Remove(ctx context.Context, userID, contentID string) error {
	if err := s.store.RemoveFromWatchlist(ctx, userID, contentID); err != nil {
		return err
	}
	metrics.WatchlistOperations.WithLabelValues("remove").Inc()
	return nil
}

// List resolves the user's watchlist to full catalog entries in the
// order the titles were added. Titles deleted from the catalog since
// being saved are skipped, not errors: the list self-heals on read.
func (s *Service) List(ctx context.Context, userID string) ([]models.Content, error) {
	ids, err := s.store.Watchlist(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.store.ContentByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Content{}
	}

	metrics.WatchlistOperations.WithLabelValues("list").Inc()
	return items, nil
}

// RecordWatch stores playback progress for a title. One entry is kept
// per title; a re-watch replaces the previous one. The title must still
// exist in the catalog.
func (s *Service) RecordWatch(ctx context.Context, userID string, req *models.WatchHistoryRequest) (models.WatchHistoryEntry, error) {
	// Reject progress reports for deleted or never-existing titles.
	if _, err := s.store.ContentByID(ctx, req.ContentID); err != nil {
		return models.WatchHistoryEntry{}, err
	}

	entry := models.WatchHistoryEntry{
		ContentID: req.ContentID,
		Progress:  req.Progress,
		WatchedAt: time.Now().UTC(),
	}
	if err := s.store.RecordWatch(ctx, userID, entry); err != nil {
		return models.WatchHistoryEntry{}, err
	}

	metrics.WatchHistoryRecords.Inc()
	return entry, nil
}

// History returns the user's watch history, most recent watch first.
// Both backends store entries oldest first, so the view is reversed
// here rather than in each backend.
func (s *Service) History(ctx context.Context, userID string) ([]models.WatchHistoryEntry, error) {
	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := make([]models.WatchHistoryEntry, len(user.History))
	for i, e := range user.History {
		entries[len(user.History)-1-i] = e
	}
	return entries, nil
}
