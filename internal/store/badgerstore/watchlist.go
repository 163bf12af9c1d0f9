// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/videotheca/internal/models"
	"github.com/tomtom215/videotheca/internal/store"
)

// addedAtLayout is RFC3339 UTC with a fixed nine-digit fraction, so
// stored values sort lexicographically in chronological order.
const addedAtLayout = "2006-01-02T15:04:05.000000000Z"

// AddToWatchlist records the content on the user's list. Both records
// must exist; re-adding keeps the original position.
func (s *Store) AddToWatchlist(ctx context.Context, userID, contentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addedAt := time.Now().UTC().Format(addedAtLayout)

	return s.update(func(txn *badger.Txn) error {
		if ok, err := exists(txn, userKey(userID)); err != nil {
			return err
		} else if !ok {
			return store.ErrUserNotFound
		}
		if ok, err := exists(txn, contentKey(contentID)); err != nil {
			return err
		} else if !ok {
			return store.ErrContentNotFound
		}

		key := watchlistKey(userID, contentID)
		if ok, err := exists(txn, key); err != nil {
			return err
		} else if ok {
			return nil // already on the list
		}
		if err := txn.Set(key, []byte(addedAt)); err != nil {
			return fmt.Errorf("set watchlist entry: %w", err)
		}
		return nil
	})
}

// RemoveFromWatchlist drops the content from the user's list. Removing
// something never added is a no-op.
func (s *Store) RemoveFromWatchlist(ctx context.Context, userID, contentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.update(func(txn *badger.Txn) error {
		if ok, err := exists(txn, userKey(userID)); err != nil {
			return err
		} else if !ok {
			return store.ErrUserNotFound
		}

		err := txn.Delete(watchlistKey(userID, contentID))
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete watchlist entry: %w", err)
		}
		return nil
	})
}

// Watchlist returns the user's content IDs in the order they were
// added.
func (s *Store) Watchlist(ctx context.Context, userID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		if ok, err := exists(txn, userKey(userID)); err != nil {
			return err
		} else if !ok {
			return store.ErrUserNotFound
		}

		var err error
		ids, err = loadWatchlist(txn, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// RecordWatch upserts the history entry for the content.
func (s *Store) RecordWatch(ctx context.Context, userID string, entry models.WatchHistoryEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(&entry)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}

	return s.update(func(txn *badger.Txn) error {
		if ok, err := exists(txn, userKey(userID)); err != nil {
			return err
		} else if !ok {
			return store.ErrUserNotFound
		}
		if err := txn.Set(historyKey(userID, entry.ContentID), data); err != nil {
			return fmt.Errorf("set history entry: %w", err)
		}
		return nil
	})
}
