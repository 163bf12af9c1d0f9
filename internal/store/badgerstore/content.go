// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/videotheca/internal/models"
	"github.com/tomtom215/videotheca/internal/store"
)

// CreateContent persists a new catalog entry.
func (s *Store) CreateContent(ctx context.Context, content *models.Content) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("marshal content: %w", err)
	}

	return s.update(func(txn *badger.Txn) error {
		if err := txn.Set(contentKey(content.ID), data); err != nil {
			return fmt.Errorf("set content: %w", err)
		}
		return nil
	})
}

// ContentByID returns the catalog entry with the given ID.
func (s *Store) ContentByID(ctx context.Context, id string) (*models.Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var content models.Content
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, contentKey(id), &content, store.ErrContentNotFound)
	})
	if err != nil {
		return nil, err
	}
	return &content, nil
}

// ContentByIDs resolves the IDs in order, skipping ones that no longer
// exist. All reads share one snapshot.
func (s *Store) ContentByIDs(ctx context.Context, ids []string) ([]models.Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items := make([]models.Content, 0, len(ids))
	err := s.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			var content models.Content
			err := getJSON(txn, contentKey(id), &content, badger.ErrKeyNotFound)
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			items = append(items, content)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateContent replaces the stored catalog entry.
func (s *Store) UpdateContent(ctx context.Context, content *models.Content) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("marshal content: %w", err)
	}

	return s.update(func(txn *badger.Txn) error {
		if ok, err := exists(txn, contentKey(content.ID)); err != nil {
			return err
		} else if !ok {
			return store.ErrContentNotFound
		}
		if err := txn.Set(contentKey(content.ID), data); err != nil {
			return fmt.Errorf("set content: %w", err)
		}
		return nil
	})
}

// DeleteContent removes the catalog entry. Watchlist entries pointing
// at it stay behind and are skipped when lists resolve.
func (s *Store) DeleteContent(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.update(func(txn *badger.Txn) error {
		if ok, err := exists(txn, contentKey(id)); err != nil {
			return err
		} else if !ok {
			return store.ErrContentNotFound
		}
		if err := txn.Delete(contentKey(id)); err != nil {
			return fmt.Errorf("delete content: %w", err)
		}
		return nil
	})
}

// ListContent scans the catalog, filters in process and returns one
// page plus the total match count.
func (s *Store) ListContent(ctx context.Context, filter store.ContentFilter, page store.Page) ([]models.Content, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	matches, err := s.scanContent(func(c *models.Content) bool {
		return matchesFilter(c, filter)
	})
	if err != nil {
		return nil, 0, err
	}

	sortNewestFirst(matches)
	total := int64(len(matches))

	offset := page.Offset()
	if offset >= len(matches) {
		return []models.Content{}, total, nil
	}
	end := offset + page.Limit
	if end > len(matches) {
		end = len(matches)
	}
	return matches[offset:end], total, nil
}

// ContentByAnyGenre returns entries carrying at least one of the
// genres.
func (s *Store) ContentByAnyGenre(ctx context.Context, genres []string) ([]models.Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(genres) == 0 {
		return []models.Content{}, nil
	}

	return s.scanContent(func(c *models.Content) bool {
		for _, g := range genres {
			if c.HasGenre(g) {
				return true
			}
		}
		return false
	})
}

// scanContent walks the content prefix and collects entries accepted
// by keep.
func (s *Store) scanContent(keep func(*models.Content) bool) ([]models.Content, error) {
	var items []models.Content

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(contentKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var content models.Content
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &content)
			}); err != nil {
				return err
			}
			if keep == nil || keep(&content) {
				items = append(items, content)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func matchesFilter(c *models.Content, f store.ContentFilter) bool {
	if f.Type != "" && c.Type != f.Type {
		return false
	}
	if f.Genre != "" && !c.HasGenre(f.Genre) {
		return false
	}
	if f.Search != "" && !c.MatchesSearch(f.Search) {
		return false
	}
	return true
}

// sortNewestFirst orders by created_at descending, breaking ties on ID
// ascending so pagination is stable. The recommendation engine breaks
// ties the same way.
func sortNewestFirst(items []models.Content) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
}
