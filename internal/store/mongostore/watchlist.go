// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tomtom215/videotheca/internal/models"
	"github.com/tomtom215/videotheca/internal/store"
)

// AddToWatchlist appends the content ID with $addToSet, which keeps
// both idempotency and insertion order inside the server.
func (s *Store) AddToWatchlist(ctx context.Context, userID, contentID string) error {
	n, err := s.content.CountDocuments(ctx, bson.M{"_id": contentID})
	if err != nil {
		return fmt.Errorf("check content: %w", err)
	}
	if n == 0 {
		return store.ErrContentNotFound
	}

	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"my_list": contentID}},
	)
	if err != nil {
		return fmt.Errorf("add to watchlist: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrUserNotFound
	}
	return nil
}

// RemoveFromWatchlist pulls the content ID; pulling an absent value
// matches the user document and changes nothing, which is the wanted
// no-op.
func (s *Store) RemoveFromWatchlist(ctx context.Context, userID, contentID string) error {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"my_list": contentID}},
	)
	if err != nil {
		return fmt.Errorf("remove from watchlist: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrUserNotFound
	}
	return nil
}

// Watchlist projects just the list out of the user document.
func (s *Store) Watchlist(ctx context.Context, userID string) ([]string, error) {
	var doc struct {
		Watchlist []string `bson:"my_list"`
	}

	opts := options.FindOne().SetProjection(bson.M{"my_list": 1})
	err := s.users.FindOne(ctx, bson.M{"_id": userID}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find watchlist: %w", err)
	}

	if doc.Watchlist == nil {
		return []string{}, nil
	}
	return doc.Watchlist, nil
}

// RecordWatch replaces any previous entry for the content and appends
// the new one, so the array stays ordered oldest watch first.
func (s *Store) RecordWatch(ctx context.Context, userID string, entry models.WatchHistoryEntry) error {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"watch_history": bson.M{"content_id": entry.ContentID}}},
	)
	if err != nil {
		return fmt.Errorf("clear history entry: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrUserNotFound
	}

	_, err = s.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$push": bson.M{"watch_history": entry}},
	)
	if err != nil {
		return fmt.Errorf("append history entry: %w", err)
	}
	return nil
}
