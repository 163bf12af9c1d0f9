// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tomtom215/videotheca/internal/models"
	"github.com/tomtom215/videotheca/internal/store"
)

// CreateContent inserts the catalog entry.
func (s *Store) CreateContent(ctx context.Context, content *models.Content) error {
	if _, err := s.content.InsertOne(ctx, content); err != nil {
		return fmt.Errorf("insert content: %w", err)
	}
	return nil
}

// ContentByID returns the catalog entry with the given ID.
func (s *Store) ContentByID(ctx context.Context, id string) (*models.Content, error) {
	var content models.Content
	err := s.content.FindOne(ctx, bson.M{"_id": id}).Decode(&content)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrContentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find content: %w", err)
	}
	return &content, nil
}

// ContentByIDs fetches the IDs in one query and restores the caller's
// order, skipping entries that no longer exist.
func (s *Store) ContentByIDs(ctx context.Context, ids []string) ([]models.Content, error) {
	if len(ids) == 0 {
		return []models.Content{}, nil
	}

	cur, err := s.content.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find content batch: %w", err)
	}
	defer cur.Close(ctx)

	var found []models.Content
	if err := cur.All(ctx, &found); err != nil {
		return nil, fmt.Errorf("decode content batch: %w", err)
	}

	byID := make(map[string]models.Content, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}

	items := make([]models.Content, 0, len(found))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			items = append(items, c)
		}
	}
	return items, nil
}

// UpdateContent replaces the stored catalog entry.
func (s *Store) UpdateContent(ctx context.Context, content *models.Content) error {
	res, err := s.content.ReplaceOne(ctx, bson.M{"_id": content.ID}, content)
	if err != nil {
		return fmt.Errorf("replace content: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrContentNotFound
	}
	return nil
}

// DeleteContent removes the catalog entry. Watchlist references held
// in user documents are left in place and resolved lazily on read.
func (s *Store) DeleteContent(ctx context.Context, id string) error {
	res, err := s.content.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrContentNotFound
	}
	return nil
}

// ListContent pushes filtering, counting, sorting and paging into the
// server.
func (s *Store) ListContent(ctx context.Context, filter store.ContentFilter, page store.Page) ([]models.Content, int64, error) {
	query := buildFilter(filter)

	total, err := s.content.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count content: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Limit))

	cur, err := s.content.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find content: %w", err)
	}
	defer cur.Close(ctx)

	items := []models.Content{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("decode content: %w", err)
	}
	return items, total, nil
}

// ContentByAnyGenre returns entries carrying at least one of the
// genres.
func (s *Store) ContentByAnyGenre(ctx context.Context, genres []string) ([]models.Content, error) {
	if len(genres) == 0 {
		return []models.Content{}, nil
	}

	ors := make([]bson.M, len(genres))
	for i, g := range genres {
		ors[i] = bson.M{"genre": exactFold(g)}
	}

	cur, err := s.content.Find(ctx, bson.M{"$or": ors})
	if err != nil {
		return nil, fmt.Errorf("find content by genre: %w", err)
	}
	defer cur.Close(ctx)

	var items []models.Content
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode content by genre: %w", err)
	}
	return items, nil
}

// buildFilter translates a ContentFilter into a query document. Set
// fields AND together.
func buildFilter(f store.ContentFilter) bson.M {
	query := bson.M{}
	if f.Type != "" {
		query["type"] = f.Type
	}
	if f.Genre != "" {
		query["genre"] = exactFold(f.Genre)
	}
	if f.Search != "" {
		contains := bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
		query["$or"] = []bson.M{
			{"title": contains},
			{"description": contains},
		}
	}
	return query
}

// exactFold matches a whole string case-insensitively. Against an
// array field it matches when any element does.
func exactFold(s string) bson.M {
	return bson.M{"$regex": "^" + regexp.QuoteMeta(s) + "$", "$options": "i"}
}
