// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

// Package mongostore implements the store.Store contract on MongoDB.
// It is the backend for multi-instance deployments where several
// Videotheca processes share one catalog.
//
// Collections:
//
//	users    one document per account; the watchlist and watch history
//	         are embedded arrays so list mutations are single-document
//	         atomic operations
//	content  one document per catalog entry
//
// IDs are UUID strings stored directly in _id. Email uniqueness is a
// unique index on email_lower, the lowercased and trimmed form kept
// alongside the address as registered.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tomtom215/videotheca/internal/config"
	"github.com/tomtom215/videotheca/internal/logging"
	"github.com/tomtom215/videotheca/internal/store"
)

const (
	usersCollection   = "users"
	contentCollection = "content"

	disconnectTimeout = 5 * time.Second
)

// Store is a MongoDB-backed implementation of store.Store.
type Store struct {
	client  *mongo.Client
	users   *mongo.Collection
	content *mongo.Collection
}

var _ store.Store = (*Store)(nil)

// New connects to the deployment described by cfg, verifies the
// connection and ensures indexes.
func New(ctx context.Context, cfg *config.MongoConfig) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetTimeout(cfg.Timeout)

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		disconnect(client)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(cfg.Database)
	s := &Store{
		client:  client,
		users:   db.Collection(usersCollection),
		content: db.Collection(contentCollection),
	}

	if err := s.ensureIndexes(connectCtx); err != nil {
		disconnect(client)
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	logging.Info().
		Str("database", cfg.Database).
		Msg("Connected to MongoDB")
	return s, nil
}

// ensureIndexes creates the indexes the queries rely on. CreateMany is
// idempotent for identical definitions.
func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email_lower", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}

	_, err = s.content.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "type", Value: 1}}},
		{Keys: bson.D{{Key: "genre", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("content indexes: %w", err)
	}
	return nil
}

// Ping verifies the deployment is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects from the deployment.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func disconnect(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		logging.Warn().Err(err).Msg("Failed to disconnect from MongoDB")
	}
}
