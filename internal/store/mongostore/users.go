// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package mongostore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tomtom215/videotheca/internal/models"
	"github.com/tomtom215/videotheca/internal/store"
)

// userDoc wraps the account record with the lowercased email the
// unique index is built on.
type userDoc struct {
	models.User `bson:",inline"`
	EmailLower  string `bson:"email_lower"`
}

func normEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser inserts the account. The unique index on email_lower
// turns concurrent same-email registrations into ErrEmailTaken.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	doc := userDoc{User: *user, EmailLower: normEmail(user.Email)}
	// Embedded arrays must exist for $addToSet and $push to work.
	if doc.User.Watchlist == nil {
		doc.User.Watchlist = []string{}
	}
	if doc.User.History == nil {
		doc.User.History = []models.WatchHistoryEntry{}
	}

	_, err := s.users.InsertOne(ctx, &doc)
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// UserByID returns the full account document.
func (s *Store) UserByID(ctx context.Context, id string) (*models.User, error) {
	var doc userDoc
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &doc.User, nil
}

// UserByEmail resolves the normalized address.
func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var doc userDoc
	err := s.users.FindOne(ctx, bson.M{"email_lower": normEmail(email)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &doc.User, nil
}

// UpdateUser rewrites the account fields without touching the embedded
// watchlist and history arrays.
func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	update := bson.M{"$set": bson.M{
		"email":        user.Email,
		"email_lower":  normEmail(user.Email),
		"name":         user.Name,
		"password":     user.PasswordHash,
		"subscription": user.Subscription,
		"role":         user.Role,
		"preferences":  user.Preferences,
		"is_active":    user.Active,
		"updated_at":   user.UpdatedAt,
	}}

	res, err := s.users.UpdateOne(ctx, bson.M{"_id": user.ID}, update)
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrUserNotFound
	}
	return nil
}
