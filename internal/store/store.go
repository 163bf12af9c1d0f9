// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

// Package store defines the persistence contract shared by the Badger
// and MongoDB backends. Services depend on the Store interface only;
// the backend is chosen once at startup from configuration.
//
// Both implementations provide the same visibility guarantees: a write
// that has returned is observed by every subsequent read through the
// same Store. Neither backend interprets business rules; ordering,
// clamping and role checks belong to the service layer, except where a
// guarantee is cheaper to keep next to the data (watchlist idempotency,
// unique emails).
package store

import (
	"context"

	"github.com/tomtom215/videotheca/internal/models"
)

// ContentFilter narrows a catalog listing. Zero-value fields do not
// filter. Genre matches case-insensitively against the genre list;
// Search matches case-insensitively against title and description.
// Multiple set fields combine with AND.
type ContentFilter struct {
	Type   string
	Genre  string
	Search string
}

// Empty reports whether the filter matches everything.
func (f ContentFilter) Empty() bool {
	return f.Type == "" && f.Genre == "" && f.Search == ""
}

// Page selects a 1-indexed slice of a listing. Callers normalize the
// values before handing them to a Store; backends may assume
// Number >= 1 and Limit >= 1.
type Page struct {
	Number int
	Limit  int
}

// Offset returns the number of records to skip.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// Store is the persistence interface for accounts, catalog entries and
// per-user state.
//
// Error contract: lookups for absent records return ErrUserNotFound or
// ErrContentNotFound; CreateUser returns ErrEmailTaken when the email
// is already registered (compared case-insensitively). All other errors
// are backend faults.
type Store interface {
	// CreateUser persists a new account. The caller assigns ID and
	// timestamps. Fails with ErrEmailTaken when the normalized email
	// is already registered.
	CreateUser(ctx context.Context, user *models.User) error

	// UserByID returns the account with the given ID, including its
	// watchlist and watch history. History entries are ordered oldest
	// watch first; presentation order belongs to the service layer.
	UserByID(ctx context.Context, id string) (*models.User, error)

	// UserByEmail returns the account registered under the email,
	// compared case-insensitively.
	UserByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdateUser replaces the stored account record. Watchlist and
	// History fields are ignored; they change only through the
	// dedicated operations below.
	UpdateUser(ctx context.Context, user *models.User) error

	// CreateContent persists a new catalog entry. The caller assigns
	// ID and timestamps.
	CreateContent(ctx context.Context, content *models.Content) error

	// ContentByID returns the catalog entry with the given ID.
	ContentByID(ctx context.Context, id string) (*models.Content, error)

	// ContentByIDs resolves many IDs at once, preserving the order of
	// ids and silently skipping entries that no longer exist.
	ContentByIDs(ctx context.Context, ids []string) ([]models.Content, error)

	// UpdateContent replaces the stored catalog entry.
	UpdateContent(ctx context.Context, content *models.Content) error

	// DeleteContent removes the catalog entry. Watchlist references
	// held by users are left in place and resolved lazily on read.
	DeleteContent(ctx context.Context, id string) error

	// ListContent returns one page of entries matching the filter,
	// newest first (created_at descending, ID ascending on ties),
	// plus the total match count across all pages.
	ListContent(ctx context.Context, filter ContentFilter, page Page) ([]models.Content, int64, error)

	// ContentByAnyGenre returns every entry carrying at least one of
	// the genres, compared case-insensitively, in no particular order.
	ContentByAnyGenre(ctx context.Context, genres []string) ([]models.Content, error)

	// AddToWatchlist appends the content ID to the user's watchlist.
	// Adding an ID already on the list is a no-op. The content must
	// exist at add time.
	AddToWatchlist(ctx context.Context, userID, contentID string) error

	// RemoveFromWatchlist drops the content ID from the user's
	// watchlist. Removing an absent ID is a no-op.
	RemoveFromWatchlist(ctx context.Context, userID, contentID string) error

	// Watchlist returns the user's content IDs in insertion order.
	Watchlist(ctx context.Context, userID string) ([]string, error)

	// RecordWatch upserts a watch-history entry for the user, keyed by
	// content ID. A re-watch replaces the previous entry.
	RecordWatch(ctx context.Context, userID string, entry models.WatchHistoryEntry) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources. The Store is unusable after.
	Close() error
}
