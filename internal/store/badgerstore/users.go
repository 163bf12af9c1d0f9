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
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/videotheca/internal/models"
	"github.com/tomtom215/videotheca/internal/store"
)

// userRecord is the stored shape of an account. models.User hides the
// password hash from JSON, so the record carries its own tags. The
// watchlist and history live in their own key families and are never
// part of this value.
type userRecord struct {
	ID           string             `json:"id"`
	Email        string             `json:"email"`
	Name         string             `json:"name"`
	PasswordHash string             `json:"password"`
	Subscription string             `json:"subscription"`
	Role         string             `json:"role"`
	Preferences  models.Preferences `json:"preferences"`
	Active       bool               `json:"is_active"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func toUserRecord(u *models.User) *userRecord {
	return &userRecord{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Subscription: u.Subscription,
		Role:         u.Role,
		Preferences:  u.Preferences,
		Active:       u.Active,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r *userRecord) toUser() *models.User {
	return &models.User{
		ID:           r.ID,
		Email:        r.Email,
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		Subscription: r.Subscription,
		Role:         r.Role,
		Preferences:  r.Preferences,
		Active:       r.Active,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func normEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// update runs fn in a read-write transaction, retrying transient
// serialization conflicts caused by concurrent writers.
func (s *Store) update(fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

// CreateUser persists a new account and claims its email atomically.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(toUserRecord(user))
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	emailKey := userEmailKey(normEmail(user.Email))

	return s.update(func(txn *badger.Txn) error {
		taken, err := exists(txn, emailKey)
		if err != nil {
			return err
		}
		if taken {
			return store.ErrEmailTaken
		}
		if err := txn.Set(emailKey, []byte(user.ID)); err != nil {
			return fmt.Errorf("set email index: %w", err)
		}
		if err := txn.Set(userKey(user.ID), data); err != nil {
			return fmt.Errorf("set user: %w", err)
		}
		return nil
	})
}

// UserByID returns the account plus its watchlist and history, all
// read from one snapshot.
func (s *Store) UserByID(ctx context.Context, id string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var user *models.User
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		user, err = loadUser(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UserByEmail resolves the email index and loads the account.
func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var user *models.User
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userEmailKey(normEmail(email)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return store.ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("get email index: %w", err)
		}

		var id string
		if err := item.Value(func(val []byte) error {
			id = string(val)
			return nil
		}); err != nil {
			return err
		}

		user, err = loadUser(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser replaces the account record. When the email changed, the
// index entry moves with it; the new address must be free.
func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(toUserRecord(user))
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	return s.update(func(txn *badger.Txn) error {
		var existing userRecord
		if err := getJSON(txn, userKey(user.ID), &existing, store.ErrUserNotFound); err != nil {
			return err
		}

		oldEmail, newEmail := normEmail(existing.Email), normEmail(user.Email)
		if oldEmail != newEmail {
			taken, err := exists(txn, userEmailKey(newEmail))
			if err != nil {
				return err
			}
			if taken {
				return store.ErrEmailTaken
			}
			if err := txn.Delete(userEmailKey(oldEmail)); err != nil {
				return fmt.Errorf("delete email index: %w", err)
			}
			if err := txn.Set(userEmailKey(newEmail), []byte(user.ID)); err != nil {
				return fmt.Errorf("set email index: %w", err)
			}
		}

		if err := txn.Set(userKey(user.ID), data); err != nil {
			return fmt.Errorf("set user: %w", err)
		}
		return nil
	})
}

// loadUser reads the account record and both per-user key families
// within txn.
func loadUser(txn *badger.Txn, id string) (*models.User, error) {
	var rec userRecord
	if err := getJSON(txn, userKey(id), &rec, store.ErrUserNotFound); err != nil {
		return nil, err
	}

	user := rec.toUser()

	watchlist, err := loadWatchlist(txn, id)
	if err != nil {
		return nil, err
	}
	user.Watchlist = watchlist

	history, err := loadHistory(txn, id)
	if err != nil {
		return nil, err
	}
	user.History = history

	return user, nil
}

// loadWatchlist returns content IDs ordered by when they were added.
func loadWatchlist(txn *badger.Txn, userID string) ([]string, error) {
	type entry struct {
		contentID string
		addedAt   string
	}
	var entries []entry

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = true
	it := txn.NewIterator(opts)
	defer it.Close()

	prefix := watchlistPrefix(userID)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		contentID := strings.TrimPrefix(string(item.Key()), string(prefix))

		var addedAt string
		if err := item.Value(func(val []byte) error {
			addedAt = string(val)
			return nil
		}); err != nil {
			return nil, err
		}
		entries = append(entries, entry{contentID: contentID, addedAt: addedAt})
	}

	// Values use the fixed-width addedAtLayout, so lexicographic
	// order is chronological order.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].addedAt != entries[j].addedAt {
			return entries[i].addedAt < entries[j].addedAt
		}
		return entries[i].contentID < entries[j].contentID
	})

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.contentID
	}
	return ids, nil
}

// loadHistory returns watch-history entries, oldest watch first.
func loadHistory(txn *badger.Txn, userID string) ([]models.WatchHistoryEntry, error) {
	var entries []models.WatchHistoryEntry

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = true
	it := txn.NewIterator(opts)
	defer it.Close()

	prefix := historyPrefix(userID)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var e models.WatchHistoryEntry
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &e)
		}); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].WatchedAt.Equal(entries[j].WatchedAt) {
			return entries[i].WatchedAt.Before(entries[j].WatchedAt)
		}
		return entries[i].ContentID < entries[j].ContentID
	})
	return entries, nil
}
