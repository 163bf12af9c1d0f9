// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

// Package badgerstore implements the store.Store contract on an
// embedded BadgerDB. It is the default backend: zero external
// dependencies, one directory on disk, or fully in-memory for tests
// and ephemeral deployments.
//
// Key layout (all IDs are UUID strings, so ':' never appears inside a
// component):
//
//	user:<id>                      account record (JSON)
//	user_email:<lowercased email>  account ID owning the address
//	watchlist:<userID>:<contentID> RFC3339Nano added-at timestamp
//	history:<userID>:<contentID>   watch-history entry (JSON)
//	content:<id>                   catalog entry (JSON)
//
// Catalog listings scan the content prefix and filter in process. A
// listing needs the full match set anyway for its total count and
// created_at ordering, so secondary indexes would only add write-path
// bookkeeping without removing the scan.
package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/videotheca/internal/config"
	"github.com/tomtom215/videotheca/internal/logging"
	"github.com/tomtom215/videotheca/internal/store"
)

// Key prefixes. Components are joined with ':'.
const (
	userKeyPrefix      = "user:"
	userEmailKeyPrefix = "user_email:"
	watchlistKeyPrefix = "watchlist:"
	historyKeyPrefix   = "history:"
	contentKeyPrefix   = "content:"
)

// Store is a BadgerDB-backed implementation of store.Store.
type Store struct {
	db       *badger.DB
	inMemory bool
}

var _ store.Store = (*Store)(nil)

// New opens the database described by cfg. The parent directory is
// created when missing. Pass InMemory to run without any files.
func New(cfg *config.BadgerConfig) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		// Use 0750 permissions (owner: rwx, group: rx, other: none) per gosec G301
		dir := filepath.Dir(cfg.Path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("create badger directory %s: %w", dir, err)
			}
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	return &Store{db: db, inMemory: cfg.InMemory}, nil
}

// NewFromDB wraps an already opened BadgerDB. The caller keeps
// ownership of the handle; Close still closes it.
func NewFromDB(db *badger.DB) *Store {
	return &Store{db: db, inMemory: db.Opts().InMemory}
}

// Ping verifies the database is open.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db.IsClosed() {
		return store.ErrClosed
	}
	return nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	if s.db.IsClosed() {
		return nil
	}
	return s.db.Close()
}

// RunGC rewrites value log files with at least half their space
// reclaimable. Badger recommends calling this periodically; the
// supervisor runs it on the configured interval. A pass that finds
// nothing to rewrite is not an error.
func (s *Store) RunGC() error {
	if s.db.IsClosed() {
		return store.ErrClosed
	}
	if s.inMemory {
		return nil // no value log to rewrite
	}
	err := s.db.RunValueLogGC(0.5)
	if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrRejected) {
		return nil
	}
	if err != nil {
		logging.Warn().Err(err).Msg("Badger value log GC failed")
	}
	return err
}

// userKey and friends build the byte keys for each record family.
func userKey(id string) []byte {
	return []byte(userKeyPrefix + id)
}

func userEmailKey(normalizedEmail string) []byte {
	return []byte(userEmailKeyPrefix + normalizedEmail)
}

func watchlistKey(userID, contentID string) []byte {
	return []byte(watchlistKeyPrefix + userID + ":" + contentID)
}

func watchlistPrefix(userID string) []byte {
	return []byte(watchlistKeyPrefix + userID + ":")
}

func historyKey(userID, contentID string) []byte {
	return []byte(historyKeyPrefix + userID + ":" + contentID)
}

func historyPrefix(userID string) []byte {
	return []byte(historyKeyPrefix + userID + ":")
}

func contentKey(id string) []byte {
	return []byte(contentKeyPrefix + id)
}

// getJSON reads and unmarshals the value at key inside txn, mapping a
// missing key to notFound.
func getJSON(txn *badger.Txn, key []byte, dest interface{}, notFound error) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return notFound
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, dest)
	})
}

// exists reports whether key is present inside txn.
func exists(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	return true, nil
}
