// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

// Token revocation. Logout and refresh rotation put the token's jti on
// a deny-list until the token would have expired anyway; after that the
// entry is garbage. The memory store suits single-process deployments,
// the Redis store (revocation_redis.go) shared ones.
package auth

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/videotheca/internal/logging"
	"github.com/tomtom215/videotheca/internal/metrics"
)

// RevocationStore is the deny-list of revoked token IDs.
type RevocationStore interface {
	// Revoke marks a jti revoked until the given expiry. Revoking an
	// already-revoked jti is a no-op.
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error

	// IsRevoked reports whether a jti is currently revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// CleanupExpired removes entries whose tokens have expired.
	// Returns the number of entries removed.
	CleanupExpired(ctx context.Context) (int, error)

	// Size returns the approximate number of tracked entries.
	Size(ctx context.Context) (int, error)

	// Close closes the store and releases resources.
	Close() error
}

// MemoryRevocationStore is an in-memory deny-list. Entries are lost on
// restart, which is acceptable for single-process deployments: tokens
// revoked before a restart were signed with the same secret and simply
// live out their remaining TTL.
type MemoryRevocationStore struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	closed  bool
}

// NewMemoryRevocationStore creates an empty in-memory deny-list.
func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		entries: make(map[string]time.Time),
	}
}

// Revoke marks the jti revoked until expiresAt.
func (s *MemoryRevocationStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrRevocationClosed
	}
	if time.Now().After(expiresAt) {
		// The token is already expired; nothing to deny.
		return nil
	}

	s.entries[jti] = expiresAt
	metrics.RevokedTokensTracked.Set(float64(len(s.entries)))
	return nil
}

// IsRevoked reports whether the jti is on the deny-list.
func (s *MemoryRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, ErrRevocationClosed
	}

	expiresAt, ok := s.entries[jti]
	if !ok {
		return false, nil
	}
	return time.Now().Before(expiresAt), nil
}

// CleanupExpired drops entries for tokens that have expired.
func (s *MemoryRevocationStore) CleanupExpired(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrRevocationClosed
	}

	count := 0
	now := time.Now()
	for jti, expiresAt := range s.entries {
		if now.After(expiresAt) {
			delete(s.entries, jti)
			count++
		}
	}

	metrics.RevokedTokensTracked.Set(float64(len(s.entries)))
	return count, nil
}

// Size returns the number of tracked entries.
func (s *MemoryRevocationStore) Size(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, ErrRevocationClosed
	}
	return len(s.entries), nil
}

// Close closes the store.
func (s *MemoryRevocationStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.entries = nil
	return nil
}

// RunRevocationSweep periodically removes expired deny-list entries
// until ctx is cancelled. It is run as a supervised service; the Redis
// store expires entries natively and its CleanupExpired is a no-op.
func RunRevocationSweep(ctx context.Context, store RevocationStore, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			count, err := store.CleanupExpired(sweepCtx)
			cancel()

			if err != nil {
				logging.Error().Err(err).Msg("Revocation sweep failed")
			} else if count > 0 {
				logging.Debug().Int("count", count).Msg("Revocation sweep completed")
			}

		case <-ctx.Done():
			return
		}
	}
}
