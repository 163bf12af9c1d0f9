// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package services

import (
	"context"
	"time"

	"github.com/tomtom215/videotheca/internal/auth"
)

// JanitorService periodically drops expired entries from the token
// revocation deny-list. Only the memory store needs sweeping; the Redis
// store expires entries natively, so its sweep is a no-op.
type JanitorService struct {
	store    auth.RevocationStore
	interval time.Duration
}

// NewJanitorService creates the revocation janitor.
func NewJanitorService(store auth.RevocationStore, interval time.Duration) *JanitorService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &JanitorService{store: store, interval: interval}
}

// Serve implements suture.Service.
func (s *JanitorService) Serve(ctx context.Context) error {
	auth.RunRevocationSweep(ctx, s.store, s.interval)
	return ctx.Err()
}

// String identifies the service in supervisor logs.
func (s *JanitorService) String() string {
	return "revocation-janitor"
}
