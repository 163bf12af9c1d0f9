// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package services

import (
	"context"
	"time"

	"github.com/tomtom215/videotheca/internal/logging"
)

// GarbageCollector is the slice of the badger store the GC service
// needs.
type GarbageCollector interface {
	RunGC() error
}

// BadgerGCService periodically rewrites badger value-log files to
// reclaim space. Only mounted when the badger backend is selected and
// persistent.
type BadgerGCService struct {
	store    GarbageCollector
	interval time.Duration
}

// NewBadgerGCService creates the value-log GC loop.
func NewBadgerGCService(store GarbageCollector, interval time.Duration) *BadgerGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &BadgerGCService{store: store, interval: interval}
}

// Serve implements suture.Service.
func (s *BadgerGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// RunGC treats nothing-to-rewrite as success and logs its
			// own failures; an error here is only worth a debug trace.
			if err := s.store.RunGC(); err != nil {
				logging.Debug().Err(err).Msg("Badger GC pass returned error")
			}

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// String identifies the service in supervisor logs.
func (s *BadgerGCService) String() string {
	return "badger-gc"
}
