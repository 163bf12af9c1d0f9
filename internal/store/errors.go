// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package store

import "errors"

// Sentinel errors shared by all backends. Services map these to the
// API error taxonomy; anything else surfaces as INTERNAL_ERROR.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrContentNotFound = errors.New("content not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrClosed          = errors.New("store is closed")
)
