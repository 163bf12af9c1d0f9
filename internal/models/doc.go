// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

/*
Package models defines data structures for the Videotheca application.

This package contains all data models used throughout the application:
stored records, API request/response structures, and the standardized
response envelope. It serves as the single source of truth for data
structure definitions.

Key Components:

  - User: Account record with subscription tier, role, preferences,
    watchlist and watch history
  - Content: Catalog entry (movie or series) with genres and media URLs
  - APIResponse: Standardized API response wrapper
  - Pagination: 1-indexed paging metadata for catalog listings

Stored records carry both json and bson tags: the MongoDB backend
persists them directly, while the Badger backend serializes them as
JSON. PasswordHash, Watchlist and History are excluded from JSON so a
User can be embedded in a response only via its PublicUser projection.
*/
package models
