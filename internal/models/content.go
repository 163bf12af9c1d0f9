// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package models

import (
	"strings"
	"time"
)

// Content types.
const (
	ContentTypeMovie  = "movie"
	ContentTypeSeries = "series"
)

// Content is a catalog entry. Duration is a free-form display string
// ("2h 28m", "3 Seasons") because series and films measure length in
// incompatible units. Genres are matched case-insensitively but stored
// as submitted.
type Content struct {
	ID           string    `json:"id" bson:"_id"`
	Title        string    `json:"title" bson:"title"`
	Description  string    `json:"description" bson:"description"`
	Type         string    `json:"type" bson:"type"`
	Genres       []string  `json:"genre" bson:"genre"`
	ReleaseYear  int       `json:"release_year" bson:"release_year"`
	Rating       float64   `json:"rating" bson:"rating"`
	Duration     string    `json:"duration" bson:"duration"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty" bson:"thumbnail_url,omitempty"`
	VideoURL     string    `json:"video_url,omitempty" bson:"video_url,omitempty"`
	TrailerURL   string    `json:"trailer_url,omitempty" bson:"trailer_url,omitempty"`
	Cast         []string  `json:"cast,omitempty" bson:"cast,omitempty"`
	Director     string    `json:"director,omitempty" bson:"director,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// ValidContentType reports whether s is a known content type.
func ValidContentType(s string) bool {
	switch s {
	case ContentTypeMovie, ContentTypeSeries:
		return true
	}
	return false
}

// HasGenre reports whether c carries the genre, compared
// case-insensitively.
func (c *Content) HasGenre(genre string) bool {
	for _, g := range c.Genres {
		if strings.EqualFold(g, genre) {
			return true
		}
	}
	return false
}

// MatchesSearch reports whether the query occurs case-insensitively in
// the title or description. An empty query matches everything.
func (c *Content) MatchesSearch(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(c.Title), q) ||
		strings.Contains(strings.ToLower(c.Description), q)
}
