// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

// Package recommend computes genre-overlap recommendations: titles that
// share genres with the user's watchlist, minus the watchlist itself.
package recommend

import (
	"context"
	"sort"
	"strings"

	"github.com/tomtom215/videotheca/internal/metrics"
	"github.com/tomtom215/videotheca/internal/models"
	"github.com/tomtom215/videotheca/internal/store"
)

// Engine ranks catalog entries against a user's watchlist genres.
type Engine struct {
	store store.Store
	limit int
}

// New creates an engine returning at most limit items per query.
func New(st store.Store, limit int) *Engine {
	return &Engine{store: st, limit: limit}
}

// scored pairs a candidate with its genre overlap count.
type scored struct {
	content models.Content
	overlap int
}

// ForUser returns recommendations for the user, ranked by the number of
// distinct watchlist genres shared, ties broken newest first, then by
// ID so equal inputs always produce the same order. An empty watchlist
// yields an empty list, not an error.
//
// Items on the watchlist are never recommended, including entries whose
// content has been deleted (those contribute no genres either).
func (e *Engine) ForUser(ctx context.Context, userID string) ([]models.Content, error) {
	watchlistIDs, err := e.store.Watchlist(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(watchlistIDs) == 0 {
		metrics.RecordRecommendation(0)
		return []models.Content{}, nil
	}

	watched, err := e.store.ContentByIDs(ctx, watchlistIDs)
	if err != nil {
		return nil, err
	}

	genres := distinctGenres(watched)
	if len(genres) == 0 {
		metrics.RecordRecommendation(0)
		return []models.Content{}, nil
	}

	candidates, err := e.store.ContentByAnyGenre(ctx, genres)
	if err != nil {
		return nil, err
	}

	onList := make(map[string]bool, len(watchlistIDs))
	for _, id := range watchlistIDs {
		onList[id] = true
	}

	genreSet := make(map[string]bool, len(genres))
	for _, g := range genres {
		genreSet[strings.ToLower(g)] = true
	}

	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if onList[c.ID] {
			continue
		}
		if n := overlapCount(&c, genreSet); n > 0 {
			ranked = append(ranked, scored{content: c, overlap: n})
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].overlap != ranked[j].overlap {
			return ranked[i].overlap > ranked[j].overlap
		}
		if !ranked[i].content.CreatedAt.Equal(ranked[j].content.CreatedAt) {
			return ranked[i].content.CreatedAt.After(ranked[j].content.CreatedAt)
		}
		return ranked[i].content.ID < ranked[j].content.ID
	})

	if len(ranked) > e.limit {
		ranked = ranked[:e.limit]
	}

	results := make([]models.Content, len(ranked))
	for i, r := range ranked {
		results[i] = r.content
	}

	metrics.RecordRecommendation(len(results))
	return results, nil
}

// distinctGenres collects the genres of the watched titles, first
// occurrence wins on case.
func distinctGenres(watched []models.Content) []string {
	seen := make(map[string]bool)
	var genres []string
	for _, c := range watched {
		for _, g := range c.Genres {
			key := strings.ToLower(g)
			if !seen[key] {
				seen[key] = true
				genres = append(genres, g)
			}
		}
	}
	return genres
}

// overlapCount counts how many distinct watchlist genres the candidate
// carries.
func overlapCount(c *models.Content, genreSet map[string]bool) int {
	counted := make(map[string]bool, len(c.Genres))
	n := 0
	for _, g := range c.Genres {
		key := strings.ToLower(g)
		if genreSet[key] && !counted[key] {
			counted[key] = true
			n++
		}
	}
	return n
}
