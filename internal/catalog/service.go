// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

// Package catalog implements content listing, lookup and mutation.
// Pagination normalization lives here so both storage backends see only
// well-formed page requests.
package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/videotheca/internal/config"
	"github.com/tomtom215/videotheca/internal/logging"
	"github.com/tomtom215/videotheca/internal/metrics"
	"github.com/tomtom215/videotheca/internal/models"
	"github.com/tomtom215/videotheca/internal/store"
)

// Catalog change events pushed to websocket subscribers.
const (
	EventContentCreated = "content_created"
	EventContentUpdated = "content_updated"
	EventContentDeleted = "content_deleted"
)

// EventPublisher receives catalog change notifications. The websocket
// hub implements it; a nil publisher disables the feed.
type EventPublisher interface {
	BroadcastContentEvent(event string, content *models.Content)
}

// Service owns the catalog.
type Service struct {
	store  store.Store
	cfg    *config.APIConfig
	events EventPublisher
}

// New creates the catalog service. events may be nil.
func New(st store.Store, cfg *config.APIConfig, events EventPublisher) *Service {
	return &Service{store: st, cfg: cfg, events: events}
}

// NormalizePage clamps client-supplied pagination: page and limit below
// 1 become 1 and the default page size, a limit above the maximum is
// capped. Out-of-range values are never an error.
func (s *Service) NormalizePage(page, limit int) store.Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = s.cfg.DefaultPageSize
	}
	if limit > s.cfg.MaxPageSize {
		limit = s.cfg.MaxPageSize
	}
	return store.Page{Number: page, Limit: limit}
}

// List returns one page of the catalog matching the filter, newest
// first, with pagination metadata. A page past the end yields an empty
// item list with the true total.
func (s *Service) List(ctx context.Context, filter store.ContentFilter, page, limit int) (*models.PaginatedContent, error) {
	p := s.NormalizePage(page, limit)

	items, total, err := s.store.ListContent(ctx, filter, p)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Content{}
	}

	metrics.CatalogOperations.WithLabelValues("list").Inc()
	return &models.PaginatedContent{
		Items: items,
		Pagination: models.Pagination{
			Page:  p.Number,
			Limit: p.Limit,
			Total: total,
			Pages: pageCount(total, p.Limit),
		},
	}, nil
}

// ByGenre returns one page of entries carrying the genre, compared
// case-insensitively.
func (s *Service) ByGenre(ctx context.Context, genre string, page, limit int) (*models.PaginatedContent, error) {
	result, err := s.List(ctx, store.ContentFilter{Genre: genre}, page, limit)
	if err != nil {
		return nil, err
	}
	metrics.CatalogOperations.WithLabelValues("by_genre").Inc()
	return result, nil
}

// Get returns one catalog entry.
func (s *Service) Get(ctx context.Context, id string) (*models.Content, error) {
	content, err := s.store.ContentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	metrics.CatalogOperations.WithLabelValues("get").Inc()
	return content, nil
}

// Create adds a catalog entry from a validated request and announces it
// on the event feed.
func (s *Service) Create(ctx context.Context, req *models.ContentCreateRequest) (*models.Content, error) {
	now := time.Now().UTC()
	content := &models.Content{
		ID:           uuid.New().String(),
		Title:        req.Title,
		Description:  req.Description,
		Type:         req.Type,
		Genres:       req.Genres,
		ReleaseYear:  req.ReleaseYear,
		Rating:       req.Rating,
		Duration:     req.Duration,
		ThumbnailURL: req.ThumbnailURL,
		VideoURL:     req.VideoURL,
		TrailerURL:   req.TrailerURL,
		Cast:         req.Cast,
		Director:     req.Director,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateContent(ctx, content); err != nil {
		return nil, err
	}

	metrics.CatalogOperations.WithLabelValues("create").Inc()
	metrics.CatalogSize.Inc()
	s.publish(EventContentCreated, content)
	logging.Ctx(ctx).Info().
		Str("content_id", content.ID).
		Str("title", content.Title).
		Msg("Content created")
	return content, nil
}

// Update overlays a patch onto the stored entry. Fields absent from the
// patch keep their stored values. A patch that changes nothing still
// succeeds but does not touch UpdatedAt or the event feed.
func (s *Service) Update(ctx context.Context, id string, req *models.ContentUpdateRequest) (*models.Content, error) {
	content, err := s.store.ContentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if changed := req.ApplyTo(content); changed == 0 {
		return content, nil
	}
	content.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateContent(ctx, content); err != nil {
		return nil, err
	}

	metrics.CatalogOperations.WithLabelValues("update").Inc()
	s.publish(EventContentUpdated, content)
	return content, nil
}

// Delete removes a catalog entry and announces the removal. Watchlist
// references to the entry are left to resolve lazily.
func (s *Service) Delete(ctx context.Context, id string) error {
	// Fetch first so the event carries the full record.
	content, err := s.store.ContentByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteContent(ctx, id); err != nil {
		return err
	}

	metrics.CatalogOperations.WithLabelValues("delete").Inc()
	metrics.CatalogSize.Dec()
	s.publish(EventContentDeleted, content)
	logging.Ctx(ctx).Info().
		Str("content_id", id).
		Msg("Content deleted")
	return nil
}

func (s *Service) publish(event string, content *models.Content) {
	if s.events != nil {
		s.events.BroadcastContentEvent(event, content)
	}
}

func pageCount(total int64, limit int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
