// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/videotheca/internal/auth"
	"github.com/tomtom215/videotheca/internal/logging"
	"github.com/tomtom215/videotheca/internal/models"
	"github.com/tomtom215/videotheca/internal/store"
)

// pageParams reads ?page and ?limit. Absent or garbage values come back
// as zero; the catalog service clamps them into range.
func pageParams(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	return page, limit
}

// ContentList serves the catalog listing with optional type, genre and
// search filters, combined with AND.
func (h *Handler) ContentList(w http.ResponseWriter, r *http.Request) {
	rs := respond(w, r)

	q := r.URL.Query()
	filter := store.ContentFilter{
		Type:   q.Get("type"),
		Genre:  q.Get("genre"),
		Search: q.Get("search"),
	}
	if filter.Type != "" && !models.ValidContentType(filter.Type) {
		rs.Error(http.StatusBadRequest, ErrCodeInvalidReq, "type must be one of: movie, series")
		return
	}

	page, limit := pageParams(r)
	result, err := h.catalog.List(r.Context(), filter, page, limit)
	if err != nil {
		rs.ServiceError(err)
		return
	}

	rs.Success("content retrieved", result)
}

// ContentByGenre serves the listing filtered to one genre.
func (h *Handler) ContentByGenre(w http.ResponseWriter, r *http.Request) {
	rs := respond(w, r)

	genre := chi.URLParam(r, "genre")
	page, limit := pageParams(r)
	result, err := h.catalog.ByGenre(r.Context(), genre, page, limit)
	if err != nil {
		rs.ServiceError(err)
		return
	}

	rs.Success("content retrieved", result)
}

// ContentGet serves one catalog entry.
func (h *Handler) ContentGet(w http.ResponseWriter, r *http.Request) {
	rs := respond(w, r)

	content, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		rs.ServiceError(err)
		return
	}

	rs.Success("content retrieved", content)
}

// ContentCreate adds a catalog entry. Capability-gated by the content
// write policy.
func (h *Handler) ContentCreate(w http.ResponseWriter, r *http.Request) {
	rs := respond(w, r)

	if !h.requireWriteCapability(rs, r) {
		return
	}

	var req models.ContentCreateRequest
	if !decodeAndValidate(rs, r, &req) {
		return
	}

	content, err := h.catalog.Create(r.Context(), &req)
	if err != nil {
		rs.ServiceError(err)
		return
	}

	rs.Created("content created", content)
}

// ContentUpdate patches a catalog entry. Fields absent from the body
// keep their stored values.
func (h *Handler) ContentUpdate(w http.ResponseWriter, r *http.Request) {
	rs := respond(w, r)

	if !h.requireWriteCapability(rs, r) {
		return
	}

	var req models.ContentUpdateRequest
	if !decodeAndValidate(rs, r, &req) {
		return
	}

	content, err := h.catalog.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		rs.ServiceError(err)
		return
	}

	rs.Success("content updated", content)
}

// ContentDelete removes a catalog entry.
func (h *Handler) ContentDelete(w http.ResponseWriter, r *http.Request) {
	rs := respond(w, r)

	if !h.requireWriteCapability(rs, r) {
		return
	}

	if err := h.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		rs.ServiceError(err)
		return
	}

	rs.Success("content deleted", nil)
}

// Recommendations serves genre-overlap recommendations for the calling
// user.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rs := respond(w, r)

	claims, ok := requireClaims(rs, r)
	if !ok {
		return
	}

	items, err := h.recommend.ForUser(r.Context(), claims.Subject)
	if err != nil {
		rs.ServiceError(err)
		return
	}

	rs.Success("recommendations retrieved", map[string]interface{}{
		"items": items,
	})
}

// requireWriteCapability enforces the content write policy for the
// calling user's role. Denial is 403: the caller is authenticated but
// not entitled.
func (h *Handler) requireWriteCapability(rs *responder, r *http.Request) bool {
	claims, ok := requireClaims(rs, r)
	if !ok {
		return false
	}

	allowed, err := h.authz.CanWriteContent(claims.Role)
	if err != nil {
		rs.ServiceError(err)
		return false
	}
	if !allowed {
		logWriteDenied(r, claims)
		rs.Error(http.StatusForbidden, ErrCodeForbidden, "content management requires elevated access")
		return false
	}
	return true
}

func logWriteDenied(r *http.Request, claims *auth.Claims) {
	logging.Ctx(r.Context()).Warn().
		Str("user_id", claims.Subject).
		Str("role", claims.Role).
		Str("path", r.URL.Path).
		Str("method", r.Method).
		Msg("Content write denied")
}
