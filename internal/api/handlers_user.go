// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/videotheca/internal/models"
)

// Profile serves the calling user's account record.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	rs := respond(w, r)

	claims, ok := requireClaims(rs, r)
	if !ok {
		return
	}

	user, err := h.store.UserByID(r.Context(), claims.Subject)
	if err != nil {
		rs.ServiceError(err)
		return
	}

	rs.Success("profile retrieved", user.Public())
}

// ProfileUpdate patches the calling user's name, subscription tier or
// playback preferences. Email, role and active status are not
// client-mutable.
func (h *Handler) ProfileUpdate(w http.ResponseWriter, r *http.Request) {
	rs := respond(w, r)

	claims, ok := requireClaims(rs, r)
	if !ok {
		return
	}

	var req models.ProfileUpdateRequest
	if !decodeAndValidate(rs, r, &req) {
		return
	}

	user, err := h.store.UserByID(r.Context(), claims.Subject)
	if err != nil {
		rs.ServiceError(err)
		return
	}

	changed := 0
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
		changed++
	}
	if req.Subscription != nil {
		user.Subscription = *req.Subscription
		changed++
	}
	if req.Preferences != nil {
		if req.Preferences.Language != nil {
			user.Preferences.Language = *req.Preferences.Language
			changed++
		}
		if req.Preferences.MaturityLevel != nil {
			user.Preferences.MaturityLevel = *req.Preferences.MaturityLevel
			changed++
		}
	}

	if changed > 0 {
		user.UpdatedAt = time.Now().UTC()
		if err := h.store.UpdateUser(r.Context(), user); err != nil {
			rs.ServiceError(err)
			return
		}
	}

	rs.Success("profile updated", user.Public())
}

// MyList serves the calling user's watchlist, resolved to content
// records in insertion order.
func (h *Handler) MyList(w http.ResponseWriter, r *http.Request) {
	rs := respond(w, r)

	claims, ok := requireClaims(rs, r)
	if !ok {
		return
	}

	items, err := h.watchlist.List(r.Context(), claims.Subject)
	if err != nil {
		rs.ServiceError(err)
		return
	}

	rs.Success("watchlist retrieved", map[string]interface{}{
		"items": items,
	})
}

// MyListAdd puts a title on the calling user's watchlist. Re-adding is
// a no-op.
func (h *Handler) MyListAdd(w http.ResponseWriter, r *http.Request) {
	rs := respond(w, r)

	claims, ok := requireClaims(rs, r)
	if !ok {
		return
	}

	if err := h.watchlist.Add(r.Context(), claims.Subject, chi.URLParam(r, "id")); err != nil {
		rs.ServiceError(err)
		return
	}

	rs.Success("added to watchlist", nil)
}

// MyListRemove drops a title from the calling user's watchlist.
// Removing an absent title succeeds.
func (h *Handler) MyListRemove(w http.ResponseWriter, r *http.Request) {
	rs := respond(w, r)

	claims, ok := requireClaims(rs, r)
	if !ok {
		return
	}

	if err := h.watchlist.Remove(r.Context(), claims.Subject, chi.URLParam(r, "id")); err != nil {
		rs.ServiceError(err)
		return
	}

	rs.Success("removed from watchlist", nil)
}

// History serves the calling user's watch history.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	rs := respond(w, r)

	claims, ok := requireClaims(rs, r)
	if !ok {
		return
	}

	entries, err := h.watchlist.History(r.Context(), claims.Subject)
	if err != nil {
		rs.ServiceError(err)
		return
	}

	rs.Success("history retrieved", map[string]interface{}{
		"items": entries,
	})
}

// HistoryRecord records playback progress for a title. A re-watch
// replaces the earlier entry.
func (h *Handler) HistoryRecord(w http.ResponseWriter, r *http.Request) {
	rs := respond(w, r)

	claims, ok := requireClaims(rs, r)
	if !ok {
		return
	}

	var req models.WatchHistoryRequest
	if !decodeAndValidate(rs, r, &req) {
		return
	}

	entry, err := h.watchlist.RecordWatch(r.Context(), claims.Subject, &req)
	if err != nil {
		rs.ServiceError(err)
		return
	}

	rs.Created("watch recorded", entry)
}
