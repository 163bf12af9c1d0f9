// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package api

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/videotheca/internal/media"
)

// maxAssetBytes bounds an asset upload body. Thumbnails and trailers
// are static files, not full features.
const maxAssetBytes = 64 << 20 // 64 MiB

// AssetUpload stores a thumbnail or trailer for a catalog entry and
// returns a presigned URL for it. Mounted only when the media store is
// configured; capability-gated like the other content writes.
func (h *Handler) AssetUpload(w http.ResponseWriter, r *http.Request) {
	rs := respond(w, r)

	if !h.requireWriteCapability(rs, r) {
		return
	}

	contentID := chi.URLParam(r, "id")
	kind := chi.URLParam(r, "kind")
	if !media.ValidKind(kind) {
		rs.Error(http.StatusBadRequest, ErrCodeInvalidReq, "asset kind must be thumbnail or trailer")
		return
	}

	// The catalog entry must exist before it gets assets.
	if _, err := h.catalog.Get(r.Context(), contentID); err != nil {
		rs.ServiceError(err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAssetBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		rs.Error(http.StatusBadRequest, ErrCodeInvalidReq, "asset body too large or unreadable")
		return
	}
	if len(data) == 0 {
		rs.Error(http.StatusBadRequest, ErrCodeInvalidReq, "asset body is empty")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.media.Upload(r.Context(), contentID, kind, data, contentType)
	if err != nil {
		rs.ServiceError(err)
		return
	}

	rs.Created("asset stored", map[string]interface{}{
		"content_id": contentID,
		"kind":       kind,
		"url":        url,
	})
}
