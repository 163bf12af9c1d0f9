// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package api

import (
	"net/http"

	"github.com/tomtom215/videotheca/internal/logging"
)

// Health reports overall service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respond(w, r).Success("healthy", map[string]interface{}{
		"status":  "ok",
		"version": Version,
	})
}

// HealthLive is the liveness probe: the process is up and serving.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respond(w, r).Success("alive", map[string]interface{}{
		"status": "ok",
	})
}

// HealthReady is the readiness probe: the storage backend answers a
// ping. Not ready is 503 so orchestrators hold traffic.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rs := respond(w, r)

	if err := h.store.Ping(r.Context()); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Readiness check failed")
		rs.Error(http.StatusServiceUnavailable, ErrCodeUnavailable, "storage backend is not reachable")
		return
	}

	rs.Success("ready", map[string]interface{}{
		"status": "ok",
	})
}
