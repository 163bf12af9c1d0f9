// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package api

import (
	"net/http"

	"github.com/tomtom215/videotheca/internal/auth"
	"github.com/tomtom215/videotheca/internal/authz"
	"github.com/tomtom215/videotheca/internal/catalog"
	"github.com/tomtom215/videotheca/internal/config"
	"github.com/tomtom215/videotheca/internal/media"
	"github.com/tomtom215/videotheca/internal/recommend"
	"github.com/tomtom215/videotheca/internal/store"
	"github.com/tomtom215/videotheca/internal/watchlist"
	"github.com/tomtom215/videotheca/internal/websocket"
)

// Version is reported on the service banner.
const Version = "1.0.0"

// Handler carries the service dependencies shared by all endpoints.
// media and hub are nil when the corresponding feature is not
// configured; their routes are not mounted in that case.
type Handler struct {
	cfg       *config.Config
	store     store.Store
	auth      *auth.Service
	authz     *authz.Enforcer
	catalog   *catalog.Service
	watchlist *watchlist.Service
	recommend *recommend.Engine
	media     *media.AssetStore
	hub       *websocket.Hub
}

// HandlerDeps bundles the constructor arguments for Handler.
type HandlerDeps struct {
	Config    *config.Config
	Store     store.Store
	Auth      *auth.Service
	Authz     *authz.Enforcer
	Catalog   *catalog.Service
	Watchlist *watchlist.Service
	Recommend *recommend.Engine
	Media     *media.AssetStore // optional
	Hub       *websocket.Hub    // optional
}

// NewHandler creates the endpoint handler set.
func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{
		cfg:       deps.Config,
		store:     deps.Store,
		auth:      deps.Auth,
		authz:     deps.Authz,
		catalog:   deps.Catalog,
		watchlist: deps.Watchlist,
		recommend: deps.Recommend,
		media:     deps.Media,
		hub:       deps.Hub,
	}
}

// Banner reports the service identity at the root path.
func (h *Handler) Banner(w http.ResponseWriter, r *http.Request) {
	respond(w, r).Success("videotheca", map[string]interface{}{
		"service": "videotheca",
		"version": Version,
	})
}

// requireClaims returns the authenticated claims or writes a 401. The
// auth middleware guarantees the claims exist on protected routes, so a
// miss here means a route was mounted without it.
func requireClaims(rs *responder, r *http.Request) (*auth.Claims, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		rs.Error(http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return nil, false
	}
	return claims, true
}
