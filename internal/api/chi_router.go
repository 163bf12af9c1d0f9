// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/videotheca/internal/auth"
	"github.com/tomtom215/videotheca/internal/middleware"
)

// Router assembles the HTTP surface from the handler set and the
// middleware stacks.
type Router struct {
	handler *Handler
	authmw  *auth.Middleware
	chimw   *ChiMiddleware
}

// NewRouter creates the router.
func NewRouter(handler *Handler, authmw *auth.Middleware, chimw *ChiMiddleware) *Router {
	return &Router{
		handler: handler,
		authmw:  authmw,
		chimw:   chimw,
	}
}

// Setup configures all routes and returns the root handler.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chimw.CORS())
	r.Use(middleware.PrometheusMetrics)

	r.Get("/", router.handler.Banner)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chimw.RateLimitHealth())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(router.chimw.RateLimitAuth())

		r.Post("/register", router.handler.Register)

		// Login gets an extra per-IP throttle: it is the one endpoint
		// worth brute-forcing.
		r.With(router.authmw.LoginRateLimit).Post("/login", router.handler.Login)

		r.Group(func(r chi.Router) {
			r.Use(router.authmw.Authenticate)
			r.Post("/refresh", router.handler.Refresh)
			r.Post("/refresh-token", router.handler.Refresh) // legacy alias
			r.Post("/logout", router.handler.Logout)
		})
	})

	r.Route("/api/v1/content", func(r chi.Router) {
		r.Use(router.chimw.RateLimit())

		// Catalog reads are public.
		r.Get("/", router.handler.ContentList)
		r.Get("/genre/{genre}", router.handler.ContentByGenre)

		r.Group(func(r chi.Router) {
			r.Use(router.authmw.Authenticate)

			// Static segment must be declared in the same router as
			// the {id} wildcard so chi prefers it.
			r.Get("/recommendations", router.handler.Recommendations)

			r.Post("/", router.handler.ContentCreate)
			r.Put("/{id}", router.handler.ContentUpdate)
			r.Delete("/{id}", router.handler.ContentDelete)

			if router.handler.media != nil {
				r.Post("/{id}/assets/{kind}", router.handler.AssetUpload)
			}
		})

		r.Get("/{id}", router.handler.ContentGet)
	})

	r.Route("/api/v1/user", func(r chi.Router) {
		r.Use(router.chimw.RateLimit())
		r.Use(router.authmw.Authenticate)

		r.Get("/profile", router.handler.Profile)
		r.Put("/profile", router.handler.ProfileUpdate)

		r.Get("/my-list", router.handler.MyList)
		r.Post("/my-list/{id}", router.handler.MyListAdd)
		r.Delete("/my-list/{id}", router.handler.MyListRemove)

		r.Get("/history", router.handler.History)
		r.Post("/history", router.handler.HistoryRecord)
	})

	if router.handler.hub != nil {
		r.With(router.authmw.Authenticate).Get("/api/v1/ws", router.handler.WebSocket)
	}

	return r
}
