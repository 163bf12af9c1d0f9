// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// RateLimitConfig defines rate limit parameters for a route group.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// Route-group rate limits. The general budget comes from configuration;
// these cover groups with different traffic shapes.
var (
	// RateLimitHealth is permissive so monitoring can poll freely.
	RateLimitHealth = RateLimitConfig{Requests: 1000, Window: time.Minute}

	// RateLimitAuth bounds credential traffic. The per-IP login
	// throttle inside the auth middleware is stricter still.
	RateLimitAuth = RateLimitConfig{Requests: 20, Window: time.Minute}
)

// ChiMiddleware builds the stock chi-ecosystem middleware (CORS,
// httprate limits) from configuration.
type ChiMiddleware struct {
	corsHandler func(http.Handler) http.Handler
	reqs        int
	window      time.Duration
	disabled    bool
}

// NewChiMiddleware creates the middleware factory. A nil or empty
// origin list denies all cross-origin requests.
func NewChiMiddleware(corsOrigins []string, rateLimitReqs int, rateLimitWindow time.Duration, rateLimitDisabled bool) *ChiMiddleware {
	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           86400,
	})

	return &ChiMiddleware{
		corsHandler: corsHandler,
		reqs:        rateLimitReqs,
		window:      rateLimitWindow,
		disabled:    rateLimitDisabled,
	}
}

// CORS returns the CORS middleware. Global so OPTIONS preflight works
// on every route.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.corsHandler
}

// RateLimit returns the configured per-IP rate limiter.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	return m.RateLimitCustom(RateLimitConfig{Requests: m.reqs, Window: m.window})
}

// RateLimitCustom returns a per-IP rate limiter with specific bounds.
func (m *ChiMiddleware) RateLimitCustom(config RateLimitConfig) func(http.Handler) http.Handler {
	if m.disabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return httprate.LimitByIP(config.Requests, config.Window)
}

// RateLimitHealth returns the permissive health-endpoint limiter.
func (m *ChiMiddleware) RateLimitHealth() func(http.Handler) http.Handler {
	return m.RateLimitCustom(RateLimitHealth)
}

// RateLimitAuth returns the strict auth-endpoint limiter.
func (m *ChiMiddleware) RateLimitAuth() func(http.Handler) http.Handler {
	return m.RateLimitCustom(RateLimitAuth)
}
