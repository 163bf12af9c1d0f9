// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package auth

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/videotheca/internal/logging"
	"github.com/tomtom215/videotheca/internal/metrics"
	"github.com/tomtom215/videotheca/internal/models"
)

type contextKey string

// ClaimsContextKey holds the *Claims of the authenticated request.
const ClaimsContextKey contextKey = "claims"

// RawTokenContextKey holds the compact token string as presented, so
// logout and refresh handlers can revoke the exact session in hand.
const RawTokenContextKey contextKey = "raw_token"

// Middleware enforces authentication on protected route groups and
// throttles credential guessing on the login endpoint.
type Middleware struct {
	service      *Service
	loginLimiter *RateLimiter
	disabled     bool
}

// NewMiddleware creates the auth middleware. The login limiter gets a
// quarter of the configured per-IP request budget: login is the one
// endpoint worth brute-forcing.
func NewMiddleware(service *Service, reqsPerWindow int, window time.Duration, rateLimitDisabled bool) *Middleware {
	loginBudget := reqsPerWindow / 4
	if loginBudget < 1 {
		loginBudget = 1
	}

	m := &Middleware{
		service:      service,
		loginLimiter: NewRateLimiter(loginBudget, window),
		disabled:     rateLimitDisabled,
	}

	if !rateLimitDisabled {
		go m.loginLimiter.startCleanup(5 * time.Minute)
	}

	return m
}

// Authenticate rejects requests without a valid, unrevoked token. The
// token is taken from the Authorization header (Bearer scheme) or,
// failing that, a "token" cookie. Claims and the raw token are placed
// in the request context for downstream handlers.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := extractToken(r)
		if err != nil {
			writeAuthError(w, "missing or malformed credentials")
			return
		}

		claims, err := m.service.Authenticate(r.Context(), token)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Authentication failed")
			writeAuthError(w, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		ctx = context.WithValue(ctx, RawTokenContextKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoginRateLimit throttles requests per client IP. Mounted on the login
// route only; the general API rate limit is handled at the router.
func (m *Middleware) LoginRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.disabled {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r)
		if !m.loginLimiter.Allow(ip) {
			metrics.APIRateLimitHits.WithLabelValues("/api/v1/auth/login").Inc()
			writeEnvelope(w, http.StatusTooManyRequests, &models.APIError{
				Code:    "RATE_LIMITED",
				Message: "too many login attempts, try again later",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClaimsFromContext returns the authenticated claims, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok
}

// RawTokenFromContext returns the presented token string, if any.
func RawTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(RawTokenContextKey).(string)
	return token, ok
}

// extractToken pulls the token from the Authorization header or the
// "token" cookie.
func extractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		cookie, err := r.Cookie("token")
		if err != nil {
			return "", fmt.Errorf("missing token")
		}
		return cookie.Value, nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", fmt.Errorf("invalid authorization header")
	}
	return parts[1], nil
}

func writeAuthError(w http.ResponseWriter, message string) {
	writeEnvelope(w, http.StatusUnauthorized, &models.APIError{
		Code:    "UNAUTHORIZED",
		Message: message,
	})
}

func writeEnvelope(w http.ResponseWriter, status int, apiErr *models.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    apiErr,
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimiter implements per-IP rate limiting with automatic cleanup
type RateLimiter struct {
	limiters  map[string]*rateLimiterEntry
	mu        sync.Mutex
	rate      rate.Limit
	burst     int
	stopClean chan struct{}
}

// rateLimiterEntry wraps a rate limiter with last access time
type rateLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewRateLimiter creates a limiter allowing reqsPerWindow requests per
// window per IP, with bursts up to the full budget.
func NewRateLimiter(reqsPerWindow int, window time.Duration) *RateLimiter {
	r := rate.Limit(float64(reqsPerWindow) / window.Seconds())
	return &RateLimiter{
		limiters:  make(map[string]*rateLimiterEntry),
		rate:      r,
		burst:     reqsPerWindow,
		stopClean: make(chan struct{}),
	}
}

// Allow checks if a request from the given IP is allowed
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	entry, exists := rl.limiters[ip]
	if !exists {
		entry = &rateLimiterEntry{
			limiter:    rate.NewLimiter(rl.rate, rl.burst),
			lastAccess: time.Now(),
		}
		rl.limiters[ip] = entry
	} else {
		entry.lastAccess = time.Now()
	}
	limiter := entry.limiter
	rl.mu.Unlock()

	return limiter.Allow()
}

// startCleanup periodically removes stale rate limiters
func (rl *RateLimiter) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopClean:
			return
		}
	}
}

// cleanup removes rate limiters that haven't been accessed in the last hour
func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	threshold := time.Now().Add(-1 * time.Hour)
	for ip, entry := range rl.limiters {
		if entry.lastAccess.Before(threshold) {
			delete(rl.limiters, ip)
		}
	}
}

// Stop stops the cleanup goroutine
func (rl *RateLimiter) Stop() {
	close(rl.stopClean)
}
