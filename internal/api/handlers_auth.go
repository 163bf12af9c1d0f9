// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package api

import (
	"net/http"

	"github.com/tomtom215/videotheca/internal/auth"
	"github.com/tomtom215/videotheca/internal/models"
)

// sessionData is the payload returned by register, login and refresh.
type sessionData struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// Register creates an account and signs the first session token.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	rs := respond(w, r)

	var req models.RegisterRequest
	if !decodeAndValidate(rs, r, &req) {
		return
	}

	user, token, err := h.auth.Register(r.Context(), &req)
	if err != nil {
		rs.ServiceError(err)
		return
	}

	rs.Created("account created", sessionData{Token: token, User: user.Public()})
}

// Login exchanges credentials for a session token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	rs := respond(w, r)

	var req models.LoginRequest
	if !decodeAndValidate(rs, r, &req) {
		return
	}

	user, token, err := h.auth.Login(r.Context(), &req)
	if err != nil {
		rs.ServiceError(err)
		return
	}

	rs.Success("login successful", sessionData{Token: token, User: user.Public()})
}

// Refresh rotates the presented token: the old token is revoked for its
// remaining lifetime and a fresh one is returned.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	rs := respond(w, r)

	token, ok := auth.RawTokenFromContext(r.Context())
	if !ok {
		rs.Error(http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return
	}

	user, fresh, err := h.auth.Refresh(r.Context(), token)
	if err != nil {
		rs.ServiceError(err)
		return
	}

	rs.Success("token refreshed", sessionData{Token: fresh, User: user.Public()})
}

// Logout revokes the presented token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	rs := respond(w, r)

	token, ok := auth.RawTokenFromContext(r.Context())
	if !ok {
		rs.Error(http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return
	}

	if err := h.auth.Logout(r.Context(), token); err != nil {
		rs.ServiceError(err)
		return
	}

	rs.Success("logged out", nil)
}
