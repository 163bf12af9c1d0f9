// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/videotheca/internal/auth"
	"github.com/tomtom215/videotheca/internal/logging"
	"github.com/tomtom215/videotheca/internal/media"
	"github.com/tomtom215/videotheca/internal/store"
)

// ServiceError maps a service-layer error onto the HTTP error taxonomy.
// Unknown errors become opaque 500s; internals are logged, never leaked.
func (rs *responder) ServiceError(err error) {
	var policyErr *auth.PasswordPolicyError

	switch {
	case errors.As(err, &policyErr):
		violations := make([]interface{}, len(policyErr.Violations))
		for i, v := range policyErr.Violations {
			violations[i] = v
		}
		rs.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidation,
			"password does not meet the policy",
			map[string]interface{}{"violations": violations})

	case errors.Is(err, store.ErrEmailTaken):
		rs.Error(http.StatusConflict, ErrCodeEmailTaken,
			"an account with this email already exists")

	case errors.Is(err, auth.ErrInvalidCredentials):
		rs.Error(http.StatusUnauthorized, ErrCodeUnauthorized,
			"invalid email or password")

	case errors.Is(err, auth.ErrTokenInvalid), errors.Is(err, auth.ErrTokenRevoked):
		rs.Error(http.StatusUnauthorized, ErrCodeUnauthorized,
			"invalid or expired token")

	case errors.Is(err, store.ErrUserNotFound):
		rs.Error(http.StatusNotFound, ErrCodeNotFound, "user not found")

	case errors.Is(err, store.ErrContentNotFound):
		rs.Error(http.StatusNotFound, ErrCodeNotFound, "content not found")

	case errors.Is(err, media.ErrUnknownKind):
		rs.Error(http.StatusBadRequest, ErrCodeInvalidReq,
			"asset kind must be thumbnail or trailer")

	case errors.Is(err, media.ErrStoreUnavailable):
		rs.Error(http.StatusServiceUnavailable, ErrCodeUnavailable,
			"media storage is temporarily unavailable")

	default:
		logging.Ctx(rs.r.Context()).Error().Err(err).Msg("Request failed")
		rs.Error(http.StatusInternalServerError, ErrCodeInternalError,
			"an internal error occurred")
	}
}
