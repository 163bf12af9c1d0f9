// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package auth

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidCredentials is returned for any login failure: unknown
	// email, wrong password, or deactivated account. One error for all
	// three so responses cannot be used to probe which emails exist.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrTokenInvalid covers malformed, tampered and expired tokens.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrTokenRevoked is returned for tokens invalidated by logout or
	// refresh rotation before their expiry.
	ErrTokenRevoked = errors.New("token has been revoked")

	// ErrRevocationClosed indicates the revocation store has been closed.
	ErrRevocationClosed = errors.New("revocation store is closed")
)

// PasswordPolicyError carries every policy violation found in a
// candidate password so the client can report them all at once.
type PasswordPolicyError struct {
	Violations []string
}

func (e *PasswordPolicyError) Error() string {
	return "password rejected: " + strings.Join(e.Violations, "; ")
}
