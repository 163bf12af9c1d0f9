// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package models

import (
	"time"
)

// Subscription tiers. The tier is informational account metadata and
// does not gate any catalog operation.
const (
	TierBasic    = "basic"
	TierStandard = "standard"
	TierPremium  = "premium"
)

// Account roles. Admins may mutate the catalog when the content write
// policy is set to "admin"; regular users own only their watchlist and
// watch history.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Maturity levels for the profile maturity preference.
const (
	MaturityKids  = "kids"
	MaturityTeen  = "teen"
	MaturityAdult = "adult"
)

// User is the stored account record. PasswordHash, Watchlist and
// History never appear in API responses; use PublicUser for output.
type User struct {
	ID           string              `json:"id" bson:"_id"`
	Email        string              `json:"email" bson:"email"`
	Name         string              `json:"name" bson:"name"`
	PasswordHash string              `json:"-" bson:"password"`
	Subscription string              `json:"subscription" bson:"subscription"`
	Role         string              `json:"role" bson:"role"`
	Preferences  Preferences         `json:"preferences" bson:"preferences"`
	Watchlist    []string            `json:"-" bson:"my_list"`
	History      []WatchHistoryEntry `json:"-" bson:"watch_history"`
	Active       bool                `json:"is_active" bson:"is_active"`
	CreatedAt    time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at" bson:"updated_at"`
}

// Preferences holds per-account playback preferences.
type Preferences struct {
	Language      string `json:"language" bson:"language"`
	MaturityLevel string `json:"maturity_level" bson:"maturity_level"`
}

// DefaultPreferences returns the preferences assigned at registration.
func DefaultPreferences() Preferences {
	return Preferences{
		Language:      "en",
		MaturityLevel: MaturityAdult,
	}
}

// WatchHistoryEntry records playback progress for one title. Progress
// is a percentage in [0,100]. At most one entry per content ID is kept;
// re-watching replaces the previous entry.
type WatchHistoryEntry struct {
	ContentID string    `json:"content_id" bson:"content_id"`
	Progress  float64   `json:"progress" bson:"progress"`
	WatchedAt time.Time `json:"watched_at" bson:"watched_at"`
}

// PublicUser is the API projection of a User. It strips the password
// hash and the potentially large watchlist and history collections.
type PublicUser struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	Name         string      `json:"name"`
	Subscription string      `json:"subscription"`
	Role         string      `json:"role"`
	Preferences  Preferences `json:"preferences"`
	Active       bool        `json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Public returns the API projection of u.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Subscription: u.Subscription,
		Role:         u.Role,
		Preferences:  u.Preferences,
		Active:       u.Active,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// IsAdmin reports whether the account carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidTier reports whether s is a known subscription tier.
func ValidTier(s string) bool {
	switch s {
	case TierBasic, TierStandard, TierPremium:
		return true
	}
	return false
}

// ValidMaturity reports whether s is a known maturity level.
func ValidMaturity(s string) bool {
	switch s {
	case MaturityKids, MaturityTeen, MaturityAdult:
		return true
	}
	return false
}
