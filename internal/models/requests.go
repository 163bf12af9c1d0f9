// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package models

// RegisterRequest creates an account. Password strength is enforced by
// the configured password policy, not by struct tags, so that operators
// can tune it without a rebuild.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
}

// LoginRequest exchanges credentials for a signed token.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required"`
}

// ContentCreateRequest adds a catalog entry.
type ContentCreateRequest struct {
	Title        string   `json:"title" validate:"required,min=1,max=200"`
	Description  string   `json:"description" validate:"required,max=2000"`
	Type         string   `json:"type" validate:"required,content_type"`
	Genres       []string `json:"genre" validate:"required,min=1,max=20,dive,min=1,max=50"`
	ReleaseYear  int      `json:"release_year" validate:"required,min=1888,max=2100"`
	Rating       float64  `json:"rating" validate:"min=0,max=10"`
	Duration     string   `json:"duration" validate:"required,max=50"`
	ThumbnailURL string   `json:"thumbnail_url" validate:"omitempty,url"`
	VideoURL     string   `json:"video_url" validate:"omitempty,url"`
	TrailerURL   string   `json:"trailer_url" validate:"omitempty,url"`
	Cast         []string `json:"cast" validate:"omitempty,max=50,dive,min=1,max=100"`
	Director     string   `json:"director" validate:"omitempty,max=100"`
}

// ContentUpdateRequest patches a catalog entry. Nil fields are left
// unchanged; provided fields replace the stored value wholesale.
type ContentUpdateRequest struct {
	Title        *string   `json:"title" validate:"omitempty,min=1,max=200"`
	Description  *string   `json:"description" validate:"omitempty,max=2000"`
	Type         *string   `json:"type" validate:"omitempty,content_type"`
	Genres       *[]string `json:"genre" validate:"omitempty,min=1,max=20,dive,min=1,max=50"`
	ReleaseYear  *int      `json:"release_year" validate:"omitempty,min=1888,max=2100"`
	Rating       *float64  `json:"rating" validate:"omitempty,min=0,max=10"`
	Duration     *string   `json:"duration" validate:"omitempty,max=50"`
	ThumbnailURL *string   `json:"thumbnail_url" validate:"omitempty,url"`
	VideoURL     *string   `json:"video_url" validate:"omitempty,url"`
	TrailerURL   *string   `json:"trailer_url" validate:"omitempty,url"`
	Cast         *[]string `json:"cast" validate:"omitempty,max=50,dive,min=1,max=100"`
	Director     *string   `json:"director" validate:"omitempty,max=100"`
}

// Empty reports whether the patch carries no fields at all.
func (r *ContentUpdateRequest) Empty() bool {
	return r.Title == nil && r.Description == nil && r.Type == nil &&
		r.Genres == nil && r.ReleaseYear == nil && r.Rating == nil &&
		r.Duration == nil && r.ThumbnailURL == nil && r.VideoURL == nil &&
		r.TrailerURL == nil && r.Cast == nil && r.Director == nil
}

// ApplyTo overlays the patch onto c and returns the number of fields
// changed. Timestamps are the caller's concern.
func (r *ContentUpdateRequest) ApplyTo(c *Content) int {
	n := 0
	if r.Title != nil {
		c.Title = *r.Title
		n++
	}
	if r.Description != nil {
		c.Description = *r.Description
		n++
	}
	if r.Type != nil {
		c.Type = *r.Type
		n++
	}
	if r.Genres != nil {
		c.Genres = *r.Genres
		n++
	}
	if r.ReleaseYear != nil {
		c.ReleaseYear = *r.ReleaseYear
		n++
	}
	if r.Rating != nil {
		c.Rating = *r.Rating
		n++
	}
	if r.Duration != nil {
		c.Duration = *r.Duration
		n++
	}
	if r.ThumbnailURL != nil {
		c.ThumbnailURL = *r.ThumbnailURL
		n++
	}
	if r.VideoURL != nil {
		c.VideoURL = *r.VideoURL
		n++
	}
	if r.TrailerURL != nil {
		c.TrailerURL = *r.TrailerURL
		n++
	}
	if r.Cast != nil {
		c.Cast = *r.Cast
		n++
	}
	if r.Director != nil {
		c.Director = *r.Director
		n++
	}
	return n
}

// ProfileUpdateRequest patches the calling user's account metadata.
type ProfileUpdateRequest struct {
	Name         *string            `json:"name" validate:"omitempty,min=1,max=100"`
	Subscription *string            `json:"subscription" validate:"omitempty,subscription_tier"`
	Preferences  *PreferencesUpdate `json:"preferences"`
}

// PreferencesUpdate patches playback preferences.
type PreferencesUpdate struct {
	Language      *string `json:"language" validate:"omitempty,min=2,max=8"`
	MaturityLevel *string `json:"maturity_level" validate:"omitempty,maturity_level"`
}

// WatchHistoryRequest records playback progress for a title.
type WatchHistoryRequest struct {
	ContentID string  `json:"content_id" validate:"required,uuid4"`
	Progress  float64 `json:"progress" validate:"min=0,max=100"`
}
