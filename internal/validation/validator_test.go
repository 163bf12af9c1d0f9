// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package validation

import (
	"strings"
	"testing"

	"github.com/tomtom215/videotheca/internal/models"
)

// ===================================================================================================
// Singleton Validator Tests
// ===================================================================================================

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}

	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

// ===================================================================================================
// ValidateStruct Tests
// ===================================================================================================

func TestValidateStruct_Valid(t *testing.T) {
	req := models.RegisterRequest{
		Email:    "alice@example.com",
		Password: "correct-horse42",
		Name:     "Alice",
	}

	if err := ValidateStruct(&req); err != nil {
		t.Errorf("Expected valid request to pass, got: %v", err)
	}
}

func TestValidateStruct_MissingFields(t *testing.T) {
	req := models.RegisterRequest{}

	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("Expected validation error for empty request")
	}

	if len(err.Errors()) != 3 {
		t.Errorf("Expected 3 field errors, got %d: %v", len(err.Errors()), err)
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected code VALIDATION_ERROR, got %s", apiErr.Code)
	}
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("Expected multi-error details to carry a fields list")
	}
}

func TestValidateStruct_SingleError(t *testing.T) {
	req := models.LoginRequest{
		Email:    "not-an-email",
		Password: "whatever",
	}

	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("Expected validation error for malformed email")
	}

	apiErr := err.ToAPIError()
	if apiErr.Message != "Email must be a valid email address" {
		t.Errorf("Unexpected message: %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "Email" {
		t.Errorf("Expected field detail Email, got %v", apiErr.Details["field"])
	}
}

// ===================================================================================================
// Custom Validator Tests
// ===================================================================================================

func TestContentTypeValidator(t *testing.T) {
	tests := []struct {
		name    string
		typ     string
		wantErr bool
	}{
		{"movie accepted", "movie", false},
		{"series accepted", "series", false},
		{"episode rejected", "episode", true},
		{"uppercase rejected", "MOVIE", true},
		{"empty rejected", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := models.ContentCreateRequest{
				Title:       "Test Title",
				Description: "Test description",
				Type:        tt.typ,
				Genres:      []string{"Drama"},
				ReleaseYear: 2020,
				Rating:      7.5,
				Duration:    "1h 30m",
			}

			err := ValidateStruct(&req)
			if tt.wantErr && err == nil {
				t.Errorf("Expected type %q to be rejected", tt.typ)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected type %q to be accepted, got: %v", tt.typ, err)
			}
		})
	}
}

func TestSubscriptionTierValidator(t *testing.T) {
	for _, tier := range []string{"basic", "standard", "premium"} {
		req := models.ProfileUpdateRequest{Subscription: &tier}
		if err := ValidateStruct(&req); err != nil {
			t.Errorf("Expected tier %q to be accepted, got: %v", tier, err)
		}
	}

	bad := "platinum"
	req := models.ProfileUpdateRequest{Subscription: &bad}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("Expected tier platinum to be rejected")
	}
	if !strings.Contains(err.Error(), "basic, standard, premium") {
		t.Errorf("Expected tier enum in message, got: %v", err)
	}
}

func TestMaturityLevelValidator(t *testing.T) {
	for _, level := range []string{"kids", "teen", "adult"} {
		req := models.PreferencesUpdate{MaturityLevel: &level}
		if err := ValidateStruct(&req); err != nil {
			t.Errorf("Expected maturity %q to be accepted, got: %v", level, err)
		}
	}

	for _, bad := range []string{"pg-13", "all"} {
		req := models.PreferencesUpdate{MaturityLevel: &bad}
		if err := ValidateStruct(&req); err == nil {
			t.Errorf("Expected maturity %q to be rejected", bad)
		}
	}
}

// ===================================================================================================
// Error Translation Tests
// ===================================================================================================

func TestTranslateError_Messages(t *testing.T) {
	type probe struct {
		Email  string   `validate:"required,email"`
		Title  string   `validate:"omitempty,min=3,max=10"`
		Rating float64  `validate:"omitempty,max=10"`
		Genres []string `validate:"omitempty,min=2"`
		URL    string   `validate:"omitempty,url"`
	}

	tests := []struct {
		name string
		in   probe
		want string
	}{
		{"required", probe{}, "Email is required"},
		{"string min", probe{Email: "a@b.co", Title: "ab"}, "Title must be at least 3 characters"},
		{"string max", probe{Email: "a@b.co", Title: "this title is too long"}, "Title must be at most 10 characters"},
		{"number max", probe{Email: "a@b.co", Rating: 11}, "Rating must be at most 10"},
		{"slice min", probe{Email: "a@b.co", Genres: []string{"one"}}, "Genres must be at least 2 entries"},
		{"url", probe{Email: "a@b.co", URL: "not a url"}, "URL must be a valid URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.in)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if got := err.Error(); got != tt.want {
				t.Errorf("Expected message %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRequestValidationError_Empty(t *testing.T) {
	ve := &RequestValidationError{}
	if ve.Error() != "validation failed" {
		t.Errorf("Unexpected empty error message: %q", ve.Error())
	}

	apiErr := ve.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" || apiErr.Message != "Validation failed" {
		t.Errorf("Unexpected empty APIError: %+v", apiErr)
	}
}
