// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

// Package api provides the HTTP surface: chi routing, request decoding
// and the standardized response envelope.
package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/videotheca/internal/logging"
	"github.com/tomtom215/videotheca/internal/models"
	"github.com/tomtom215/videotheca/internal/validation"
)

// Envelope error codes.
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeInvalidReq    = "INVALID_REQUEST"
	ErrCodeEmailTaken    = "EMAIL_TAKEN"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeForbidden     = "FORBIDDEN"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeRateLimited   = "RATE_LIMITED"
	ErrCodeUnavailable   = "SERVICE_UNAVAILABLE"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// responder builds envelope responses for one request. It captures the
// start time so every response carries its processing duration.
type responder struct {
	w     http.ResponseWriter
	r     *http.Request
	start time.Time
}

func respond(w http.ResponseWriter, r *http.Request) *responder {
	return &responder{w: w, r: r, start: time.Now()}
}

// Success writes a 200 envelope with the given message and data.
func (rs *responder) Success(message string, data interface{}) {
	rs.writeJSON(http.StatusOK, models.APIResponse{
		Status:   "success",
		Message:  message,
		Data:     data,
		Metadata: rs.metadata(),
	})
}

// Created writes a 201 envelope.
func (rs *responder) Created(message string, data interface{}) {
	rs.writeJSON(http.StatusCreated, models.APIResponse{
		Status:   "success",
		Message:  message,
		Data:     data,
		Metadata: rs.metadata(),
	})
}

// Error writes an error envelope with the given HTTP status and code.
func (rs *responder) Error(status int, code, message string) {
	rs.ErrorWithDetails(status, code, message, nil)
}

// ErrorWithDetails writes an error envelope carrying structured details.
func (rs *responder) ErrorWithDetails(status int, code, message string, details map[string]interface{}) {
	rs.writeJSON(status, models.APIResponse{
		Status:   "error",
		Metadata: rs.metadata(),
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// ValidationError writes a 400 envelope from translated validation
// failures.
func (rs *responder) ValidationError(verr *validation.RequestValidationError) {
	apiErr := verr.ToAPIError()
	rs.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
}

func (rs *responder) metadata() models.Metadata {
	return models.Metadata{
		Timestamp:   time.Now().UTC(),
		QueryTimeMS: time.Since(rs.start).Milliseconds(),
	}
}

func (rs *responder) writeJSON(status int, payload models.APIResponse) {
	rs.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rs.w.WriteHeader(status)
	if err := json.NewEncoder(rs.w).Encode(payload); err != nil {
		logging.Ctx(rs.r.Context()).Error().Err(err).Msg("Failed to encode response")
	}
}

// decodeAndValidate decodes the request body into dst and runs struct
// validation. On failure it writes the error envelope and returns
// false; the handler should return immediately.
func decodeAndValidate(rs *responder, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		rs.Error(http.StatusBadRequest, ErrCodeInvalidReq, "request body is not valid JSON")
		return false
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		rs.ValidationError(verr)
		return false
	}
	return true
}
