// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package metrics

import (
	"errors"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Failed to read metric: %v", err)
	}
	if m.Counter != nil {
		return m.Counter.GetValue()
	}
	if m.Gauge != nil {
		return m.Gauge.GetValue()
	}
	t.Fatal("Metric is neither counter nor gauge")
	return 0
}

func TestRecordAPIRequest(t *testing.T) {
	before := counterValue(t, APIRequestsTotal.WithLabelValues("GET", "/api/v1/content", "200"))

	RecordAPIRequest("GET", "/api/v1/content", "200", 25*time.Millisecond)
	RecordAPIRequest("GET", "/api/v1/content", "200", 40*time.Millisecond)

	after := counterValue(t, APIRequestsTotal.WithLabelValues("GET", "/api/v1/content", "200"))
	if after-before != 2 {
		t.Errorf("Expected counter to increase by 2, got %v", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := counterValue(t, APIActiveRequests)
	TrackActiveRequest(true)
	TrackActiveRequest(true)
	if got := counterValue(t, APIActiveRequests); got != before+2 {
		t.Errorf("Expected gauge %v, got %v", before+2, got)
	}
	TrackActiveRequest(false)
	TrackActiveRequest(false)
	if got := counterValue(t, APIActiveRequests); got != before {
		t.Errorf("Expected gauge back to %v, got %v", before, got)
	}
}

func TestRecordAuthAttempt(t *testing.T) {
	okBefore := counterValue(t, AuthAttempts.WithLabelValues("login", "success"))
	failBefore := counterValue(t, AuthAttempts.WithLabelValues("login", "failure"))

	RecordAuthAttempt("login", true)
	RecordAuthAttempt("login", false)
	RecordAuthAttempt("login", false)

	if got := counterValue(t, AuthAttempts.WithLabelValues("login", "success")); got != okBefore+1 {
		t.Errorf("Expected 1 success, got %v", got-okBefore)
	}
	if got := counterValue(t, AuthAttempts.WithLabelValues("login", "failure")); got != failBefore+2 {
		t.Errorf("Expected 2 failures, got %v", got-failBefore)
	}
}

func TestRecordStoreQueryErrorCounting(t *testing.T) {
	before := counterValue(t, StoreQueryErrors.WithLabelValues("badger", "CreateUser"))

	RecordStoreQuery("badger", "CreateUser", time.Millisecond, nil)
	RecordStoreQuery("badger", "CreateUser", time.Millisecond, errors.New("boom"))

	after := counterValue(t, StoreQueryErrors.WithLabelValues("badger", "CreateUser"))
	if after-before != 1 {
		t.Errorf("Expected exactly the failing query counted, got %v", after-before)
	}
}
