// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package media

import (
	"context"
	"errors"
	"testing"
	"time"
)

// stubObjectStore is an in-memory objectStore with a switchable failure
// mode for breaker tests.
type stubObjectStore struct {
	objects map[string][]byte
	types   map[string]string
	fail    bool
}

var errStubDown = errors.New("object store down")

func newStubObjectStore() *stubObjectStore {
	return &stubObjectStore{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (s *stubObjectStore) Put(_ context.Context, key string, data []byte, contentType string) error {
	if s.fail {
		return errStubDown
	}
	s.objects[key] = data
	s.types[key] = contentType
	return nil
}

func (s *stubObjectStore) Get(_ context.Context, key string) ([]byte, string, error) {
	if s.fail {
		return nil, "", errStubDown
	}
	data, ok := s.objects[key]
	if !ok {
		return nil, "", errors.New("no such key")
	}
	return data, s.types[key], nil
}

func (s *stubObjectStore) Remove(_ context.Context, key string) error {
	if s.fail {
		return errStubDown
	}
	delete(s.objects, key)
	return nil
}

func (s *stubObjectStore) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	if s.fail {
		return "", errStubDown
	}
	return "https://media.example.com/" + key + "?signed", nil
}

func TestUploadAndFetch(t *testing.T) {
	stub := newStubObjectStore()
	store := newAssetStore(stub, time.Hour)
	ctx := context.Background()

	url, err := store.Upload(ctx, "c-1", KindThumbnail, []byte("jpeg-bytes"), "image/jpeg")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if url != "https://media.example.com/content/c-1/thumbnail?signed" {
		t.Errorf("Unexpected presigned URL: %q", url)
	}

	data, contentType, err := store.Fetch(ctx, "c-1", KindThumbnail)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(data) != "jpeg-bytes" || contentType != "image/jpeg" {
		t.Errorf("Round-trip lost the object: %q %q", data, contentType)
	}
}

func TestRemove(t *testing.T) {
	stub := newStubObjectStore()
	store := newAssetStore(stub, time.Hour)
	ctx := context.Background()

	if _, err := store.Upload(ctx, "c-1", KindTrailer, []byte("mp4"), "video/mp4"); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if err := store.Remove(ctx, "c-1", KindTrailer); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, _, err := store.Fetch(ctx, "c-1", KindTrailer); err == nil {
		t.Error("Expected fetch of removed asset to fail")
	}
}

func TestUnknownKindRejected(t *testing.T) {
	store := newAssetStore(newStubObjectStore(), time.Hour)
	ctx := context.Background()

	if _, err := store.Upload(ctx, "c-1", "subtitle", nil, "text/vtt"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("Expected ErrUnknownKind, got %v", err)
	}
	if _, err := store.AssetURL(ctx, "c-1", ""); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("Expected ErrUnknownKind, got %v", err)
	}
	if err := store.Remove(ctx, "c-1", "poster"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("Expected ErrUnknownKind, got %v", err)
	}
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	stub := newStubObjectStore()
	store := newAssetStore(stub, time.Hour)
	ctx := context.Background()

	stub.fail = true
	// Breaker needs at least 5 observed requests before it can trip.
	for i := 0; i < 5; i++ {
		if _, err := store.AssetURL(ctx, "c-1", KindThumbnail); err == nil {
			t.Fatal("Expected failure while store is down")
		}
	}

	// Circuit is now open; calls are rejected without touching storage.
	stub.fail = false
	_, err := store.AssetURL(ctx, "c-1", KindThumbnail)
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Expected ErrStoreUnavailable while circuit open, got %v", err)
	}
}
