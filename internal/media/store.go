// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

// Package media stores static catalog assets (thumbnails, trailers) in
// MinIO/S3-compatible object storage. All calls go through a circuit
// breaker so a slow or unreachable object store cannot drag the API
// down with it.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/videotheca/internal/config"
	"github.com/tomtom215/videotheca/internal/logging"
	"github.com/tomtom215/videotheca/internal/metrics"
)

// Asset kinds accepted by the upload endpoint.
const (
	KindThumbnail = "thumbnail"
	KindTrailer   = "trailer"
)

var (
	// ErrUnknownKind is returned for an asset kind outside the accepted set.
	ErrUnknownKind = errors.New("unknown asset kind")

	// ErrStoreUnavailable is returned while the circuit breaker is open.
	ErrStoreUnavailable = errors.New("media store unavailable")
)

// ValidKind reports whether kind names a storable asset type.
func ValidKind(kind string) bool {
	return kind == KindThumbnail || kind == KindTrailer
}

// objectStore is the raw storage seam under the circuit breaker.
type objectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, string, error)
	Remove(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// minioObjectStore implements objectStore on a MinIO client.
type minioObjectStore struct {
	client *minio.Client
	bucket string
}

func newMinioObjectStore(ctx context.Context, cfg *config.MediaConfig) (*minioObjectStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
		logging.Info().Str("bucket", cfg.Bucket).Msg("Created media bucket")
	}

	return &minioObjectStore{client: client, bucket: cfg.Bucket}, nil
}

func (s *minioObjectStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (s *minioObjectStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", err
	}
	defer obj.Close()

	info, err := obj.Stat()
	if err != nil {
		return nil, "", err
	}
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, "", err
	}
	return data, info.ContentType, nil
}

func (s *minioObjectStore) Remove(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

func (s *minioObjectStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// AssetStore is the circuit-breaker-wrapped asset API used by the
// content handlers.
type AssetStore struct {
	objects    objectStore
	cb         *gobreaker.CircuitBreaker[any]
	presignTTL time.Duration
}

// New connects to the configured object store and ensures the bucket
// exists.
func New(ctx context.Context, cfg *config.MediaConfig) (*AssetStore, error) {
	objects, err := newMinioObjectStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return newAssetStore(objects, cfg.PresignTTL), nil
}

// newAssetStore wires the breaker around an object store. Split from
// New so tests can substitute the storage seam.
//
// Breaker settings: open after a 60% failure rate over at least 5
// requests, hold open for 30 seconds, allow 3 probes half-open.
func newAssetStore(objects objectStore, presignTTL time.Duration) *AssetStore {
	if presignTTL <= 0 {
		presignTTL = 15 * time.Minute
	}

	metrics.MediaCircuitBreakerState.Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "media-store",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("Media store circuit breaker state change")
			metrics.MediaCircuitBreakerState.Set(stateToFloat(to))
		},
	})

	return &AssetStore{objects: objects, cb: cb, presignTTL: presignTTL}
}

// Upload stores an asset for a catalog entry and returns a presigned
// URL for it.
func (s *AssetStore) Upload(ctx context.Context, contentID, kind string, data []byte, contentType string) (string, error) {
	if !ValidKind(kind) {
		return "", ErrUnknownKind
	}
	key := objectKey(contentID, kind)

	url, err := s.execute("upload", func() (any, error) {
		if err := s.objects.Put(ctx, key, data, contentType); err != nil {
			return nil, err
		}
		return s.objects.PresignGet(ctx, key, s.presignTTL)
	})
	if err != nil {
		return "", err
	}
	return url.(string), nil
}

// AssetURL returns a fresh presigned URL for a stored asset.
func (s *AssetStore) AssetURL(ctx context.Context, contentID, kind string) (string, error) {
	if !ValidKind(kind) {
		return "", ErrUnknownKind
	}
	url, err := s.execute("presign", func() (any, error) {
		return s.objects.PresignGet(ctx, objectKey(contentID, kind), s.presignTTL)
	})
	if err != nil {
		return "", err
	}
	return url.(string), nil
}

// Fetch returns the asset bytes and content type.
func (s *AssetStore) Fetch(ctx context.Context, contentID, kind string) ([]byte, string, error) {
	if !ValidKind(kind) {
		return nil, "", ErrUnknownKind
	}
	type object struct {
		data        []byte
		contentType string
	}
	result, err := s.execute("fetch", func() (any, error) {
		data, contentType, err := s.objects.Get(ctx, objectKey(contentID, kind))
		if err != nil {
			return nil, err
		}
		return object{data, contentType}, nil
	})
	if err != nil {
		return nil, "", err
	}
	obj := result.(object)
	return obj.data, obj.contentType, nil
}

// Remove deletes an asset. Removing an absent asset is not an error.
func (s *AssetStore) Remove(ctx context.Context, contentID, kind string) error {
	if !ValidKind(kind) {
		return ErrUnknownKind
	}
	_, err := s.execute("remove", func() (any, error) {
		return nil, s.objects.Remove(ctx, objectKey(contentID, kind))
	})
	return err
}

// execute runs an object store call through the breaker and records the
// outcome.
func (s *AssetStore) execute(operation string, fn func() (any, error)) (any, error) {
	result, err := s.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordMediaOperation(operation, "rejected")
			return nil, fmt.Errorf("%w: %s", ErrStoreUnavailable, operation)
		}
		metrics.RecordMediaOperation(operation, "failure")
		return nil, err
	}
	metrics.RecordMediaOperation(operation, "success")
	return result, nil
}

func objectKey(contentID, kind string) string {
	return fmt.Sprintf("content/%s/%s", contentID, kind)
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
