// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/videotheca/internal/config"
)

const redisRevocationPrefix = "videotheca:revoked:"

// RedisRevocationStore is a Redis-backed deny-list for multi-instance
// deployments. Entries carry a Redis TTL matching the token expiry, so
// Redis drops them on its own and CleanupExpired has nothing to do.
type RedisRevocationStore struct {
	client *redis.Client
}

// NewRedisRevocationStore connects to Redis and verifies the connection.
func NewRedisRevocationStore(ctx context.Context, cfg *config.RedisConfig) (*RedisRevocationStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisRevocationStore{client: client}, nil
}

// Revoke marks the jti revoked until expiresAt.
func (s *RedisRevocationStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, redisRevocationPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke jti: %w", err)
	}
	return nil
}

// IsRevoked reports whether the jti is on the deny-list.
func (s *RedisRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, redisRevocationPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check jti: %w", err)
	}
	return n > 0, nil
}

// CleanupExpired is a no-op: Redis expires entries via their TTL.
func (s *RedisRevocationStore) CleanupExpired(ctx context.Context) (int, error) {
	return 0, nil
}

// Size counts deny-list entries with a prefix scan. Approximate by
// nature: entries can expire mid-scan.
func (s *RedisRevocationStore) Size(ctx context.Context) (int, error) {
	var (
		cursor uint64
		count  int
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, redisRevocationPrefix+"*", 500).Result()
		if err != nil {
			return 0, fmt.Errorf("scan jtis: %w", err)
		}
		count += len(keys)
		if next == 0 {
			return count, nil
		}
		cursor = next
	}
}

// Close closes the Redis connection.
func (s *RedisRevocationStore) Close() error {
	return s.client.Close()
}
