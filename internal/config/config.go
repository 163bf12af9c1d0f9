// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

// Package config loads and validates Videotheca configuration from three
// layered sources: struct defaults, an optional YAML file, and environment
// variables (highest priority).
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration for Videotheca.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Storage  StorageConfig  `koanf:"storage"`
	API      APIConfig      `koanf:"api"`
	Security SecurityConfig `koanf:"security"`
	Media    MediaConfig    `koanf:"media"`    // Optional: MinIO/S3 asset storage for thumbnails and trailers
	Realtime RealtimeConfig `koanf:"realtime"` // WebSocket catalog event feed
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the listen address. Default: 0.0.0.0
	Host string `koanf:"host"`

	// Port is the listen port. Default: 3549 ("FLIX" on a telephone keypad)
	Port int `koanf:"port"`

	// Timeout applies to both read and write on the HTTP server.
	Timeout time.Duration `koanf:"timeout"`

	// Environment is "development" or "production". Production tightens
	// secret validation.
	Environment string `koanf:"environment"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	// Backend is "badger" (embedded tree store) or "mongo" (document store).
	Backend string `koanf:"backend"`

	Mongo  MongoConfig  `koanf:"mongo"`
	Badger BadgerConfig `koanf:"badger"`
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI      string        `koanf:"uri"`
	Database string        `koanf:"database"`
	Timeout  time.Duration `koanf:"timeout"`
}

// BadgerConfig holds embedded BadgerDB settings.
type BadgerConfig struct {
	// Path is the on-disk location of the tree store.
	Path string `koanf:"path"`

	// InMemory runs the store without persistence. Used by tests and
	// throwaway deployments.
	InMemory bool `koanf:"in_memory"`

	// GCInterval is how often the value-log garbage collector runs.
	GCInterval time.Duration `koanf:"gc_interval"`
}

// APIConfig holds catalog query tunables.
type APIConfig struct {
	// DefaultPageSize is the page size when the client omits ?limit.
	DefaultPageSize int `koanf:"default_page_size"`

	// MaxPageSize caps client-supplied ?limit values.
	MaxPageSize int `koanf:"max_page_size"`

	// RecommendationLimit caps the size of a recommendation response.
	RecommendationLimit int `koanf:"recommendation_limit"`
}

// SecurityConfig holds authentication, authorization and abuse settings.
type SecurityConfig struct {
	// JWTSecret signs session tokens (HS256). Required; must be at least
	// 32 characters in production.
	JWTSecret string `koanf:"jwt_secret"`

	// TokenTTL is the session token lifetime.
	TokenTTL time.Duration `koanf:"token_ttl"`

	// BcryptCost is the bcrypt work factor for password hashes (4..31).
	BcryptCost int `koanf:"bcrypt_cost"`

	// AdminEmails lists accounts granted the admin role at registration.
	AdminEmails []string `koanf:"admin_emails"`

	// ContentWritePolicy selects who may create/update/delete catalog
	// entries: "any" (any authenticated user) or "admin".
	ContentWritePolicy string `koanf:"content_write_policy"`

	// RevocationStore selects the token deny-list backend: "memory" or
	// "redis". Redis survives restarts and is shared across replicas.
	RevocationStore string `koanf:"revocation_store"`

	// RevocationSweep is how often the memory deny-list drops expired
	// entries.
	RevocationSweep time.Duration `koanf:"revocation_sweep"`

	Redis RedisConfig `koanf:"redis"`

	// Password is the account password policy.
	Password PasswordPolicy `koanf:"password"`

	// RateLimitReqs and RateLimitWindow bound requests per client IP on
	// the auth endpoints. Login gets a quarter of the budget.
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// CORSOrigins lists allowed origins. Default: ["*"].
	CORSOrigins []string `koanf:"cors_origins"`
}

// RedisConfig holds connection settings for the Redis revocation store.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// MediaConfig holds MinIO/S3 object storage settings for static assets.
type MediaConfig struct {
	Enabled    bool          `koanf:"enabled"`
	Endpoint   string        `koanf:"endpoint"`
	AccessKey  string        `koanf:"access_key"`
	SecretKey  string        `koanf:"secret_key"`
	Bucket     string        `koanf:"bucket"`
	UseSSL     bool          `koanf:"use_ssl"`
	PresignTTL time.Duration `koanf:"presign_ttl"`
}

// RealtimeConfig holds websocket feed settings.
type RealtimeConfig struct {
	Enabled bool `koanf:"enabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Storage backend names accepted by StorageConfig.Backend.
const (
	StorageBackendBadger = "badger"
	StorageBackendMongo  = "mongo"
)

// Content write policy names accepted by SecurityConfig.ContentWritePolicy.
const (
	WritePolicyAny   = "any"
	WritePolicyAdmin = "admin"
)

// Revocation store names accepted by SecurityConfig.RevocationStore.
const (
	RevocationStoreMemory = "memory"
	RevocationStoreRedis  = "redis"
)

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// Validate checks the configuration for internal consistency.
// LoadWithKoanf calls it after all layers are applied.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateMedia(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case StorageBackendBadger:
		if !c.Storage.Badger.InMemory && c.Storage.Badger.Path == "" {
			return fmt.Errorf("BADGER_PATH is required when the badger backend is not in-memory")
		}
	case StorageBackendMongo:
		if c.Storage.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required when STORAGE_BACKEND=mongo")
		}
		if c.Storage.Mongo.Database == "" {
			return fmt.Errorf("MONGO_DATABASE is required when STORAGE_BACKEND=mongo")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q",
			StorageBackendBadger, StorageBackendMongo, c.Storage.Backend)
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be at least 1")
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("API_MAX_PAGE_SIZE must be at least the default page size")
	}
	if c.API.RecommendationLimit < 1 {
		return fmt.Errorf("API_RECOMMENDATION_LIMIT must be at least 1")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.IsProduction() && len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
	}
	if c.Security.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}

	switch c.Security.ContentWritePolicy {
	case WritePolicyAny, WritePolicyAdmin:
	default:
		return fmt.Errorf("CONTENT_WRITE_POLICY must be %q or %q, got %q",
			WritePolicyAny, WritePolicyAdmin, c.Security.ContentWritePolicy)
	}

	switch c.Security.RevocationStore {
	case RevocationStoreMemory:
	case RevocationStoreRedis:
		if c.Security.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required when REVOCATION_STORE=redis")
		}
	default:
		return fmt.Errorf("REVOCATION_STORE must be %q or %q, got %q",
			RevocationStoreMemory, RevocationStoreRedis, c.Security.RevocationStore)
	}

	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}

	if c.Security.Password.MinLength < 1 {
		return fmt.Errorf("PASSWORD_MIN_LENGTH must be at least 1")
	}

	return nil
}

func (c *Config) validateMedia() error {
	if !c.Media.Enabled {
		return nil
	}
	if c.Media.Endpoint == "" {
		return fmt.Errorf("MEDIA_ENDPOINT is required when media storage is enabled")
	}
	if c.Media.AccessKey == "" || c.Media.SecretKey == "" {
		return fmt.Errorf("MEDIA_ACCESS_KEY and MEDIA_SECRET_KEY are required when media storage is enabled")
	}
	if c.Media.Bucket == "" {
		return fmt.Errorf("MEDIA_BUCKET is required when media storage is enabled")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "disabled", "":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console", "":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
