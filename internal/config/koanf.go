// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/videotheca/config.yaml",
	"/etc/videotheca/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all defaults applied. These are the
// lowest-priority layer, overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        3549,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Storage: StorageConfig{
			Backend: StorageBackendBadger,
			Mongo: MongoConfig{
				URI:      "",
				Database: "videotheca",
				Timeout:  10 * time.Second,
			},
			Badger: BadgerConfig{
				Path:       "/data/videotheca",
				InMemory:   false,
				GCInterval: 5 * time.Minute,
			},
		},
		API: APIConfig{
			DefaultPageSize:     10,
			MaxPageSize:         100,
			RecommendationLimit: 10,
		},
		Security: SecurityConfig{
			JWTSecret:          "",
			TokenTTL:           24 * time.Hour,
			BcryptCost:         12,
			AdminEmails:        []string{},
			ContentWritePolicy: WritePolicyAny,
			RevocationStore:    RevocationStoreMemory,
			RevocationSweep:    5 * time.Minute,
			Redis: RedisConfig{
				Addr:     "",
				Password: "",
				DB:       0,
			},
			Password:          DefaultPasswordPolicy(),
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Media: MediaConfig{
			Enabled:    false,
			Endpoint:   "",
			AccessKey:  "",
			SecretKey:  "",
			Bucket:     "videotheca-media",
			UseSSL:     true,
			PresignTTL: 15 * time.Minute,
		},
		Realtime: RealtimeConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in sensible defaults
//  2. Config file: optional YAML file (if one exists)
//  3. Environment variables: override any setting
//
// Precedence: ENV > file > defaults. The result is validated before return.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	// JWT_SECRET -> security.jwt_secret, HTTP_PORT -> server.port, ...
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Comma-separated env values for slice fields
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the first file found, or empty string if none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths lists config paths parsed as comma-separated slices when
// they arrive through environment variables.
var sliceConfigPaths = []string{
	"security.admin_emails",
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Env vars come in as strings, the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML or defaults)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config paths.
// Unmapped variables return empty string and are skipped, which keeps
// unrelated environment noise out of the configuration.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - STORAGE_BACKEND -> storage.backend
//   - JWT_SECRET -> security.jwt_secret
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server mappings
		"http_host":    "server.host",
		"http_port":    "server.port",
		"http_timeout": "server.timeout",
		"environment":  "server.environment",

		// Storage mappings
		"storage_backend":    "storage.backend",
		"mongo_uri":          "storage.mongo.uri",
		"mongo_database":     "storage.mongo.database",
		"mongo_timeout":      "storage.mongo.timeout",
		"badger_path":        "storage.badger.path",
		"badger_in_memory":   "storage.badger.in_memory",
		"badger_gc_interval": "storage.badger.gc_interval",

		// API mappings
		"api_default_page_size":    "api.default_page_size",
		"api_max_page_size":        "api.max_page_size",
		"api_recommendation_limit": "api.recommendation_limit",

		// Security mappings
		"jwt_secret":           "security.jwt_secret",
		"token_ttl":            "security.token_ttl",
		"bcrypt_cost":          "security.bcrypt_cost",
		"admin_emails":         "security.admin_emails",
		"content_write_policy": "security.content_write_policy",
		"revocation_store":     "security.revocation_store",
		"revocation_sweep":     "security.revocation_sweep",
		"redis_addr":           "security.redis.addr",
		"redis_password":       "security.redis.password",
		"redis_db":             "security.redis.db",
		"rate_limit_requests":  "security.rate_limit_reqs",
		"rate_limit_window":    "security.rate_limit_window",
		"disable_rate_limit":   "security.rate_limit_disabled",
		"cors_origins":         "security.cors_origins",

		// Password policy mappings
		"password_min_length":        "security.password.min_length",
		"password_require_uppercase": "security.password.require_uppercase",
		"password_require_lowercase": "security.password.require_lowercase",
		"password_require_digit":     "security.password.require_digit",
		"password_require_special":   "security.password.require_special",
		"password_forbid_common":     "security.password.forbid_common_passwords",

		// Media storage mappings
		"media_enabled":     "media.enabled",
		"media_endpoint":    "media.endpoint",
		"media_access_key":  "media.access_key",
		"media_secret_key":  "media.secret_key",
		"media_bucket":      "media.bucket",
		"media_use_ssl":     "media.use_ssl",
		"media_presign_ttl": "media.presign_ttl",

		// Realtime feed mappings
		"realtime_enabled": "realtime.enabled",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unmapped keys are skipped to keep random environment variables from
	// polluting the configuration.
	return ""
}
