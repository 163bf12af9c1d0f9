// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

// Package main is the entry point for the Videotheca server.
//
// Videotheca is a self-hosted streaming catalog backend: account
// registration and JWT sessions, a browsable content catalog,
// per-account watchlists and watch history, and genre-overlap
// recommendations, with an optional realtime catalog event feed and
// MinIO-backed asset storage.
//
// Startup order:
//
//  1. Configuration (koanf v2: defaults, optional YAML file, env overrides)
//  2. Logging (zerolog, console or JSON)
//  3. Storage backend (embedded badger or MongoDB)
//  4. Token revocation store (in-memory or Redis)
//  5. Services: auth, authz, catalog, watchlist, recommendations, media
//  6. HTTP router (chi) and the suture supervision tree
//
// The process shuts down gracefully on SIGINT/SIGTERM: the HTTP server
// drains, the websocket hub closes its clients, and the storage backend
// is flushed.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/videotheca/internal/api"
	"github.com/tomtom215/videotheca/internal/auth"
	"github.com/tomtom215/videotheca/internal/authz"
	"github.com/tomtom215/videotheca/internal/catalog"
	"github.com/tomtom215/videotheca/internal/config"
	"github.com/tomtom215/videotheca/internal/logging"
	"github.com/tomtom215/videotheca/internal/media"
	"github.com/tomtom215/videotheca/internal/recommend"
	"github.com/tomtom215/videotheca/internal/store"
	"github.com/tomtom215/videotheca/internal/store/badgerstore"
	"github.com/tomtom215/videotheca/internal/store/mongostore"
	"github.com/tomtom215/videotheca/internal/supervisor"
	"github.com/tomtom215/videotheca/internal/supervisor/services"
	"github.com/tomtom215/videotheca/internal/watchlist"
	"github.com/tomtom215/videotheca/internal/websocket"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
}

func run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, badgerGC, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close store")
		}
	}()

	revocation, err := openRevocationStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open revocation store: %w", err)
	}
	defer func() {
		if err := revocation.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close revocation store")
		}
	}()

	tokens, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return fmt.Errorf("build token manager: %w", err)
	}
	authSvc := auth.NewService(st, tokens, revocation, &cfg.Security)
	authmw := auth.NewMiddleware(authSvc,
		cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow, cfg.Security.RateLimitDisabled)

	enforcer, err := authz.New(cfg.Security.ContentWritePolicy)
	if err != nil {
		return fmt.Errorf("build enforcer: %w", err)
	}

	var hub *websocket.Hub
	var events catalog.EventPublisher
	if cfg.Realtime.Enabled {
		hub = websocket.NewHub()
		events = hub
	}

	var assets *media.AssetStore
	if cfg.Media.Enabled {
		assets, err = media.New(ctx, &cfg.Media)
		if err != nil {
			return fmt.Errorf("connect media store: %w", err)
		}
		logging.Info().Str("bucket", cfg.Media.Bucket).Msg("Media store connected")
	}

	handler := api.NewHandler(api.HandlerDeps{
		Config:    cfg,
		Store:     st,
		Auth:      authSvc,
		Authz:     enforcer,
		Catalog:   catalog.New(st, &cfg.API, events),
		Watchlist: watchlist.New(st),
		Recommend: recommend.New(st, cfg.API.RecommendationLimit),
		Media:     assets,
		Hub:       hub,
	})

	chimw := api.NewChiMiddleware(cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow, cfg.Security.RateLimitDisabled)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(handler, authmw, chimw).Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddAPIService(services.NewHTTPService(server, 10*time.Second))
	if hub != nil {
		tree.AddAPIService(services.NewWebSocketService(hub))
	}
	if cfg.Security.RevocationStore != config.RevocationStoreRedis {
		// Redis expires entries natively; only the memory store needs
		// a sweeper.
		tree.AddDataService(services.NewJanitorService(revocation, cfg.Security.RevocationSweep))
	}
	if badgerGC != nil {
		tree.AddDataService(services.NewBadgerGCService(badgerGC, cfg.Storage.Badger.GCInterval))
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	errCh := tree.ServeBackground(ctx)

	logging.Info().
		Str("addr", server.Addr).
		Str("backend", cfg.Storage.Backend).
		Bool("realtime", cfg.Realtime.Enabled).
		Bool("media", cfg.Media.Enabled).
		Str("environment", cfg.Server.Environment).
		Msg("Videotheca started")

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Shutting down")
		cancel()
		err = <-errCh
	case err = <-errCh:
		// The supervisor gave up; nothing left to serve.
	}

	if unstopped, reportErr := tree.UnstoppedServiceReport(); reportErr == nil && len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop in time")
		}
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// openStore opens the configured storage backend. The second return
// value is non-nil when a persistent badger store should get a
// supervised GC loop.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, *badgerstore.Store, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendMongo:
		st, err := mongostore.New(ctx, &cfg.Storage.Mongo)
		if err != nil {
			return nil, nil, err
		}
		logging.Info().Str("database", cfg.Storage.Mongo.Database).Msg("MongoDB connected")
		return st, nil, nil

	default:
		st, err := badgerstore.New(&cfg.Storage.Badger)
		if err != nil {
			return nil, nil, err
		}
		logging.Info().
			Str("path", cfg.Storage.Badger.Path).
			Bool("in_memory", cfg.Storage.Badger.InMemory).
			Msg("Badger store opened")
		if cfg.Storage.Badger.InMemory {
			return st, nil, nil
		}
		return st, st, nil
	}
}

// openRevocationStore opens the configured token deny-list backend.
func openRevocationStore(ctx context.Context, cfg *config.Config) (auth.RevocationStore, error) {
	if cfg.Security.RevocationStore == config.RevocationStoreRedis {
		st, err := auth.NewRedisRevocationStore(ctx, &cfg.Security.Redis)
		if err != nil {
			return nil, err
		}
		logging.Info().Str("addr", cfg.Security.Redis.Addr).Msg("Redis revocation store connected")
		return st, nil
	}
	return auth.NewMemoryRevocationStore(), nil
}
