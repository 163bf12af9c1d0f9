// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

// Package testinfra provides test infrastructure for integration testing with containers.
//
// This package uses testcontainers-go to manage Docker containers for integration tests,
// providing realistic testing environments that closely match production.
//
// # MongoDB Container
//
// The MongoContainer provides a real MongoDB instance for testing the
// mongostore backend:
//
//	func TestMongoStore(t *testing.T) {
//	    ctx := context.Background()
//	    testinfra.SkipIfNoDocker(t)
//
//	    mongo, err := testinfra.NewMongoContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, mongo)
//
//	    s, err := mongostore.New(ctx, &config.MongoConfig{
//	        URI:      mongo.URI,
//	        Database: "videotheca_test",
//	        Timeout:  10 * time.Second,
//	    })
//	    // Test against a real deployment
//	}
//
// All files in this package carry the integration build tag; regular
// unit test runs never pull in the container machinery.
package testinfra
