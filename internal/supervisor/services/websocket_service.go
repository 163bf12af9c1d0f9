// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package services

import (
	"context"

	"github.com/tomtom215/videotheca/internal/websocket"
)

// WebSocketService runs the catalog event hub under supervision. A hub
// crash is restarted by suture; clients reconnect and re-subscribe.
type WebSocketService struct {
	hub *websocket.Hub
}

// NewWebSocketService wraps the hub.
func NewWebSocketService(hub *websocket.Hub) *WebSocketService {
	return &WebSocketService{hub: hub}
}

// Serve implements suture.Service.
func (s *WebSocketService) Serve(ctx context.Context) error {
	return s.hub.RunWithContext(ctx)
}

// String identifies the service in supervisor logs.
func (s *WebSocketService) String() string {
	return "websocket-hub"
}
