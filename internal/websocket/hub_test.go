// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/videotheca/internal/models"
)

// newHubClient builds a client wired to the hub but without a real
// connection; the hub only ever touches id and send.
func newHubClient(hub *Hub) *Client {
	return &Client{
		id:   clientIDCounter.Add(1),
		hub:  hub,
		send: make(chan Message, 256),
	}
}

func startHub(t *testing.T) (*Hub, context.CancelFunc, chan error) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()
	return hub, cancel, done
}

func waitForClientCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Client count never reached %d (got %d)", want, hub.ClientCount())
}

func TestHubRegisterUnregister(t *testing.T) {
	hub, cancel, done := startHub(t)
	defer cancel()

	client := newHubClient(hub)
	hub.Register <- client
	waitForClientCount(t, hub, 1)

	hub.Unregister <- client
	waitForClientCount(t, hub, 0)

	// Channel is closed on unregister.
	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("Expected send channel closed after unregister")
		}
	case <-time.After(time.Second):
		t.Error("Send channel not closed after unregister")
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	hub, cancel, done := startHub(t)
	defer cancel()

	a := newHubClient(hub)
	b := newHubClient(hub)
	hub.Register <- a
	hub.Register <- b
	waitForClientCount(t, hub, 2)

	hub.BroadcastContentEvent("content_created", &models.Content{ID: "c-1", Title: "T"})

	for _, client := range []*Client{a, b} {
		select {
		case msg := <-client.send:
			if msg.Type != "content_created" {
				t.Errorf("Expected content_created, got %q", msg.Type)
			}
			data, ok := msg.Data.(ContentEventData)
			if !ok {
				t.Fatalf("Unexpected payload type %T", msg.Data)
			}
			if data.Content == nil || data.Content.ID != "c-1" {
				t.Errorf("Payload lost the content record: %+v", data.Content)
			}
			if data.Timestamp == "" {
				t.Error("Expected a timestamp on the event")
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Broadcast never arrived")
		}
	}

	cancel()
	<-done
}

func TestHubDropsSlowClient(t *testing.T) {
	hub, cancel, done := startHub(t)
	defer cancel()

	slow := newHubClient(hub)
	slow.send = make(chan Message) // unbuffered, nobody reading
	healthy := newHubClient(hub)
	hub.Register <- slow
	hub.Register <- healthy
	waitForClientCount(t, hub, 2)

	hub.BroadcastContentEvent("content_updated", &models.Content{ID: "c-2"})

	waitForClientCount(t, hub, 1)
	select {
	case msg := <-healthy.send:
		if msg.Type != "content_updated" {
			t.Errorf("Expected content_updated, got %q", msg.Type)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Healthy client never received the broadcast")
	}

	cancel()
	<-done
}

func TestHubShutdownClosesClients(t *testing.T) {
	hub, cancel, done := startHub(t)

	a := newHubClient(hub)
	b := newHubClient(hub)
	hub.Register <- a
	hub.Register <- b
	waitForClientCount(t, hub, 2)

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Hub did not stop on cancel")
	}

	for _, client := range []*Client{a, b} {
		select {
		case _, ok := <-client.send:
			if ok {
				t.Error("Expected send channel closed after shutdown")
			}
		default:
			t.Error("Send channel not closed after shutdown")
		}
	}
	if hub.ClientCount() != 0 {
		t.Errorf("Expected no clients after shutdown, got %d", hub.ClientCount())
	}
}
