package hub

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestHubPublishEncodesEvents(t *testing.T) {
	h := New("test", nil)

	if err := h.Publish(VolumeEvent(0.25, 0.5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case data := <-h.broadcast:
		var ev struct {
			Type string             `json:"type"`
			Data map[string]float64 `json:"data"`
		}
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ev.Type != EventVolume {
			t.Errorf("expected %s, got %s", EventVolume, ev.Type)
		}
		if ev.Data["in"] != 0.25 || ev.Data["out"] != 0.5 {
			t.Errorf("unexpected payload: %v", ev.Data)
		}
	default:
		t.Fatal("expected event on broadcast channel")
	}
}

func TestHubPublishNeverBlocks(t *testing.T) {
	h := New("test", nil)
	// No Run loop draining; fill the queue past capacity.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 300; i++ {
			h.Publish(StateEvent("open", "1"))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
}

func TestHubRegistersAndCounts(t *testing.T) {
	h := New("test", nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	client := &Client{hub: h, send: make(chan []byte, 1)}
	h.register <- client

	deadline := time.Now().Add(time.Second)
	for h.ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(time.Millisecond)
	}

	if err := h.Publish(StateEvent("open", "1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	select {
	case <-client.send:
	case <-time.After(time.Second):
		t.Fatal("client never received the event")
	}

	h.unregister <- client
	for h.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never unregistered")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestHubDropsSlowClients(t *testing.T) {
	h := New("test", nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	// A client with a full, never-drained buffer.
	client := &Client{hub: h, send: make(chan []byte)}
	h.register <- client

	deadline := time.Now().Add(time.Second)
	for h.ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(time.Millisecond)
	}

	h.Publish(StateEvent("open", "1"))
	for h.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("slow client never dropped")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestHubRunStopsOnCancel(t *testing.T) {
	h := New("test", nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for !h.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("hub never started")
		}
		time.Sleep(time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop on cancel")
	}
	if h.IsRunning() {
		t.Error("expected hub to report stopped")
	}
}
