package websocket

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
)

func testHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testClient(hub *Hub) *Client {
	return &Client{hub: hub, send: make(chan []byte, sendBufferSize)}
}

func TestNewMessage(t *testing.T) {
	msg := NewMessage(EntityItem, "merged", 7, 3)
	if msg.Type != "shopping_item_merged" {
		t.Errorf("type = %q, want shopping_item_merged", msg.Type)
	}
	if msg.ID != 7 || msg.ListID != 3 {
		t.Errorf("ids = (%d, %d), want (7, 3)", msg.ID, msg.ListID)
	}
}

func TestRegisterUnregister(t *testing.T) {
	hub := testHub()
	c := testClient(hub)

	hub.Register(c)
	if hub.ClientCount() != 1 {
		t.Errorf("count = %d, want 1", hub.ClientCount())
	}

	hub.Unregister(c)
	if hub.ClientCount() != 0 {
		t.Errorf("count = %d, want 0", hub.ClientCount())
	}

	// Unregistering twice must not panic on the closed channel.
	hub.Unregister(c)
}

func TestBroadcastDelivers(t *testing.T) {
	hub := testHub()
	c1 := testClient(hub)
	c2 := testClient(hub)
	hub.Register(c1)
	hub.Register(c2)

	hub.Broadcast(NewMessage(EntityList, "cleared", 1, 1))

	for _, c := range []*Client{c1, c2} {
		select {
		case data := <-c.send:
			var msg Message
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if msg.Type != "shopping_list_cleared" {
				t.Errorf("type = %q, want shopping_list_cleared", msg.Type)
			}
		default:
			t.Error("expected a buffered message")
		}
	}
}

func TestBroadcastDropsWhenBufferFull(t *testing.T) {
	hub := testHub()
	c := &Client{hub: hub, send: make(chan []byte)} // unbuffered, nobody reading
	hub.Register(c)

	// Must not block.
	hub.Broadcast(NewMessage(EntityItem, "created", 1, 1))
}
