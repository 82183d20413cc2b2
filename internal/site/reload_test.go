package site

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(testRouter(t, contentFS(), hub))
	defer srv.Close()
	defer hub.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/reload"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	waitFor(t, func() bool { return hub.Clients() == 1 })

	if n := hub.Broadcast([]string{"posts.json"}); n != 1 {
		t.Fatalf("Broadcast reached %d clients, want 1", n)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg ReloadMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "reload" || msg.ID == "" {
		t.Errorf("unexpected message %+v", msg)
	}
	if len(msg.Changed) != 1 || msg.Changed[0] != "posts.json" {
		t.Errorf("Changed = %v", msg.Changed)
	}

	conn.Close()
	waitFor(t, func() bool { return hub.Clients() == 0 })
}

func TestHubWithoutClients(t *testing.T) {
	hub := NewHub(nil)
	if n := hub.Broadcast(nil); n != 0 {
		t.Errorf("Broadcast = %d, want 0", n)
	}
}
