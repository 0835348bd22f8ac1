package live

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialHub(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_BroadcastReachesEveryClient(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	first := dialHub(t, srv)
	second := dialHub(t, srv)

	// Upgrades finish asynchronously; wait for both registrations.
	deadline := time.Now().Add(time.Second)
	for hub.connCount() < 2 {
		if time.Now().After(deadline) {
			t.Fatal("connections were not registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Broadcast("appointments")

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(time.Second))
		var event Event
		if err := conn.ReadJSON(&event); err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if event.Type != "changed" || event.Collection != "appointments" {
			t.Errorf("unexpected event: %+v", event)
		}
	}
}

func TestHub_DeadConnectionIsDropped(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	conn := dialHub(t, srv)

	deadline := time.Now().Add(time.Second)
	for hub.connCount() < 1 {
		if time.Now().After(deadline) {
			t.Fatal("connection was not registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	conn.Close()

	// The read loop notices the close and unregisters the connection.
	deadline = time.Now().Add(time.Second)
	for hub.connCount() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("dead connection was not dropped")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Broadcast("blocks")
}
