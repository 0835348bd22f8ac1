// Package live pushes collection-changed events to connected UIs over
// WebSocket so open calendars recompute availability without polling.
package live

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/agendaluz/studio-agenda/pkg/logging"
)

const writeWait = 5 * time.Second

// Event tells a client which collection changed. The client re-fetches; the
// event carries no data.
type Event struct {
	Type       string `json:"type"`
	Collection string `json:"collection"`
}

// Hub fans collection-changed events out to every connected UI.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *logging.Logger

	mu    sync.RWMutex
	conns map[string]*websocket.Conn
}

// NewHub creates the hub. CheckOrigin accepts all origins; the endpoint only
// pushes change notifications and requires no credentials.
func NewHub(logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
		conns:  make(map[string]*websocket.Conn),
	}
}

// HandleWS upgrades the connection and keeps it registered until the client
// goes away. Inbound frames are read and discarded to surface disconnects.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	id := uuid.New().String()
	h.mu.Lock()
	h.conns[id] = conn
	h.mu.Unlock()
	h.logger.Info("live connection opened", "conn_id", id)

	defer func() {
		h.mu.Lock()
		delete(h.conns, id)
		h.mu.Unlock()
		conn.Close()
		h.logger.Info("live connection closed", "conn_id", id)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// ServeHTTP makes the hub mountable as a plain handler.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.HandleWS(w, r)
}

func (h *Hub) connCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Broadcast notifies every connected client that a collection changed. Dead
// connections are dropped on write failure.
func (h *Hub) Broadcast(collection string) {
	event := Event{Type: "changed", Collection: collection}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conn := range h.conns {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(event); err != nil {
			h.logger.Debug("dropping live connection", "conn_id", id, "error", err)
			conn.Close()
			delete(h.conns, id)
		}
	}
}

// Close disconnects every client. Used on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conn := range h.conns {
		conn.Close()
		delete(h.conns, id)
	}
}
