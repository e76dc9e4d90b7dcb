package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/dragonknightbit/air-ball/internal/tracker"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// PositionsHandler fans tracked hand positions out to WebSocket clients.
// It never touches the camera or detector itself: the tracker owns the
// single poll loop and pushes results in through Publish.
type PositionsHandler struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewPositionsHandler creates an empty fan-out handler.
func NewPositionsHandler() *PositionsHandler {
	return &PositionsHandler{
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *PositionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Publish broadcasts one poll cycle's positions to all connected clients.
// It has the tracker.Callback signature and can be wired directly into
// Tracker.Setup.
func (h *PositionsHandler) Publish(positions []tracker.Position) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.clients) == 0 {
		return
	}

	msg, err := json.Marshal(map[string]any{
		"positions": positions,
		"timestamp": time.Now().UnixMilli(),
	})
	if err != nil {
		log.Printf("marshal positions: %v", err)
		return
	}

	for conn := range h.clients {
		conn.WriteMessage(websocket.TextMessage, msg)
	}
}

// ClientCount returns the number of connected WebSocket clients.
func (h *PositionsHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
