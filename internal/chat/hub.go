package chat

import (
	"log/slog"
	"sync"

	"github.com/coder/websocket"
)

// Hub tracks the open chat socket of each session.
type Hub struct {
	mu     sync.RWMutex
	active map[string]*websocket.Conn
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		active: make(map[string]*websocket.Conn),
	}
}

// GetActive returns the open connection of a session, or nil.
func (h *Hub) GetActive(sessionKey string) *websocket.Conn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.active[sessionKey]
}

// Register makes conn the connection of a session, closing any previous one.
func (h *Hub) Register(sessionKey string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, exists := h.active[sessionKey]; exists && existing != conn {
		_ = existing.Close(websocket.StatusNormalClosure, "session replaced")
	}

	h.active[sessionKey] = conn
	slog.Info("Chat socket registered", "session_key", sessionKey)
}

// Unregister forgets conn if it is still the session's connection.
func (h *Hub) Unregister(sessionKey string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, exists := h.active[sessionKey]; exists && current == conn {
		delete(h.active, sessionKey)
		slog.Info("Chat socket unregistered", "session_key", sessionKey)
	}
}

// CloseSession closes the socket of an ended session.
func (h *Hub) CloseSession(sessionKey string) {
	h.mu.Lock()
	conn, ok := h.active[sessionKey]
	delete(h.active, sessionKey)
	h.mu.Unlock()

	if !ok {
		return
	}
	// Close waits for the peer's close frame, so it runs outside the lock.
	_ = conn.Close(websocket.StatusNormalClosure, "session expired")
	slog.Info("Chat socket closed", "session_key", sessionKey)
}

// Len returns the number of open sockets.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.active)
}
