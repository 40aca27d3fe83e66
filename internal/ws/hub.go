package ws

import (
	"encoding/json"
	"sync"

	"signal-radar/internal/observability"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Hub maps each online user to their single live connection.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*Client
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{clients: make(map[uuid.UUID]*Client), logger: logger}
}

// Register makes c the user's connection, closing any previous one.
func (h *Hub) Register(c *Client) {
	if h == nil || c == nil {
		return
	}
	h.mu.Lock()
	prev := h.clients[c.userID]
	h.clients[c.userID] = c
	total := len(h.clients)
	h.mu.Unlock()

	if prev != nil && prev != c {
		prev.Close()
		h.logger.Info("ws session replaced", zap.String("user_id", c.userID.String()))
	}
	observability.WebSocketConnections.Set(float64(total))
	h.logger.Info("ws connected", zap.String("user_id", c.userID.String()), zap.Int("total_clients", total))
}

// Unregister drops and closes whatever connection the user has.
func (h *Hub) Unregister(userID uuid.UUID) {
	if h == nil {
		return
	}
	h.mu.Lock()
	c := h.clients[userID]
	delete(h.clients, userID)
	total := len(h.clients)
	h.mu.Unlock()

	if c != nil {
		c.Close()
	}
	observability.WebSocketConnections.Set(float64(total))
}

// Release removes c only if it is still the user's current connection.
func (h *Hub) Release(c *Client) bool {
	if h == nil || c == nil {
		return false
	}
	h.mu.Lock()
	removed := false
	if cur, ok := h.clients[c.userID]; ok && cur == c {
		delete(h.clients, c.userID)
		removed = true
	}
	total := len(h.clients)
	h.mu.Unlock()

	if removed {
		observability.WebSocketConnections.Set(float64(total))
		h.logger.Info("ws disconnected", zap.String("user_id", c.userID.String()), zap.Int("total_clients", total))
	}
	return removed
}

func (h *Hub) IsOnline(userID uuid.UUID) bool {
	if h == nil {
		return false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

func (h *Hub) OnlineUsers() []uuid.UUID {
	if h == nil {
		return []uuid.UUID{}
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]uuid.UUID, 0, len(h.clients))
	for id := range h.clients {
		out = append(out, id)
	}
	return out
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SendTo enqueues payload for the user. A full or closed client is treated
// as gone and removed.
func (h *Hub) SendTo(userID uuid.UUID, payload []byte) bool {
	if h == nil {
		return false
	}
	h.mu.RLock()
	c := h.clients[userID]
	h.mu.RUnlock()
	if c == nil {
		return false
	}

	if c.trySend(payload) {
		return true
	}

	h.logger.Warn("ws send failed, dropping client", zap.String("user_id", userID.String()))
	h.Release(c)
	c.Close()
	return false
}

func (h *Hub) SendJSON(userID uuid.UUID, v any) bool {
	b, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("ws marshal failed", zap.Error(err))
		return false
	}
	return h.SendTo(userID, b)
}

// Close disconnects every client.
func (h *Hub) Close() {
	if h == nil {
		return
	}
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[uuid.UUID]*Client)
	h.mu.Unlock()

	for _, c := range clients {
		c.Close()
	}
	observability.WebSocketConnections.Set(0)
}
