package ws

import (
	"log/slog"
	"sync"

	"github.com/Kemiem/schiffe-versenken-ms4/internal/model"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/protocol"
)

// Hub tracks every open socket, logged in or not, and delivers encoded events
// to them. Delivery never blocks: a frame for a full buffer is dropped.
type Hub struct {
	clients map[model.ParticipantID]*Client
	mu      sync.RWMutex
	closed  bool
	logger  *slog.Logger
}

// NewHub creates a new Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[model.ParticipantID]*Client),
		logger:  logger.With(slog.String("component", "ws")),
	}
}

// Register adds a client. It returns false once the hub is closed.
func (h *Hub) Register(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	h.clients[client.id] = client
	h.logger.Info("ws client registered",
		slog.String("connection_id", string(client.id)),
		slog.Int("total_clients", len(h.clients)))
	return true
}

// Unregister removes a client and closes its send buffer
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.clients[client.id]; ok && current == client {
		delete(h.clients, client.id)
		client.closeSend()
		h.logger.Info("ws client unregistered",
			slog.String("connection_id", string(client.id)),
			slog.Int("total_clients", len(h.clients)))
	}
}

// Notify sends an event to a single connection; unknown connections are skipped
func (h *Hub) Notify(to model.ParticipantID, event model.Event) {
	frame, ok := h.encode(event)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if client, ok := h.clients[to]; ok {
		h.deliver(client, frame)
	}
}

// Broadcast sends an event to every connection
func (h *Hub) Broadcast(event model.Event) {
	h.BroadcastExcept("", event)
}

// BroadcastExcept sends an event to every connection but one
func (h *Hub) BroadcastExcept(except model.ParticipantID, event model.Event) {
	frame, ok := h.encode(event)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	dropped := 0
	for id, client := range h.clients {
		if id == except {
			continue
		}
		if !h.deliver(client, frame) {
			dropped++
		}
	}
	if dropped > 0 {
		h.logger.Warn("ws broadcast partial failure",
			slog.String("event", string(event.Type)),
			slog.Int("dropped", dropped))
	}
}

// Close disconnects every client and refuses new ones
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	count := len(h.clients)
	for id, client := range h.clients {
		client.closeSend()
		delete(h.clients, id)
	}
	h.logger.Info("ws hub stopped", slog.Int("disconnected_clients", count))
}

// ClientCount returns the number of open sockets
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// deliver must be called with h.mu held
func (h *Hub) deliver(client *Client, frame []byte) bool {
	select {
	case client.send <- frame:
		return true
	default:
		h.logger.Warn("ws message dropped - client buffer full",
			slog.String("connection_id", string(client.id)))
		return false
	}
}

func (h *Hub) encode(event model.Event) ([]byte, bool) {
	frame, err := protocol.Encode(event)
	if err != nil {
		h.logger.Error("failed to encode event",
			slog.String("event", string(event.Type)),
			slog.String("error", err.Error()))
		return nil, false
	}
	return frame, true
}
