// Package websocket pushes intake events to connected review clients:
// batch processing progress, batch completion and dispatch results.
package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// MessageType represents the type of WebSocket message
type MessageType string

const (
	MessageTypeBatchProgress  MessageType = "batch_progress"
	MessageTypeBatchComplete  MessageType = "batch_complete"
	MessageTypeDispatchResult MessageType = "dispatch_result"
	MessageTypeError          MessageType = "error"
)

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// BatchProgressPayload reports per-item progress during processing
type BatchProgressPayload struct {
	Processed int `json:"processed"`
	Total     int `json:"total"`
}

// BatchCompletePayload signals that every item finished extraction
type BatchCompletePayload struct {
	Total int `json:"total"`
}

// DispatchResultPayload reports the outcome of one client dispatch
type DispatchResultPayload struct {
	ClientID uint   `json:"client_id"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// Hub maintains the set of active clients and broadcasts events to all of
// them. Every connected reviewer sees the same intake session, so there is
// no per-topic subscription.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Broadcast to all clients
	broadcast chan []byte

	// Mutex for thread-safe operations
	mu sync.RWMutex

	// Logger
	logger *slog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		logger:     logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			if h.logger != nil {
				h.logger.Debug("client registered")
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			if h.logger != nil {
				h.logger.Debug("client unregistered")
			}

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client buffer full, skip
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast sends an event to every connected client
func (h *Hub) Broadcast(msgType MessageType, payload interface{}) {
	data, err := json.Marshal(WSMessage{Type: msgType, Payload: payload})
	if err != nil {
		if h.logger != nil {
			h.logger.Error("failed to marshal broadcast message", slog.Any("error", err))
		}
		return
	}
	h.broadcast <- data
}

// BatchProgress implements intake.ProgressNotifier
func (h *Hub) BatchProgress(processed, total int) {
	h.Broadcast(MessageTypeBatchProgress, BatchProgressPayload{Processed: processed, Total: total})
}

// BatchComplete implements intake.ProgressNotifier
func (h *Hub) BatchComplete(total int) {
	h.Broadcast(MessageTypeBatchComplete, BatchCompletePayload{Total: total})
}

// DispatchResult broadcasts the outcome of one client dispatch
func (h *Hub) DispatchResult(clientID uint, success bool, errMsg string) {
	h.Broadcast(MessageTypeDispatchResult, DispatchResultPayload{
		ClientID: clientID,
		Success:  success,
		Error:    errMsg,
	})
}
