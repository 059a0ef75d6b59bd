package ws

import (
	"sync"

	"github.com/agentdesk/host/internal/infrastructure/logging"
	"github.com/agentdesk/host/internal/infrastructure/monitoring"
	"github.com/agentdesk/host/internal/shared/id"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// client wraps a connection with a write lock. Gorilla connections allow at
// most one concurrent writer and terminal output arrives from PTY reader
// goroutines while the read loop answers pings.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(payload interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(payload)
}

// Hub fans terminal events out to every connected UI stream. It satisfies the
// terminal sink interface so the session manager can stay transport-agnostic.
type Hub struct {
	logger  *logging.Logger
	metrics *monitoring.Metrics

	mu      sync.RWMutex
	clients map[id.ConnID]*client
}

// NewHub creates an empty hub.
func NewHub(logger *logging.Logger, metrics *monitoring.Metrics) *Hub {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Hub{
		logger:  logger,
		metrics: metrics,
		clients: make(map[id.ConnID]*client),
	}
}

// Count returns the number of attached connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a payload to every connection. Write failures drop the
// connection; its read loop notices on its own.
func (h *Hub) Broadcast(payload interface{}) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.send(payload); err != nil {
			h.logger.Debug("stream write failed", zap.Error(err))
		}
	}
}

// TerminalData forwards a chunk of PTY output to the UI.
func (h *Hub) TerminalData(sessionID string, data []byte) {
	if h.metrics != nil {
		h.metrics.StreamEvent("terminal.data")
	}
	h.Broadcast(map[string]interface{}{
		"type": "terminal.data",
		"id":   sessionID,
		"data": string(data),
	})
}

// TerminalExit notifies the UI that a session's process ended.
func (h *Hub) TerminalExit(sessionID string, exitCode int, signal string) {
	if h.metrics != nil {
		h.metrics.StreamEvent("terminal.exit")
	}
	h.Broadcast(map[string]interface{}{
		"type":      "terminal.exit",
		"id":        sessionID,
		"exit_code": exitCode,
		"signal":    signal,
	})
}

func (h *Hub) add(conn *websocket.Conn) id.ConnID {
	connID := id.NewConnID()
	h.mu.Lock()
	h.clients[connID] = &client{conn: conn}
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.StreamConnected()
	}
	h.logger.Debug("stream attached", zap.String("conn_id", string(connID)))
	return connID
}

func (h *Hub) remove(connID id.ConnID) {
	h.mu.Lock()
	delete(h.clients, connID)
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.StreamDisconnected()
	}
	h.logger.Debug("stream detached", zap.String("conn_id", string(connID)))
}

func (h *Hub) get(connID id.ConnID) *client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[connID]
}
