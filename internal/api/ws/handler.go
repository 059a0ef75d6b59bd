package ws

import (
	"net/http"

	"github.com/agentdesk/host/internal/infrastructure/logging"
	"github.com/agentdesk/host/internal/providers/terminal"
	"github.com/agentdesk/host/internal/shared/types"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The UI loads from file:// or a localhost dev server; the
		// browser-style origin check does not apply to a local host.
		return true
	},
}

// Handler manages WebSocket connections for the UI event stream.
type Handler struct {
	hub       *Hub
	terminals *terminal.Manager
	logger    *logging.Logger
}

// NewHandler creates a new WebSocket handler backed by hub.
func NewHandler(hub *Hub, terminals *terminal.Manager, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handler{
		hub:       hub,
		terminals: terminals,
		logger:    logger,
	}
}

// HandleConnection handles WebSocket upgrade and inbound messages.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	connID := h.hub.add(conn)
	defer h.hub.remove(connID)

	client := h.hub.get(connID)
	client.send(map[string]interface{}{
		"type":    "system",
		"message": "connected",
	})

	for {
		var msg types.StreamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}

		switch msg.Type {
		case "ping":
			client.send(map[string]interface{}{"type": "pong"})
		case "terminal.attach":
			// Replay the session's scrollback so a reconnecting UI can
			// repaint before live output resumes.
			buffer := h.terminals.GetBuffer(msg.ID)
			client.send(map[string]interface{}{
				"type":   "terminal.replay",
				"id":     msg.ID,
				"buffer": buffer,
			})
		default:
			client.send(map[string]interface{}{
				"type":    "error",
				"message": "unknown message type",
			})
		}
	}
}
