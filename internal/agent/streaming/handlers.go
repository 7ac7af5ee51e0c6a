package streaming

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/arcbrain/arcbrain/internal/common/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, validate origin
		return true
	},
}

// WSHandler handles WebSocket connections
type WSHandler struct {
	hub    *Hub
	logger *logger.Logger
}

// NewWSHandler creates a new WebSocket handler
func NewWSHandler(hub *Hub, log *logger.Logger) *WSHandler {
	return &WSHandler{
		hub:    hub,
		logger: log.WithFields(zap.String("component", "ws_handler")),
	}
}

// StreamAgent handles a WebSocket connection scoped to one agent's runs
// WS /api/v1/agents/:agentId/stream
func (h *WSHandler) StreamAgent(c *gin.Context) {
	agentID := c.Param("agentId")
	if agentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "MISSING_AGENT_ID",
				"message": "Agent ID is required",
			},
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade connection",
			zap.String("agent_id", agentID),
			zap.Error(err),
		)
		return
	}

	clientID := uuid.New().String()

	h.logger.Info("WebSocket connection established for agent",
		zap.String("client_id", clientID),
		zap.String("agent_id", agentID),
	)

	client := NewClient(clientID, conn, h.hub, h.logger)
	h.hub.Register(client)
	client.Subscribe(agentID)

	go client.WritePump()
	go client.ReadPump()
}

// StreamAll handles a WebSocket connection with dynamic agent subscriptions
// WS /api/v1/stream
func (h *WSHandler) StreamAll(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade connection", zap.Error(err))
		return
	}

	clientID := uuid.New().String()

	h.logger.Info("WebSocket connection established",
		zap.String("client_id", clientID),
	)

	client := NewClient(clientID, conn, h.hub, h.logger)
	h.hub.Register(client)

	// The ReadPump handles subscription messages from the client
	go client.WritePump()
	go client.ReadPump()
}

// SetupWebSocketRoutes adds WebSocket routes to the router
func SetupWebSocketRoutes(router *gin.RouterGroup, handler *WSHandler) {
	router.GET("/agents/:agentId/stream", handler.StreamAgent)
	router.GET("/stream", handler.StreamAll)
}
