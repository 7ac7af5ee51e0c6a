// Package streaming handles WebSocket connections for real-time agent run
// event streaming. The hub subscribes to run events on the event bus and
// fans them out to clients by agent ID.
package streaming

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/arcbrain/arcbrain/internal/common/logger"
	"github.com/arcbrain/arcbrain/internal/events"
	"github.com/arcbrain/arcbrain/internal/events/bus"
)

// Client represents a WebSocket client connection
type Client struct {
	ID       string
	conn     *websocket.Conn
	agentIDs map[string]bool // Agents this client is subscribed to
	send     chan []byte
	hub      *Hub
	mu       sync.RWMutex
	logger   *logger.Logger
}

// NewClient creates a new WebSocket client
func NewClient(id string, conn *websocket.Conn, hub *Hub, log *logger.Logger) *Client {
	return &Client{
		ID:       id,
		conn:     conn,
		agentIDs: make(map[string]bool),
		send:     make(chan []byte, 256),
		hub:      hub,
		logger:   log.WithFields(zap.String("client_id", id)),
	}
}

// Hub manages all WebSocket clients
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Clients by agent ID for efficient message routing
	agentClients map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMessage

	eventBus bus.EventBus
	busSub   bus.Subscription

	mu     sync.RWMutex
	logger *logger.Logger
}

type broadcastMessage struct {
	AgentID string
	Payload []byte
}

// NewHub creates a new WebSocket hub
func NewHub(eventBus bus.EventBus, log *logger.Logger) *Hub {
	return &Hub{
		clients:      make(map[*Client]bool),
		agentClients: make(map[string]map[*Client]bool),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		broadcast:    make(chan *broadcastMessage, 256),
		eventBus:     eventBus,
		logger:       log.WithFields(zap.String("component", "websocket_hub")),
	}
}

// Run starts the hub processing loop and attaches it to the run event
// stream. It blocks until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("WebSocket hub started")
	defer h.logger.Info("WebSocket hub stopped")

	if h.eventBus != nil {
		sub, err := h.eventBus.Subscribe(events.SubjectRunsAll, h.onRunEvent)
		if err != nil {
			h.logger.Error("failed to subscribe to run events", zap.Error(err))
		} else {
			h.busSub = sub
		}
	}

	for {
		select {
		case <-ctx.Done():
			if h.busSub != nil {
				_ = h.busSub.Unsubscribe()
			}
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.agentClients = make(map[string]map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Debug("Client registered", zap.String("client_id", client.ID))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.dropSubscriptionsLocked(client)
			}
			h.mu.Unlock()
			h.logger.Debug("Client unregistered", zap.String("client_id", client.ID))

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

// onRunEvent forwards a bus event to subscribed clients
func (h *Hub) onRunEvent(ctx context.Context, event *bus.Event) error {
	agentID, _ := event.Data["agent_id"].(string)
	if agentID == "" {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- &broadcastMessage{AgentID: agentID, Payload: payload}:
	default:
		h.logger.Warn("broadcast buffer full, dropping run event",
			zap.String("agent_id", agentID))
	}
	return nil
}

func (h *Hub) deliver(msg *broadcastMessage) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.agentClients[msg.AgentID]))
	for client := range h.agentClients[msg.AgentID] {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.send <- msg.Payload:
		default:
			// Client send buffer is full, close connection
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				close(client.send)
				delete(h.clients, client)
				h.dropSubscriptionsLocked(client)
			}
			h.mu.Unlock()
		}
	}
}

// dropSubscriptionsLocked removes a client from every agent subscription.
// Callers must hold h.mu.
func (h *Hub) dropSubscriptionsLocked(client *Client) {
	for agentID := range client.agentIDs {
		if clients, ok := h.agentClients[agentID]; ok {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.agentClients, agentID)
			}
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

// SubscribeClient subscribes a client to an agent's run events
func (h *Hub) SubscribeClient(client *Client, agentID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.agentClients[agentID]; !ok {
		h.agentClients[agentID] = make(map[*Client]bool)
	}
	h.agentClients[agentID][client] = true
	h.logger.Debug("Client subscribed to agent",
		zap.String("client_id", client.ID),
		zap.String("agent_id", agentID))
}

// UnsubscribeClient unsubscribes a client from an agent's run events
func (h *Hub) UnsubscribeClient(client *Client, agentID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.agentClients[agentID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.agentClients, agentID)
		}
	}
	h.logger.Debug("Client unsubscribed from agent",
		zap.String("client_id", client.ID),
		zap.String("agent_id", agentID))
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetAgentSubscriberCount returns the number of clients subscribed to an agent
func (h *Hub) GetAgentSubscriberCount(agentID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.agentClients[agentID])
}
