package streaming

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// SubscriptionMessage is sent by clients to subscribe/unsubscribe
type SubscriptionMessage struct {
	Action   string   `json:"action"` // subscribe, unsubscribe
	AgentIDs []string `json:"agent_ids"`
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("WebSocket read error", zap.Error(err))
			}
			break
		}

		var subMsg SubscriptionMessage
		if err := json.Unmarshal(message, &subMsg); err != nil {
			c.logger.Warn("Invalid subscription message", zap.Error(err))
			continue
		}

		switch subMsg.Action {
		case "subscribe":
			for _, agentID := range subMsg.AgentIDs {
				c.Subscribe(agentID)
			}
		case "unsubscribe":
			for _, agentID := range subMsg.AgentIDs {
				c.Unsubscribe(agentID)
			}
		default:
			c.logger.Warn("Unknown action", zap.String("action", subMsg.Action))
		}
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Subscribe subscribes the client to an agent's run events
func (c *Client) Subscribe(agentID string) {
	c.mu.Lock()
	c.agentIDs[agentID] = true
	c.mu.Unlock()
	c.hub.SubscribeClient(c, agentID)
}

// Unsubscribe unsubscribes the client from an agent's run events
func (c *Client) Unsubscribe(agentID string) {
	c.mu.Lock()
	delete(c.agentIDs, agentID)
	c.mu.Unlock()
	c.hub.UnsubscribeClient(c, agentID)
}

// IsSubscribed returns true if the client is subscribed to an agent
func (c *Client) IsSubscribed(agentID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.agentIDs[agentID]
}
