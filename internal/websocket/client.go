package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512
)

// ClientMessage represents incoming messages from clients
type ClientMessage struct {
	Type    string `json:"type"`
	EventID string `json:"event_id,omitempty"`
}

// Client message types
const (
	ClientMessageSubscribe   = "subscribe"
	ClientMessageUnsubscribe = "unsubscribe"
	ClientMessagePing        = "ping"
)

func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, messageBytes, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.log.Warn("WebSocket read failed", zap.String("client_id", c.ID), zap.Error(err))
			}
			break
		}

		var clientMessage ClientMessage
		if err := json.Unmarshal(messageBytes, &clientMessage); err != nil {
			c.Hub.log.Debug("Ignoring malformed client message", zap.String("client_id", c.ID), zap.Error(err))
			continue
		}

		c.handleClientMessage(context.Background(), clientMessage)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			message.Time = time.Now().Unix()
			if err := c.Conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleClientMessage(ctx context.Context, message ClientMessage) {
	switch message.Type {
	case ClientMessageSubscribe:
		eventID, err := uuid.Parse(message.EventID)
		if err != nil {
			c.reply(Message{Type: "error", Data: map[string]interface{}{"error": "invalid event_id"}})
			return
		}
		if ok, err := c.Hub.access.CanView(ctx, c.UserID, eventID); err != nil || !ok {
			c.reply(Message{Type: "error", EventID: eventID, Data: map[string]interface{}{"error": "access denied"}})
			return
		}
		c.SubscribeToEvent(eventID)
		c.reply(Message{
			Type:    "subscribed",
			EventID: eventID,
			Data:    map[string]interface{}{"event_id": eventID, "status": "subscribed"},
		})

	case ClientMessageUnsubscribe:
		eventID, err := uuid.Parse(message.EventID)
		if err != nil {
			return
		}
		c.UnsubscribeFromEvent(eventID)
		c.reply(Message{
			Type:    "unsubscribed",
			EventID: eventID,
			Data:    map[string]interface{}{"event_id": eventID, "status": "unsubscribed"},
		})

	case ClientMessagePing:
		c.reply(Message{
			Type: "pong",
			Data: map[string]interface{}{"timestamp": time.Now().Unix()},
		})

	default:
		c.Hub.log.Debug("Unknown client message type", zap.String("type", message.Type))
	}
}

// reply queues a direct response. It drops the response when the buffer is
// full; the hub owns closing Send.
func (c *Client) reply(m Message) {
	select {
	case c.Send <- m:
	default:
	}
}
