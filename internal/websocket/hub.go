package websocket

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"nikiplan/internal/models"
)

var errBroadcastFull = errors.New("broadcast queue is full")

// Message types for real-time updates
const (
	MessageTypeNotification = "notification"
	MessageTypeBoardMessage = "board_message"
	MessageTypeEventUpdate  = "event_update"
)

// Message is a frame sent to clients.
type Message struct {
	Type    string      `json:"type"`
	UserID  uuid.UUID   `json:"user_id,omitempty"`
	EventID uuid.UUID   `json:"event_id,omitempty"`
	Data    interface{} `json:"data"`
	Time    int64       `json:"time"`
}

// Client represents a connected WebSocket client
type Client struct {
	ID     string
	UserID uuid.UUID
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan Message
	Events map[uuid.UUID]bool // Event boards this client is subscribed to
	mutex  sync.RWMutex
}

type accessChecker interface {
	CanView(ctx context.Context, userID, eventID uuid.UUID) (bool, error)
}

// Hub maintains the set of active clients and routes messages to them.
type Hub struct {
	// Registered clients by user ID
	Clients map[uuid.UUID]map[*Client]bool

	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan Message

	access accessChecker
	log    *zap.Logger
	mutex  sync.RWMutex
}

func NewHub(access accessChecker, log *zap.Logger) *Hub {
	return &Hub{
		Clients:    make(map[uuid.UUID]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan Message, 256),
		access:     access,
		log:        log,
	}
}

// SetAccess sets the check applied to board subscriptions. It must be called
// before Run.
func (h *Hub) SetAccess(access accessChecker) {
	h.access = access
}

// Run starts the hub's main loop and returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case message := <-h.Broadcast:
			h.broadcastMessage(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.Clients[client.UserID] == nil {
		h.Clients[client.UserID] = make(map[*Client]bool)
	}
	h.Clients[client.UserID][client] = true

	h.log.Debug("Client registered",
		zap.String("client_id", client.ID),
		zap.String("user_id", client.UserID.String()),
		zap.Int("user_clients", len(h.Clients[client.UserID])),
	)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.removeClient(client)
	h.log.Debug("Client unregistered",
		zap.String("client_id", client.ID),
		zap.String("user_id", client.UserID.String()),
	)
}

func (h *Hub) removeClient(client *Client) {
	clients, ok := h.Clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.Clients, client.UserID)
	}
}

func (h *Hub) broadcastMessage(message Message) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	switch message.Type {
	case MessageTypeBoardMessage, MessageTypeEventUpdate:
		h.broadcastToEventSubscribers(message)
	case MessageTypeNotification:
		h.broadcastToUser(message.UserID, message)
	}
}

func (h *Hub) broadcastToEventSubscribers(message Message) {
	for _, clients := range h.Clients {
		for client := range clients {
			client.mutex.RLock()
			isSubscribed := client.Events[message.EventID]
			client.mutex.RUnlock()

			if isSubscribed {
				h.send(client, message)
			}
		}
	}
}

func (h *Hub) broadcastToUser(userID uuid.UUID, message Message) {
	for client := range h.Clients[userID] {
		h.send(client, message)
	}
}

// send skips clients whose buffer is full. Send is only closed on
// unregister so readPump replies never race a close.
func (h *Hub) send(client *Client, message Message) {
	select {
	case client.Send <- message:
	default:
		h.log.Debug("Client buffer full, dropping message", zap.String("client_id", client.ID))
	}
}

// enqueue never blocks; a full broadcast queue drops the message.
func (h *Hub) enqueue(message Message) error {
	select {
	case h.Broadcast <- message:
		return nil
	default:
		return errBroadcastFull
	}
}

// Deliver pushes a stored notification to the recipient's open connections.
func (h *Hub) Deliver(_ context.Context, n models.Notification) error {
	return h.enqueue(Message{
		Type:   MessageTypeNotification,
		UserID: n.UserID,
		Data:   n,
	})
}

// BroadcastBoardMessage sends a new board message to the event's subscribers.
func (h *Hub) BroadcastBoardMessage(m models.Message) {
	if err := h.enqueue(Message{
		Type:    MessageTypeBoardMessage,
		EventID: m.EventID,
		Data:    m,
	}); err != nil {
		h.log.Warn("Dropped board message broadcast", zap.String("event_id", m.EventID.String()))
	}
}

// BroadcastEventUpdate sends the updated event to its subscribers.
func (h *Hub) BroadcastEventUpdate(e models.Event) {
	if err := h.enqueue(Message{
		Type:    MessageTypeEventUpdate,
		EventID: e.ID,
		Data:    e,
	}); err != nil {
		h.log.Warn("Dropped event update broadcast", zap.String("event_id", e.ID.String()))
	}
}

// SubscribeToEvent subscribes a client to an event board.
func (c *Client) SubscribeToEvent(eventID uuid.UUID) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.Events == nil {
		c.Events = make(map[uuid.UUID]bool)
	}
	c.Events[eventID] = true
}

func (c *Client) UnsubscribeFromEvent(eventID uuid.UUID) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.Events, eventID)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeWS upgrades the request and attaches the connection to userID.
func (h *Hub) ServeWS(c *gin.Context, userID uuid.UUID) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	client := newClient(h, userID, conn)
	h.Register <- client

	go client.writePump()
	go client.readPump()
}

func newClient(h *Hub, userID uuid.UUID, conn *websocket.Conn) *Client {
	return &Client{
		ID:     generateClientID(),
		UserID: userID,
		Hub:    h,
		Conn:   conn,
		Send:   make(chan Message, 256),
		Events: make(map[uuid.UUID]bool),
	}
}

func generateClientID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "client_" + hex.EncodeToString(bytes)
}
