package handlers

import (
	"github.com/gin-gonic/gin"

	"nikiplan/internal/websocket"
)

type WebSocketHandler struct {
	hub *websocket.Hub
}

func NewWebSocketHandler(hub *websocket.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// HandleWebSocket upgrades HTTP connection to WebSocket
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	h.hub.ServeWS(c, userID)
}
