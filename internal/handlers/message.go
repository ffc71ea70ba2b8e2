package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nikiplan/internal/models"
)

func (h *EventHandler) GetMessages(c *gin.Context) {
	userID, eventID, ok := callerAndEvent(c)
	if !ok {
		return
	}

	messages, err := h.events.Messages(c.Request.Context(), userID, eventID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

func (h *EventHandler) PostMessage(c *gin.Context) {
	userID, eventID, ok := callerAndEvent(c)
	if !ok {
		return
	}

	var req models.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.events.PostMessage(c.Request.Context(), userID, eventID, req.Content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}
