package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nikiplan/internal/models"
)

func (h *EventHandler) InviteAttendee(c *gin.Context) {
	userID, eventID, ok := callerAndEvent(c)
	if !ok {
		return
	}

	var req models.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attendee, err := h.events.Invite(c.Request.Context(), userID, eventID, req.Email)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, attendee)
}

func (h *EventHandler) JoinEvent(c *gin.Context) {
	userID, eventID, ok := callerAndEvent(c)
	if !ok {
		return
	}

	attendee, err := h.events.Join(c.Request.Context(), userID, eventID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, attendee)
}

func (h *EventHandler) RSVP(c *gin.Context) {
	userID, eventID, ok := callerAndEvent(c)
	if !ok {
		return
	}

	var req models.RSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attendee, err := h.events.RSVP(c.Request.Context(), userID, eventID, req.Status)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, attendee)
}

// RespondToRequest lets the organizer accept or decline a join request.
func (h *EventHandler) RespondToRequest(c *gin.Context) {
	userID, eventID, ok := callerAndEvent(c)
	if !ok {
		return
	}
	requester, ok := paramID(c, "userId")
	if !ok {
		return
	}

	var req models.RSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attendee, err := h.events.RespondToRequest(c.Request.Context(), userID, eventID, requester, req.Status)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, attendee)
}

func (h *EventHandler) GetAttendees(c *gin.Context) {
	userID, eventID, ok := callerAndEvent(c)
	if !ok {
		return
	}

	attendees, err := h.events.Attendees(c.Request.Context(), userID, eventID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, attendees)
}
