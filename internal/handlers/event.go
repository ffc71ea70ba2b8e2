package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"nikiplan/internal/auth"
	"nikiplan/internal/models"
)

type eventService interface {
	Create(ctx context.Context, organizer uuid.UUID, req models.CreateEventRequest) (models.Event, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Event, error)
	Get(ctx context.Context, userID, id uuid.UUID) (models.Event, error)
	Update(ctx context.Context, userID, id uuid.UUID, req models.UpdateEventRequest) (models.Event, error)
	Delete(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) error

	Invite(ctx context.Context, organizer, id uuid.UUID, email string) (models.Attendee, error)
	Join(ctx context.Context, userID, id uuid.UUID) (models.Attendee, error)
	RSVP(ctx context.Context, userID, id uuid.UUID, status string) (models.Attendee, error)
	RespondToRequest(ctx context.Context, organizer, id, requester uuid.UUID, status string) (models.Attendee, error)
	Attendees(ctx context.Context, userID, id uuid.UUID) ([]models.Attendee, error)

	Reminders(ctx context.Context, userID, id uuid.UUID) ([]models.Reminder, error)
	ConfigureReminders(ctx context.Context, userID, id uuid.UUID, input []models.ReminderInput) ([]models.Reminder, error)
	SendUpdateNotice(ctx context.Context, userID, id uuid.UUID, note string) (int, error)

	Messages(ctx context.Context, userID, id uuid.UUID) ([]models.Message, error)
	PostMessage(ctx context.Context, userID, id uuid.UUID, content string) (models.Message, error)
}

type EventHandler struct {
	events    eventService
	validator *validator.Validate
	log       *zap.Logger
}

func NewEventHandler(events eventService, log *zap.Logger) *EventHandler {
	return &EventHandler{
		events:    events,
		validator: validator.New(),
		log:       log,
	}
}

// callerAndEvent reads the session user and the :id path parameter.
func callerAndEvent(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := requireUser(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	eventID, ok := paramID(c, "id")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return userID, eventID, true
}

func (h *EventHandler) GetEvents(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	events, err := h.events.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.events.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	userID, eventID, ok := callerAndEvent(c)
	if !ok {
		return
	}

	event, err := h.events.Get(c.Request.Context(), userID, eventID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) UpdateEvent(c *gin.Context) {
	userID, eventID, ok := callerAndEvent(c)
	if !ok {
		return
	}

	var req models.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.events.Update(c.Request.Context(), userID, eventID, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) DeleteEvent(c *gin.Context) {
	userID, eventID, ok := callerAndEvent(c)
	if !ok {
		return
	}

	if err := h.events.Delete(c.Request.Context(), userID, auth.GetUserRole(c), eventID); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}
