package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"nikiplan/internal/models"
)

type userProfiles interface {
	Get(ctx context.Context, id uuid.UUID) (models.User, error)
	UpdatePreferences(ctx context.Context, id uuid.UUID, prefs models.NotificationPreferences) error
}

type UserHandler struct {
	users userProfiles
	log   *zap.Logger
}

func NewUserHandler(users userProfiles, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) GetPreferences(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, user.NotificationPreferences)
}

// UpdatePreferences changes only the fields present in the body.
func (h *UserHandler) UpdatePreferences(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req models.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	prefs := user.NotificationPreferences
	if req.EventReminders != nil {
		prefs.EventReminders = *req.EventReminders
	}
	if req.EventUpdates != nil {
		prefs.EventUpdates = *req.EventUpdates
	}

	if err := h.users.UpdatePreferences(c.Request.Context(), userID, prefs); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, prefs)
}
