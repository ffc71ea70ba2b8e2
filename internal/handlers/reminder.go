package handlers

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nikiplan/internal/auth"
	"nikiplan/internal/models"
	"nikiplan/internal/reminder"
)

// InternalSecretHeader authorizes scan triggers from schedulers outside the
// process.
const InternalSecretHeader = "X-Internal-Secret"

type tickRunner interface {
	Run(ctx context.Context) (reminder.Summary, error)
}

func (h *EventHandler) GetReminders(c *gin.Context) {
	userID, eventID, ok := callerAndEvent(c)
	if !ok {
		return
	}

	reminders, err := h.events.Reminders(c.Request.Context(), userID, eventID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, reminders)
}

// ConfigureReminders replaces the schedule. Malformed entries are dropped and
// the stored list is returned.
func (h *EventHandler) ConfigureReminders(c *gin.Context) {
	userID, eventID, ok := callerAndEvent(c)
	if !ok {
		return
	}

	var req models.ConfigureRemindersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	reminders, err := h.events.ConfigureReminders(c.Request.Context(), userID, eventID, req.Reminders)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, reminders)
}

func (h *EventHandler) SendUpdateNotice(c *gin.Context) {
	userID, eventID, ok := callerAndEvent(c)
	if !ok {
		return
	}

	var req models.UpdateNoticeRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	count, err := h.events.SendUpdateNotice(c.Request.Context(), userID, eventID, req.Message)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

type TriggerHandler struct {
	scanner tickRunner
	secret  string
	log     *zap.Logger
}

func NewTriggerHandler(scanner tickRunner, secret string, log *zap.Logger) *TriggerHandler {
	return &TriggerHandler{scanner: scanner, secret: secret, log: log}
}

// Trigger runs one scan tick. Tick errors are logged; the response always
// carries the summary.
func (h *TriggerHandler) Trigger(c *gin.Context) {
	if !h.hasSecret(c) {
		if _, ok := requireUser(c); !ok {
			return
		}
		if !auth.HasRole(c, models.RoleAdmin, models.RoleOrganizer) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
	}

	summary, err := h.scanner.Run(c.Request.Context())
	if err != nil {
		h.log.Error("Triggered reminder tick failed", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"message": summary.String()})
}

func (h *TriggerHandler) hasSecret(c *gin.Context) bool {
	got := c.GetHeader(InternalSecretHeader)
	if h.secret == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) == 1
}
