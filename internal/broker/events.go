package broker

import (
	"time"

	"nikiplan/internal/models"
)

// NotificationCreated is the message body published for every stored
// notification.
type NotificationCreated struct {
	NotificationID string    `json:"notification_id"`
	UserID         string    `json:"user_id"`
	EventID        string    `json:"event_id"`
	Type           string    `json:"type"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewNotificationCreated(n models.Notification) NotificationCreated {
	return NotificationCreated{
		NotificationID: n.ID.String(),
		UserID:         n.UserID.String(),
		EventID:        n.EventID.String(),
		Type:           n.Type,
		Message:        n.Message,
		CreatedAt:      n.CreatedAt,
	}
}
