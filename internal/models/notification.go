package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationInvitation = "invitation"
	NotificationReminder   = "reminder"
	NotificationUpdate     = "update"
	NotificationNoResponse = "no_response"
)

type Notification struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	EventID   uuid.UUID `json:"event_id" db:"event_id"`
	Type      string    `json:"type" db:"type"`
	Message   string    `json:"message" db:"message"`
	IsRead    bool      `json:"is_read" db:"is_read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func NewNotification(userID, eventID uuid.UUID, notificationType, message string, now time.Time) Notification {
	return Notification{
		ID:        uuid.New(),
		UserID:    userID,
		EventID:   eventID,
		Type:      notificationType,
		Message:   message,
		CreatedAt: now,
	}
}

type NotificationQuery struct {
	Limit      int
	Offset     int
	UnreadOnly bool
}
