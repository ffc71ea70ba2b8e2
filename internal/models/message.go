package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a post on an event's board.
type Message struct {
	ID        uuid.UUID `json:"id" db:"id"`
	EventID   uuid.UUID `json:"event_id" db:"event_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Joined fields
	Username string `json:"username,omitempty"`
}

type CreateMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}
