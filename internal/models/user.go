package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

type User struct {
	ID                      uuid.UUID               `json:"id" db:"id"`
	Username                string                  `json:"username" db:"username"`
	Email                   string                  `json:"email" db:"email"`
	PasswordHash            *string                 `json:"-" db:"password_hash"`
	Role                    string                  `json:"role" db:"role"`
	NotificationPreferences NotificationPreferences `json:"notification_preferences"`
	CreatedAt               time.Time               `json:"created_at" db:"created_at"`
	UpdatedAt               time.Time               `json:"updated_at" db:"updated_at"`
}

type NotificationPreferences struct {
	EventReminders bool `json:"event_reminders" db:"event_reminders"`
	EventUpdates   bool `json:"event_updates" db:"event_updates"`
}

// Preference names a boolean notification preference column.
type Preference string

const (
	PrefEventReminders Preference = "event_reminders"
	PrefEventUpdates   Preference = "event_updates"
)

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	EmailOrUsername string `json:"email_or_username" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type UpdatePreferencesRequest struct {
	EventReminders *bool `json:"event_reminders"`
	EventUpdates   *bool `json:"event_updates"`
}
