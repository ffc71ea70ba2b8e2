package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

const (
	AttendeePending   = "pending"
	AttendeeAccepted  = "accepted"
	AttendeeDeclined  = "declined"
	AttendeeRequested = "requested"
)

const (
	ReminderUpcoming     = "upcoming"
	ReminderConfirmation = "confirmation"
	ReminderNoResponse   = "no_response"
)

type Event struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Date        time.Time  `json:"date" db:"date"`
	Time        string     `json:"time" db:"time"`
	Location    string     `json:"location" db:"location"`
	OrganizerID uuid.UUID  `json:"organizer_id" db:"organizer_id"`
	Visibility  string     `json:"visibility" db:"visibility"`
	Capacity    *int       `json:"capacity,omitempty" db:"capacity"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	Attendees   []Attendee `json:"attendees" db:"attendees"`
	Reminders   []Reminder `json:"reminders" db:"reminders"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Attendee and Reminder have no identity outside their event; they are
// addressed by index and saved together with it.
type Attendee struct {
	UserID      uuid.UUID  `json:"user_id"`
	Status      string     `json:"status"`
	InvitedAt   time.Time  `json:"invited_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

type Reminder struct {
	Type   string    `json:"type"`
	SendAt time.Time `json:"send_at"`
	Sent   bool      `json:"sent"`
}

// Due reports whether the reminder should fire at now.
func (r Reminder) Due(now time.Time) bool {
	return !r.Sent && !r.SendAt.After(now)
}

func IsReminderType(t string) bool {
	switch t {
	case ReminderUpcoming, ReminderConfirmation, ReminderNoResponse:
		return true
	}
	return false
}

// NewEvent builds an active event owned by organizer, seeded with one
// upcoming reminder placed DefaultReminderHoursBefore the event date.
func NewEvent(organizer uuid.UUID, req CreateEventRequest, settings Settings, now time.Time) Event {
	visibility := req.Visibility
	if visibility == "" {
		visibility = VisibilityPublic
	}

	lead := time.Duration(settings.DefaultReminderHoursBefore) * time.Hour

	return Event{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		Location:    req.Location,
		OrganizerID: organizer,
		Visibility:  visibility,
		Capacity:    req.Capacity,
		IsActive:    true,
		Attendees:   []Attendee{},
		Reminders: []Reminder{{
			Type:   ReminderUpcoming,
			SendAt: req.Date.Add(-lead),
			Sent:   false,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (e *Event) IsOrganizer(userID uuid.UUID) bool {
	return e.OrganizerID == userID
}

// AttendeeIndex returns the position of userID in the attendee list, or -1.
func (e *Event) AttendeeIndex(userID uuid.UUID) int {
	for i, a := range e.Attendees {
		if a.UserID == userID {
			return i
		}
	}
	return -1
}

// AddAttendee appends userID with the given status. A user appears at most
// once in the list.
func (e *Event) AddAttendee(userID uuid.UUID, status string, now time.Time) error {
	if e.IsOrganizer(userID) || e.AttendeeIndex(userID) >= 0 {
		return ErrAlreadyAttendee
	}
	e.Attendees = append(e.Attendees, Attendee{
		UserID:    userID,
		Status:    status,
		InvitedAt: now,
	})
	return nil
}

func (e *Event) AcceptedCount() int {
	n := 0
	for _, a := range e.Attendees {
		if a.Status == AttendeeAccepted {
			n++
		}
	}
	return n
}

// SetAttendeeStatus moves the attendee at index i to status, enforcing
// capacity on acceptance.
func (e *Event) SetAttendeeStatus(i int, status string, now time.Time) error {
	a := &e.Attendees[i]
	if status == AttendeeAccepted && a.Status != AttendeeAccepted &&
		e.Capacity != nil && e.AcceptedCount() >= *e.Capacity {
		return ErrEventFull
	}
	a.Status = status
	a.RespondedAt = &now
	return nil
}

// CanView reports whether userID may read the event and its board.
func (e *Event) CanView(userID uuid.UUID) bool {
	if e.Visibility == VisibilityPublic || e.IsOrganizer(userID) {
		return true
	}
	return e.AttendeeIndex(userID) >= 0
}

// CanPost reports whether userID may write to the event's message board.
func (e *Event) CanPost(userID uuid.UUID) bool {
	if e.IsOrganizer(userID) {
		return true
	}
	i := e.AttendeeIndex(userID)
	return i >= 0 && e.Attendees[i].Status == AttendeeAccepted
}

type CreateEventRequest struct {
	Title       string    `json:"title" validate:"required,min=1,max=255"`
	Description string    `json:"description" validate:"max=5000"`
	Date        time.Time `json:"date" validate:"required"`
	Time        string    `json:"time" validate:"required"`
	Location    string    `json:"location" validate:"max=255"`
	Visibility  string    `json:"visibility" validate:"omitempty,oneof=public private"`
	Capacity    *int      `json:"capacity" validate:"omitempty,min=1"`
}

type UpdateEventRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	Date        *time.Time `json:"date,omitempty"`
	Time        *string    `json:"time,omitempty"`
	Location    *string    `json:"location,omitempty" validate:"omitempty,max=255"`
	Visibility  *string    `json:"visibility,omitempty" validate:"omitempty,oneof=public private"`
	Capacity    *int       `json:"capacity,omitempty" validate:"omitempty,min=1"`
	IsActive    *bool      `json:"is_active,omitempty"`
}

// Apply copies the set fields of req onto e.
func (req UpdateEventRequest) Apply(e *Event, now time.Time) {
	if req.Title != nil {
		e.Title = *req.Title
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Date != nil {
		e.Date = *req.Date
	}
	if req.Time != nil {
		e.Time = *req.Time
	}
	if req.Location != nil {
		e.Location = *req.Location
	}
	if req.Visibility != nil {
		e.Visibility = *req.Visibility
	}
	if req.Capacity != nil {
		e.Capacity = req.Capacity
	}
	if req.IsActive != nil {
		e.IsActive = *req.IsActive
	}
	e.UpdatedAt = now
}

type InviteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type RSVPRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted declined"`
}

// ReminderInput is one entry of a reminder reconfiguration request. Fields
// are pointers so missing values can be told apart from zero values.
type ReminderInput struct {
	Type   *string    `json:"type"`
	SendAt *time.Time `json:"send_at"`
}

// UnmarshalJSON never fails: a field that is null or does not decode is left
// nil, so the entry is dropped later instead of rejecting the whole request.
func (r *ReminderInput) UnmarshalJSON(data []byte) error {
	*r = ReminderInput{}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	var reminderType string
	if decodeField(raw["type"], &reminderType) {
		r.Type = &reminderType
	}
	var sendAt time.Time
	if decodeField(raw["send_at"], &sendAt) {
		r.SendAt = &sendAt
	}
	return nil
}

func decodeField(v json.RawMessage, dst any) bool {
	if len(v) == 0 || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		return false
	}
	return json.Unmarshal(v, dst) == nil
}

type ConfigureRemindersRequest struct {
	Reminders []ReminderInput `json:"reminders"`
}

type UpdateNoticeRequest struct {
	Message string `json:"message" validate:"max=1000"`
}
