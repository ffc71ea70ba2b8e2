package models

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrNotOrganizer      = errors.New("only the organizer can perform this action")
	ErrForbidden         = errors.New("access denied")
	ErrAlreadyAttendee   = errors.New("user is already on the attendee list")
	ErrEventFull         = errors.New("event is at capacity")
	ErrTooManyEvents     = errors.New("maximum number of active events reached")
	ErrInvalidTransition = errors.New("invalid attendee status change")
	ErrEventInactive     = errors.New("event is not active")
)
