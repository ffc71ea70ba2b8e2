package reminder

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"nikiplan/internal/models"
)

type preferenceFilter interface {
	FilterByPreference(ctx context.Context, ids []uuid.UUID, pref models.Preference) ([]uuid.UUID, error)
}

// Resolver computes who should be notified about an event. Only explicit
// attendees are considered; the organizer is never added.
type Resolver struct {
	users preferenceFilter
}

func NewResolver(users preferenceFilter) *Resolver {
	return &Resolver{users: users}
}

// AcceptedWithReminderPref returns accepted attendees that opted in to event
// reminders.
func (r *Resolver) AcceptedWithReminderPref(ctx context.Context, e models.Event) ([]uuid.UUID, error) {
	return r.acceptedWith(ctx, e, models.PrefEventReminders)
}

// AcceptedWithUpdatePref returns accepted attendees that opted in to event
// update notices.
func (r *Resolver) AcceptedWithUpdatePref(ctx context.Context, e models.Event) ([]uuid.UUID, error) {
	return r.acceptedWith(ctx, e, models.PrefEventUpdates)
}

// NonResponding returns pending attendees. Preferences are not consulted.
func (r *Resolver) NonResponding(_ context.Context, e models.Event) ([]uuid.UUID, error) {
	return withStatus(e, models.AttendeePending), nil
}

// ForReminder dispatches on the reminder type.
func (r *Resolver) ForReminder(ctx context.Context, e models.Event, reminderType string) ([]uuid.UUID, error) {
	switch reminderType {
	case models.ReminderUpcoming, models.ReminderConfirmation:
		return r.AcceptedWithReminderPref(ctx, e)
	case models.ReminderNoResponse:
		return r.NonResponding(ctx, e)
	default:
		return nil, fmt.Errorf("unknown reminder type %q", reminderType)
	}
}

func (r *Resolver) acceptedWith(ctx context.Context, e models.Event, pref models.Preference) ([]uuid.UUID, error) {
	accepted := withStatus(e, models.AttendeeAccepted)
	if len(accepted) == 0 {
		return accepted, nil
	}

	allowed, err := r.users.FilterByPreference(ctx, accepted, pref)
	if err != nil {
		return nil, fmt.Errorf("filter by %s: %w", pref, err)
	}

	keep := make(map[uuid.UUID]bool, len(allowed))
	for _, id := range allowed {
		keep[id] = true
	}

	out := make([]uuid.UUID, 0, len(allowed))
	for _, id := range accepted {
		if keep[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

// withStatus keeps attendee order and drops repeated user ids.
func withStatus(e models.Event, status string) []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	out := []uuid.UUID{}
	for _, a := range e.Attendees {
		if a.Status != status || seen[a.UserID] || a.UserID == e.OrganizerID {
			continue
		}
		seen[a.UserID] = true
		out = append(out, a.UserID)
	}
	return out
}
