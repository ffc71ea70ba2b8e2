package reminder

import (
	"time"

	"github.com/google/uuid"

	"nikiplan/internal/models"
)

// Configure validates a replacement reminder schedule for e on behalf of
// requester and returns the list to persist.
//
// Entries missing a type or send time, with an unknown type, or (for
// upcoming and no_response) scheduled after the event date are dropped.
// Confirmation reminders may be scheduled after the event. An entry that
// matches an already sent reminder of the current list by type and send
// time stays sent.
func Configure(e models.Event, requester uuid.UUID, input []models.ReminderInput) ([]models.Reminder, error) {
	if !e.IsOrganizer(requester) {
		return nil, models.ErrNotOrganizer
	}

	out := make([]models.Reminder, 0, len(input))
	for _, in := range input {
		if in.Type == nil || in.SendAt == nil {
			continue
		}
		t, sendAt := *in.Type, *in.SendAt
		if !models.IsReminderType(t) {
			continue
		}
		if t != models.ReminderConfirmation && sendAt.After(e.Date) {
			continue
		}

		out = append(out, models.Reminder{
			Type:   t,
			SendAt: sendAt,
			Sent:   alreadySent(e.Reminders, t, sendAt),
		})
	}
	return out, nil
}

func alreadySent(previous []models.Reminder, t string, sendAt time.Time) bool {
	for _, r := range previous {
		if r.Sent && r.Type == t && r.SendAt.Equal(sendAt) {
			return true
		}
	}
	return false
}
