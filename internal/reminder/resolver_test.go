package reminder

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nikiplan/internal/models"
)

func TestResolver_AcceptedWithReminderPref(t *testing.T) {
	optedIn, optedOut, pending, declined := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	prefs := &memPrefs{}
	prefs.set(optedIn, true, false)
	prefs.set(optedOut, false, true)
	prefs.set(pending, true, true)
	prefs.set(declined, true, true)

	e := models.Event{
		OrganizerID: uuid.New(),
		Attendees: []models.Attendee{
			attendee(optedIn, models.AttendeeAccepted),
			attendee(optedOut, models.AttendeeAccepted),
			attendee(pending, models.AttendeePending),
			attendee(declined, models.AttendeeDeclined),
		},
	}

	got, err := NewResolver(prefs).AcceptedWithReminderPref(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{optedIn}, got)

	got, err = NewResolver(prefs).AcceptedWithUpdatePref(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{optedOut}, got)
}

func TestResolver_KeepsAttendeeOrderAndDedupes(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	prefs := &memPrefs{}
	prefs.set(a, true, true)
	prefs.set(b, true, true)

	e := models.Event{Attendees: []models.Attendee{
		attendee(a, models.AttendeeAccepted),
		attendee(b, models.AttendeeAccepted),
		attendee(a, models.AttendeeAccepted),
	}}

	got, err := NewResolver(prefs).AcceptedWithReminderPref(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, got)
}

func TestResolver_NonRespondingIgnoresPreferences(t *testing.T) {
	pending, accepted, declined, requested := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	prefs := &memPrefs{}
	prefs.set(pending, false, false)

	e := models.Event{Attendees: []models.Attendee{
		attendee(accepted, models.AttendeeAccepted),
		attendee(pending, models.AttendeePending),
		attendee(declined, models.AttendeeDeclined),
		attendee(requested, models.AttendeeRequested),
	}}

	got, err := NewResolver(prefs).NonResponding(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{pending}, got)
}

func TestResolver_NeverAddsOrganizer(t *testing.T) {
	organizer := uuid.New()
	prefs := &memPrefs{}
	prefs.set(organizer, true, true)

	got, err := NewResolver(prefs).AcceptedWithReminderPref(context.Background(), models.Event{OrganizerID: organizer})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestResolver_ForReminder(t *testing.T) {
	accepted, pending := uuid.New(), uuid.New()
	prefs := &memPrefs{}
	prefs.set(accepted, true, true)
	prefs.set(pending, true, true)
	e := models.Event{Attendees: []models.Attendee{
		attendee(accepted, models.AttendeeAccepted),
		attendee(pending, models.AttendeePending),
	}}
	r := NewResolver(prefs)

	for _, tc := range []struct {
		reminderType string
		want         []uuid.UUID
	}{
		{models.ReminderUpcoming, []uuid.UUID{accepted}},
		{models.ReminderConfirmation, []uuid.UUID{accepted}},
		{models.ReminderNoResponse, []uuid.UUID{pending}},
	} {
		t.Run(tc.reminderType, func(t *testing.T) {
			got, err := r.ForReminder(context.Background(), e, tc.reminderType)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := r.ForReminder(context.Background(), e, "weekly")
	assert.Error(t, err)
}

func TestResolver_StoreError(t *testing.T) {
	prefs := &memPrefs{err: errors.New("boom")}
	e := models.Event{Attendees: []models.Attendee{attendee(uuid.New(), models.AttendeeAccepted)}}

	_, err := NewResolver(prefs).AcceptedWithReminderPref(context.Background(), e)
	assert.ErrorContains(t, err, "boom")
}
