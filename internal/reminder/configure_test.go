package reminder

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nikiplan/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestConfigure_RequiresOrganizer(t *testing.T) {
	e := models.Event{OrganizerID: uuid.New(), Date: time.Now().Add(72 * time.Hour)}

	_, err := Configure(e, uuid.New(), []models.ReminderInput{
		{Type: ptr(models.ReminderUpcoming), SendAt: ptr(time.Now())},
	})
	assert.ErrorIs(t, err, models.ErrNotOrganizer)
}

func TestConfigure_DropsInvalidEntries(t *testing.T) {
	date := time.Date(2026, 6, 10, 18, 0, 0, 0, time.UTC)
	before, after := date.Add(-24*time.Hour), date.Add(24*time.Hour)
	e := models.Event{OrganizerID: uuid.New(), Date: date}

	got, err := Configure(e, e.OrganizerID, []models.ReminderInput{
		{Type: ptr(models.ReminderUpcoming), SendAt: ptr(before)},
		{Type: ptr(models.ReminderUpcoming), SendAt: ptr(after)},
		{Type: ptr(models.ReminderNoResponse), SendAt: ptr(after)},
		{Type: ptr(models.ReminderConfirmation), SendAt: ptr(after)},
		{Type: ptr("weekly"), SendAt: ptr(before)},
		{Type: nil, SendAt: ptr(before)},
		{Type: ptr(models.ReminderNoResponse), SendAt: nil},
		{Type: ptr(models.ReminderNoResponse), SendAt: ptr(date)},
	})
	require.NoError(t, err)

	assert.Equal(t, []models.Reminder{
		{Type: models.ReminderUpcoming, SendAt: before},
		{Type: models.ReminderConfirmation, SendAt: after},
		{Type: models.ReminderNoResponse, SendAt: date},
	}, got)
}

func TestConfigure_PreservesSentHistory(t *testing.T) {
	date := time.Date(2026, 6, 10, 18, 0, 0, 0, time.UTC)
	fired := date.Add(-48 * time.Hour)
	e := models.Event{
		OrganizerID: uuid.New(),
		Date:        date,
		Reminders: []models.Reminder{
			{Type: models.ReminderUpcoming, SendAt: fired, Sent: true},
			{Type: models.ReminderNoResponse, SendAt: fired, Sent: false},
		},
	}

	got, err := Configure(e, e.OrganizerID, []models.ReminderInput{
		{Type: ptr(models.ReminderUpcoming), SendAt: ptr(fired)},
		{Type: ptr(models.ReminderNoResponse), SendAt: ptr(fired)},
		{Type: ptr(models.ReminderConfirmation), SendAt: ptr(fired)},
	})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.True(t, got[0].Sent)
	assert.False(t, got[1].Sent)
	assert.False(t, got[2].Sent)
}

func TestConfigure_EmptyInputClearsSchedule(t *testing.T) {
	e := models.Event{
		OrganizerID: uuid.New(),
		Reminders:   []models.Reminder{{Type: models.ReminderUpcoming, SendAt: time.Now()}},
	}

	got, err := Configure(e, e.OrganizerID, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}
