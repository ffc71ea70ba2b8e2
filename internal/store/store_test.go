package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nikiplan/internal/models"
)

func TestMarshalEmbedded_NilListsBecomeEmptyArrays(t *testing.T) {
	attendees, reminders, err := marshalEmbedded(models.Event{})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(attendees))
	assert.JSONEq(t, `[]`, string(reminders))
}

func TestMarshalEmbedded_UsesStoredFieldNames(t *testing.T) {
	sendAt := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	_, reminders, err := marshalEmbedded(models.Event{Reminders: []models.Reminder{
		{Type: models.ReminderUpcoming, SendAt: sendAt},
	}})
	require.NoError(t, err)

	// FindDue reads these keys inside the JSONB column.
	assert.JSONEq(t, `[{"type":"upcoming","send_at":"2026-04-01T08:00:00Z","sent":false}]`, string(reminders))
}

func TestUpdateEventSQL_LeavesEmbeddedListsAlone(t *testing.T) {
	assert.NotContains(t, updateEventSQL, "attendees")
	assert.NotContains(t, updateEventSQL, "reminders")
	assert.Contains(t, updateEventSQL, "updated_at = $10")
}

func TestFilterByPreference_ShortCircuits(t *testing.T) {
	s := NewUserStore(nil)

	got, err := s.FilterByPreference(context.Background(), nil, models.PrefEventReminders)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = s.FilterByPreference(context.Background(), []uuid.UUID{uuid.New()}, models.Preference("marketing"))
	assert.Error(t, err)
}
