//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nikiplan/internal/config"
	"nikiplan/internal/database"
	"nikiplan/internal/models"
)

// Run with: DB_HOST=localhost go test -tags integration ./internal/store/...
func connectTestDB(t *testing.T) *database.DB {
	t.Helper()
	ctx := context.Background()

	db, err := database.Connect(ctx, config.Load().Database, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, database.Migrate(ctx, db))
	return db
}

func seedOrganizer(t *testing.T, db *database.DB) uuid.UUID {
	t.Helper()
	id := uuid.New()
	now := time.Now()
	require.NoError(t, NewUserStore(db).Create(context.Background(), models.User{
		ID:        id,
		Username:  "org-" + id.String()[:8],
		Email:     id.String() + "@example.com",
		Role:      models.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}))
	return id
}

func seedEvent(t *testing.T, s *EventStore, organizer uuid.UUID, active bool, reminders ...models.Reminder) models.Event {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	e := models.Event{
		ID:          uuid.New(),
		Title:       "Board game night",
		Date:        now.Add(72 * time.Hour),
		Time:        "19:00",
		OrganizerID: organizer,
		Visibility:  models.VisibilityPrivate,
		IsActive:    active,
		Reminders:   reminders,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, s.Create(context.Background(), e))
	return e
}

func dueIDs(t *testing.T, s *EventStore, now time.Time) map[uuid.UUID]bool {
	t.Helper()
	events, err := s.FindDue(context.Background(), now)
	require.NoError(t, err)
	ids := map[uuid.UUID]bool{}
	for _, e := range events {
		ids[e.ID] = true
	}
	return ids
}

func TestEventStore_FindDue(t *testing.T) {
	db := connectTestDB(t)
	s := NewEventStore(db)
	organizer := seedOrganizer(t, db)
	now := time.Now().UTC().Truncate(time.Second)

	due := seedEvent(t, s, organizer, true,
		models.Reminder{Type: models.ReminderUpcoming, SendAt: now.Add(-time.Hour), Sent: true},
		models.Reminder{Type: models.ReminderNoResponse, SendAt: now.Add(-time.Minute)},
	)
	atNow := seedEvent(t, s, organizer, true, models.Reminder{Type: models.ReminderUpcoming, SendAt: now})
	alreadySent := seedEvent(t, s, organizer, true, models.Reminder{Type: models.ReminderUpcoming, SendAt: now.Add(-time.Hour), Sent: true})
	future := seedEvent(t, s, organizer, true, models.Reminder{Type: models.ReminderUpcoming, SendAt: now.Add(time.Hour)})
	inactive := seedEvent(t, s, organizer, false, models.Reminder{Type: models.ReminderUpcoming, SendAt: now.Add(-time.Hour)})
	empty := seedEvent(t, s, organizer, true)

	ids := dueIDs(t, s, now)
	assert.True(t, ids[due.ID])
	assert.True(t, ids[atNow.ID])
	assert.False(t, ids[alreadySent.ID])
	assert.False(t, ids[future.ID])
	assert.False(t, ids[inactive.ID])
	assert.False(t, ids[empty.ID])

	events, err := s.FindDue(context.Background(), now)
	require.NoError(t, err)
	for _, e := range events {
		if e.ID == due.ID {
			require.Len(t, e.Reminders, 2)
			assert.True(t, e.Reminders[0].Sent)
			assert.True(t, now.Add(-time.Minute).Equal(e.Reminders[1].SendAt))
		}
	}

	require.NoError(t, s.SaveReminders(context.Background(), due.ID, []models.Reminder{
		{Type: models.ReminderUpcoming, SendAt: now.Add(-time.Hour), Sent: true},
		{Type: models.ReminderNoResponse, SendAt: now.Add(-time.Minute), Sent: true},
	}))
	assert.False(t, dueIDs(t, s, now)[due.ID])
}

func TestEventStore_UpdateKeepsSentFlags(t *testing.T) {
	db := connectTestDB(t)
	s := NewEventStore(db)
	now := time.Now().UTC().Truncate(time.Second)

	stale := seedEvent(t, s, seedOrganizer(t, db), true,
		models.Reminder{Type: models.ReminderUpcoming, SendAt: now.Add(-time.Minute)})

	require.NoError(t, s.SaveReminders(context.Background(), stale.ID, []models.Reminder{
		{Type: models.ReminderUpcoming, SendAt: now.Add(-time.Minute), Sent: true},
	}))

	stale.Title = "Board game night, 2nd edition"
	require.NoError(t, s.Update(context.Background(), stale))

	got, err := s.Get(context.Background(), stale.ID)
	require.NoError(t, err)
	assert.Equal(t, stale.Title, got.Title)
	require.Len(t, got.Reminders, 1)
	assert.True(t, got.Reminders[0].Sent)
	assert.False(t, dueIDs(t, s, now)[stale.ID])
}
