package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"nikiplan/internal/models"
)

type memEvents struct {
	mu     sync.Mutex
	events map[uuid.UUID]models.Event
}

func newMemEvents() *memEvents {
	return &memEvents{events: map[uuid.UUID]models.Event{}}
}

func (m *memEvents) Create(_ context.Context, e models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.events[e.ID]
	if !ok {
		return models.ErrNotFound
	}
	e.Attendees, e.Reminders = stored.Attendees, stored.Reminders
	m.events[e.ID] = e
	return nil
}

func (m *memEvents) Get(_ context.Context, id uuid.UUID) (models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return models.Event{}, models.ErrNotFound
	}
	e.Attendees = append([]models.Attendee(nil), e.Attendees...)
	e.Reminders = append([]models.Reminder(nil), e.Reminders...)
	return e, nil
}

func (m *memEvents) Update(_ context.Context, e models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[e.ID] = e
	return nil
}

func (m *memEvents) SaveReminders(_ context.Context, id uuid.UUID, reminders []models.Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.events[id]
	e.Reminders = reminders
	m.events[id] = e
	return nil
}

func (m *memEvents) SaveAttendees(_ context.Context, id uuid.UUID, attendees []models.Attendee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.events[id]
	e.Attendees = attendees
	m.events[id] = e
	return nil
}

func (m *memEvents) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.events, id)
	return nil
}

func (m *memEvents) ListVisible(_ context.Context, userID uuid.UUID) ([]models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Event{}
	for _, e := range m.events {
		if e.CanView(userID) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memEvents) CountActiveByOrganizer(_ context.Context, userID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.events {
		if e.OrganizerID == userID && e.IsActive {
			n++
		}
	}
	return n, nil
}

type memUsers map[string]models.User

func (m memUsers) GetByEmail(_ context.Context, email string) (models.User, error) {
	u, ok := m[email]
	if !ok {
		return models.User{}, models.ErrNotFound
	}
	return u, nil
}

type memMessages struct {
	messages []models.Message
}

func (m *memMessages) Create(_ context.Context, msg models.Message) error {
	m.messages = append(m.messages, msg)
	return nil
}

func (m *memMessages) ListByEvent(_ context.Context, eventID uuid.UUID) ([]models.Message, error) {
	out := []models.Message{}
	for _, msg := range m.messages {
		if msg.EventID == eventID {
			out = append(out, msg)
		}
	}
	return out, nil
}

type recorder struct {
	created []models.Notification
}

func (r *recorder) Create(_ context.Context, n models.Notification) error {
	r.created = append(r.created, n)
	return nil
}

// acceptedAudience returns every accepted attendee not listed in optedOut.
type acceptedAudience struct {
	optedOut map[uuid.UUID]bool
}

func (a acceptedAudience) AcceptedWithUpdatePref(_ context.Context, e models.Event) ([]uuid.UUID, error) {
	out := []uuid.UUID{}
	for _, at := range e.Attendees {
		if at.Status == models.AttendeeAccepted && !a.optedOut[at.UserID] {
			out = append(out, at.UserID)
		}
	}
	return out, nil
}

type memBroadcaster struct {
	messages []models.Message
	updates  []models.Event
}

func (b *memBroadcaster) BroadcastBoardMessage(m models.Message) { b.messages = append(b.messages, m) }

func (b *memBroadcaster) BroadcastEventUpdate(e models.Event) { b.updates = append(b.updates, e) }

var fixedNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
