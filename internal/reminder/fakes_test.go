package reminder

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"nikiplan/internal/models"
)

type memEvents struct {
	mu      sync.Mutex
	events  map[uuid.UUID]models.Event
	order   []uuid.UUID
	saveErr error
	findErr error
}

func newMemEvents(events ...models.Event) *memEvents {
	m := &memEvents{events: map[uuid.UUID]models.Event{}}
	for _, e := range events {
		m.put(e)
	}
	return m
}

func (m *memEvents) put(e models.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[e.ID]; !ok {
		m.order = append(m.order, e.ID)
	}
	m.events[e.ID] = clone(e)
}

func (m *memEvents) get(id uuid.UUID) models.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.events[id])
}

func (m *memEvents) FindDue(_ context.Context, now time.Time) ([]models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}

	out := []models.Event{}
	for _, id := range m.order {
		e := m.events[id]
		if !e.IsActive {
			continue
		}
		for _, r := range e.Reminders {
			if r.Due(now) {
				out = append(out, clone(e))
				break
			}
		}
	}
	return out, nil
}

func (m *memEvents) SaveReminders(_ context.Context, id uuid.UUID, reminders []models.Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	e, ok := m.events[id]
	if !ok {
		return models.ErrNotFound
	}
	e.Reminders = append([]models.Reminder(nil), reminders...)
	m.events[id] = e
	return nil
}

func clone(e models.Event) models.Event {
	e.Attendees = append([]models.Attendee(nil), e.Attendees...)
	e.Reminders = append([]models.Reminder(nil), e.Reminders...)
	return e
}

type memPrefs struct {
	prefs map[uuid.UUID]models.NotificationPreferences
	err   error
}

func (m *memPrefs) set(id uuid.UUID, reminders, updates bool) {
	if m.prefs == nil {
		m.prefs = map[uuid.UUID]models.NotificationPreferences{}
	}
	m.prefs[id] = models.NotificationPreferences{EventReminders: reminders, EventUpdates: updates}
}

func (m *memPrefs) FilterByPreference(_ context.Context, ids []uuid.UUID, pref models.Preference) ([]uuid.UUID, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []uuid.UUID{}
	// reverse order on purpose: callers must not depend on store ordering
	for i := len(ids) - 1; i >= 0; i-- {
		p := m.prefs[ids[i]]
		if (pref == models.PrefEventReminders && p.EventReminders) ||
			(pref == models.PrefEventUpdates && p.EventUpdates) {
			out = append(out, ids[i])
		}
	}
	return out, nil
}

type recorder struct {
	mu        sync.Mutex
	created   []models.Notification
	failAfter int
}

var errNotify = errors.New("notification store down")

func (r *recorder) Create(_ context.Context, n models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAfter > 0 && len(r.created) >= r.failAfter {
		return errNotify
	}
	r.created = append(r.created, n)
	return nil
}

func (r *recorder) all() []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Notification(nil), r.created...)
}

func (r *recorder) recipients() []uuid.UUID {
	out := []uuid.UUID{}
	for _, n := range r.all() {
		out = append(out, n.UserID)
	}
	return out
}

func attendee(id uuid.UUID, status string) models.Attendee {
	return models.Attendee{UserID: id, Status: status, InvitedAt: time.Now()}
}
