package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"nikiplan/internal/database"
	"nikiplan/internal/models"
)

const eventColumns = `id, title, description, date, time, location, organizer_id,
	visibility, capacity, is_active, attendees, reminders, created_at, updated_at`

const updateEventSQL = `UPDATE events
	SET title = $2, description = $3, date = $4, time = $5, location = $6,
	    visibility = $7, capacity = $8, is_active = $9, updated_at = $10
	WHERE id = $1`

type EventStore struct {
	db *database.DB
}

func NewEventStore(db *database.DB) *EventStore {
	return &EventStore{db: db}
}

func (s *EventStore) Create(ctx context.Context, e models.Event) error {
	attendees, reminders, err := marshalEmbedded(e)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO events (`+eventColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		e.ID, e.Title, e.Description, e.Date, e.Time, e.Location, e.OrganizerID,
		e.Visibility, e.Capacity, e.IsActive, attendees, reminders, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (s *EventStore) Get(ctx context.Context, id uuid.UUID) (models.Event, error) {
	row := s.db.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Event{}, models.ErrNotFound
		}
		return models.Event{}, fmt.Errorf("failed to get event: %w", err)
	}
	return e, nil
}

// Update writes the editable event fields. Attendees and reminders are owned
// by SaveAttendees and SaveReminders and are left untouched.
func (s *EventStore) Update(ctx context.Context, e models.Event) error {
	tag, err := s.db.Exec(ctx, updateEventSQL,
		e.ID, e.Title, e.Description, e.Date, e.Time, e.Location,
		e.Visibility, e.Capacity, e.IsActive, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SaveReminders replaces only the reminder list of an event.
func (s *EventStore) SaveReminders(ctx context.Context, id uuid.UUID, reminders []models.Reminder) error {
	return s.saveJSON(ctx, id, "reminders", reminders)
}

// SaveAttendees replaces only the attendee list of an event.
func (s *EventStore) SaveAttendees(ctx context.Context, id uuid.UUID, attendees []models.Attendee) error {
	return s.saveJSON(ctx, id, "attendees", attendees)
}

func (s *EventStore) saveJSON(ctx context.Context, id uuid.UUID, column string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", column, err)
	}

	tag, err := s.db.Exec(ctx,
		`UPDATE events SET `+column+` = $2, updated_at = $3 WHERE id = $1`,
		id, data, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *EventStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM events WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListVisible returns public events plus the ones userID organizes or is
// listed on, soonest first.
func (s *EventStore) ListVisible(ctx context.Context, userID uuid.UUID) ([]models.Event, error) {
	member, err := json.Marshal([]map[string]uuid.UUID{{"user_id": userID}})
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE visibility = 'public' OR organizer_id = $1 OR attendees @> $2
		 ORDER BY date ASC`,
		userID, member)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return collectEvents(rows)
}

func (s *EventStore) CountActiveByOrganizer(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM events WHERE organizer_id = $1 AND is_active = true",
		userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

// FindDue returns active events holding at least one unsent reminder whose
// send time is not after now.
func (s *EventStore) FindDue(ctx context.Context, now time.Time) ([]models.Event, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+eventColumns+` FROM events e
		 WHERE e.is_active = true
		   AND EXISTS (
		     SELECT 1 FROM jsonb_array_elements(e.reminders) r
		     WHERE (r->>'sent')::boolean = false
		       AND (r->>'send_at')::timestamptz <= $1
		   )
		 ORDER BY e.date ASC`,
		now)
	if err != nil {
		return nil, fmt.Errorf("failed to query due reminders: %w", err)
	}
	return collectEvents(rows)
}

func collectEvents(rows pgx.Rows) ([]models.Event, error) {
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func scanEvent(row pgx.Row) (models.Event, error) {
	var (
		e                    models.Event
		attendees, reminders []byte
	)
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Date, &e.Time, &e.Location, &e.OrganizerID,
		&e.Visibility, &e.Capacity, &e.IsActive, &attendees, &reminders, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return models.Event{}, err
	}

	if err := json.Unmarshal(attendees, &e.Attendees); err != nil {
		return models.Event{}, fmt.Errorf("decode attendees: %w", err)
	}
	if err := json.Unmarshal(reminders, &e.Reminders); err != nil {
		return models.Event{}, fmt.Errorf("decode reminders: %w", err)
	}
	return e, nil
}

func marshalEmbedded(e models.Event) ([]byte, []byte, error) {
	if e.Attendees == nil {
		e.Attendees = []models.Attendee{}
	}
	if e.Reminders == nil {
		e.Reminders = []models.Reminder{}
	}

	attendees, err := json.Marshal(e.Attendees)
	if err != nil {
		return nil, nil, fmt.Errorf("encode attendees: %w", err)
	}
	reminders, err := json.Marshal(e.Reminders)
	if err != nil {
		return nil, nil, fmt.Errorf("encode reminders: %w", err)
	}
	return attendees, reminders, nil
}
