package database

import (
	"context"
	"fmt"
)

// schema is applied in order; every statement is idempotent.
var schema = []struct {
	name string
	sql  string
}{
	{"users", `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username VARCHAR(50) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash TEXT,
			role VARCHAR(20) NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'organizer', 'admin')),
			event_reminders BOOLEAN NOT NULL DEFAULT true,
			event_updates BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"events", `
		CREATE TABLE IF NOT EXISTS events (
			id UUID PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			date TIMESTAMPTZ NOT NULL,
			time VARCHAR(16) NOT NULL DEFAULT '',
			location VARCHAR(255) NOT NULL DEFAULT '',
			organizer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			visibility VARCHAR(10) NOT NULL DEFAULT 'public' CHECK (visibility IN ('public', 'private')),
			capacity INTEGER,
			is_active BOOLEAN NOT NULL DEFAULT true,
			attendees JSONB NOT NULL DEFAULT '[]',
			reminders JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_events_organizer_id ON events(organizer_id);
		CREATE INDEX IF NOT EXISTS idx_events_is_active ON events(is_active);
		CREATE INDEX IF NOT EXISTS idx_events_attendees ON events USING GIN (attendees jsonb_path_ops)`},
	// notifications hold weak references: no foreign keys, nothing cascades
	{"notifications", `
		CREATE TABLE IF NOT EXISTS notifications (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			event_id UUID NOT NULL,
			type VARCHAR(20) NOT NULL CHECK (type IN ('invitation', 'reminder', 'update', 'no_response')),
			message TEXT NOT NULL,
			is_read BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications(user_id, created_at DESC)`},
	{"event_messages", `
		CREATE TABLE IF NOT EXISTS event_messages (
			id UUID PRIMARY KEY,
			event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_event_messages_event_id ON event_messages(event_id, created_at)`},
}

func Migrate(ctx context.Context, db *DB) error {
	for _, step := range schema {
		if _, err := db.Exec(ctx, step.sql); err != nil {
			return fmt.Errorf("failed to create %s table: %w", step.name, err)
		}
	}
	return nil
}
