package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"nikiplan/internal/database"
	"nikiplan/internal/models"
)

type MessageStore struct {
	db *database.DB
}

func NewMessageStore(db *database.DB) *MessageStore {
	return &MessageStore{db: db}
}

func (s *MessageStore) Create(ctx context.Context, m models.Message) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO event_messages (id, event_id, user_id, content, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.EventID, m.UserID, m.Content, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (s *MessageStore) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Message, error) {
	rows, err := s.db.Query(ctx,
		`SELECT m.id, m.event_id, m.user_id, m.content, m.created_at, u.username
		 FROM event_messages m
		 JOIN users u ON m.user_id = u.id
		 WHERE m.event_id = $1
		 ORDER BY m.created_at ASC`,
		eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.EventID, &m.UserID, &m.Content, &m.CreatedAt, &m.Username); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
