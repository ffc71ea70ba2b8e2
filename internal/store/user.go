package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"nikiplan/internal/database"
	"nikiplan/internal/models"
)

var ErrUserExists = errors.New("user already exists")

const userColumns = `id, username, email, password_hash, role, event_reminders, event_updates, created_at, updated_at`

type UserStore struct {
	db *database.DB
}

func NewUserStore(db *database.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, u models.User) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Role,
		u.NotificationPreferences.EventReminders, u.NotificationPreferences.EventUpdates,
		u.CreatedAt, u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *UserStore) Get(ctx context.Context, id uuid.UUID) (models.User, error) {
	return s.getBy(ctx, "id = $1", id)
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return s.getBy(ctx, "email = $1", email)
}

func (s *UserStore) GetByLogin(ctx context.Context, emailOrUsername string) (models.User, error) {
	return s.getBy(ctx, "(email = $1 OR username = $1) AND password_hash IS NOT NULL", emailOrUsername)
}

func (s *UserStore) getBy(ctx context.Context, where string, arg any) (models.User, error) {
	var u models.User
	err := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
		&u.NotificationPreferences.EventReminders, &u.NotificationPreferences.EventUpdates,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, models.ErrNotFound
		}
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) UpdatePreferences(ctx context.Context, id uuid.UUID, prefs models.NotificationPreferences) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE users SET event_reminders = $1, event_updates = $2, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $3`,
		prefs.EventReminders, prefs.EventUpdates, id)
	if err != nil {
		return fmt.Errorf("failed to update preferences: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// FilterByPreference returns the subset of ids whose preference is enabled.
func (s *UserStore) FilterByPreference(ctx context.Context, ids []uuid.UUID, pref models.Preference) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return []uuid.UUID{}, nil
	}

	var column string
	switch pref {
	case models.PrefEventReminders, models.PrefEventUpdates:
		column = string(pref)
	default:
		return nil, fmt.Errorf("unknown preference %q", pref)
	}

	rows, err := s.db.Query(ctx,
		`SELECT id FROM users WHERE id = ANY($1) AND `+column+` = true`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to filter users: %w", err)
	}
	defer rows.Close()

	out := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
