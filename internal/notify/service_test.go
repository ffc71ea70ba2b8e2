package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nikiplan/internal/models"
)

type memStore struct {
	created []models.Notification
	err     error
}

func (m *memStore) Create(_ context.Context, n models.Notification) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, n)
	return nil
}

type memSink struct {
	got []models.Notification
	err error
}

func (m *memSink) Deliver(_ context.Context, n models.Notification) error {
	m.got = append(m.got, n)
	return m.err
}

func newNotification() models.Notification {
	return models.NewNotification(uuid.New(), uuid.New(), models.NotificationUpdate, "Event changed", time.Now())
}

func TestService_CreateDeliversToSinks(t *testing.T) {
	store := &memStore{}
	failing := &memSink{err: errors.New("broker down")}
	ok := &memSink{}
	s := NewService(store, zap.NewNop(), failing, ok)

	n := newNotification()
	require.NoError(t, s.Create(context.Background(), n))

	assert.Equal(t, []models.Notification{n}, store.created)
	assert.Equal(t, []models.Notification{n}, failing.got)
	assert.Equal(t, []models.Notification{n}, ok.got)
}

func TestService_StoreErrorSkipsSinks(t *testing.T) {
	store := &memStore{err: errors.New("insert failed")}
	sink := &memSink{}
	s := NewService(store, zap.NewNop(), sink)

	err := s.Create(context.Background(), newNotification())
	assert.ErrorContains(t, err, "insert failed")
	assert.Empty(t, sink.got)
}
