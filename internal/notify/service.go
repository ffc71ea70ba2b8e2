package notify

import (
	"context"

	"go.uber.org/zap"

	"nikiplan/internal/metrics"
	"nikiplan/internal/models"
)

type notificationStore interface {
	Create(ctx context.Context, n models.Notification) error
}

// Sink receives notifications after they are stored.
type Sink interface {
	Deliver(ctx context.Context, n models.Notification) error
}

// Service stores notifications and fans them out to sinks. Only the store
// write can fail a Create; sink errors are logged.
type Service struct {
	store notificationStore
	sinks []Sink
	log   *zap.Logger
}

func NewService(store notificationStore, log *zap.Logger, sinks ...Sink) *Service {
	return &Service{store: store, sinks: sinks, log: log}
}

func (s *Service) Create(ctx context.Context, n models.Notification) error {
	if err := s.store.Create(ctx, n); err != nil {
		return err
	}
	metrics.IncrementNotificationCreated(n.Type)

	for _, sink := range s.sinks {
		if err := sink.Deliver(ctx, n); err != nil {
			s.log.Warn("Failed to deliver notification",
				zap.String("notification_id", n.ID.String()),
				zap.String("user_id", n.UserID.String()),
				zap.Error(err),
			)
		}
	}
	return nil
}
