package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nikiplan/internal/metrics"
	"nikiplan/internal/models"
)

type eventStore interface {
	FindDue(ctx context.Context, now time.Time) ([]models.Event, error)
	SaveReminders(ctx context.Context, id uuid.UUID, reminders []models.Reminder) error
}

type notificationCreator interface {
	Create(ctx context.Context, n models.Notification) error
}

type recipientResolver interface {
	ForReminder(ctx context.Context, e models.Event, reminderType string) ([]uuid.UUID, error)
}

// Summary reports the outcome of one scan tick.
type Summary struct {
	EventsProcessed   int  `json:"events_processed"`
	NotificationsSent int  `json:"notifications_sent"`
	Skipped           bool `json:"skipped,omitempty"`
}

func (s Summary) String() string {
	return fmt.Sprintf("Processed %d events, sent %d notifications", s.EventsProcessed, s.NotificationsSent)
}

// Scanner fires due reminders. Each reminder fires at most once: its sent
// flag is set before recipients are resolved.
type Scanner struct {
	events        eventStore
	resolver      recipientResolver
	notifications notificationCreator
	locker        Locker
	log           *zap.Logger
	now           func() time.Time
}

type Option func(*Scanner)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scanner) { s.now = now }
}

// WithLocker replaces the in-process tick lock.
func WithLocker(l Locker) Option {
	return func(s *Scanner) { s.locker = l }
}

func NewScanner(events eventStore, resolver recipientResolver, notifications notificationCreator, log *zap.Logger, opts ...Option) *Scanner {
	s := &Scanner{
		events:        events,
		resolver:      resolver,
		notifications: notifications,
		locker:        &LocalLocker{},
		log:           log,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run performs one scan tick. A tick that overlaps another one is skipped.
// On error the counts gathered so far are returned with it.
func (s *Scanner) Run(ctx context.Context) (Summary, error) {
	start := time.Now()

	release, ok, err := s.locker.TryLock(ctx)
	if err != nil {
		metrics.RecordTick("error", time.Since(start))
		return Summary{}, fmt.Errorf("acquire tick lock: %w", err)
	}
	if !ok {
		s.log.Info("Reminder tick skipped, previous tick still running")
		metrics.RecordTick("skipped", time.Since(start))
		return Summary{Skipped: true}, nil
	}
	defer release()

	summary, err := s.scan(ctx)
	if err != nil {
		metrics.RecordTick("error", time.Since(start))
		return summary, err
	}

	metrics.RecordTick("ok", time.Since(start))
	return summary, nil
}

func (s *Scanner) scan(ctx context.Context) (Summary, error) {
	var summary Summary
	now := s.now()

	events, err := s.events.FindDue(ctx, now)
	if err != nil {
		return summary, fmt.Errorf("find due events: %w", err)
	}

	for i := range events {
		sent, err := s.processEvent(ctx, &events[i], now)
		summary.NotificationsSent += sent
		if err != nil {
			return summary, fmt.Errorf("event %s: %w", events[i].ID, err)
		}
		summary.EventsProcessed++
	}

	if summary.EventsProcessed > 0 {
		s.log.Info("Reminder tick completed",
			zap.Int("events_processed", summary.EventsProcessed),
			zap.Int("notifications_sent", summary.NotificationsSent),
		)
	}
	return summary, nil
}

// processEvent fires the due reminders of e in list order and saves the
// updated flags. If a reminder fails, the flags flipped so far are still
// saved and the remaining reminders are left for the next tick.
func (s *Scanner) processEvent(ctx context.Context, e *models.Event, now time.Time) (int, error) {
	sent := 0
	var fireErr error

	for i := range e.Reminders {
		r := &e.Reminders[i]
		if !r.Due(now) {
			continue
		}

		r.Sent = true
		metrics.IncrementReminderFired(r.Type)

		n, err := s.fire(ctx, *e, *r, now)
		sent += n
		if err != nil {
			fireErr = fmt.Errorf("%s reminder: %w", r.Type, err)
			break
		}
	}

	if err := s.events.SaveReminders(ctx, e.ID, e.Reminders); err != nil {
		if fireErr != nil {
			s.log.Error("Failed to save reminder flags after error",
				zap.String("event_id", e.ID.String()), zap.Error(err))
			return sent, fireErr
		}
		return sent, fmt.Errorf("save reminders: %w", err)
	}
	return sent, fireErr
}

func (s *Scanner) fire(ctx context.Context, e models.Event, r models.Reminder, now time.Time) (int, error) {
	recipients, err := s.resolver.ForReminder(ctx, e, r.Type)
	if err != nil {
		return 0, err
	}

	notificationType, message := Compose(e, r.Type)

	created := 0
	for _, userID := range recipients {
		n := models.NewNotification(userID, e.ID, notificationType, message, now)
		if err := s.notifications.Create(ctx, n); err != nil {
			return created, fmt.Errorf("notify %s: %w", userID, err)
		}
		created++
	}

	s.log.Debug("Reminder fired",
		zap.String("event_id", e.ID.String()),
		zap.String("type", r.Type),
		zap.Int("recipients", created),
	)
	return created, nil
}

// Compose returns the notification type and text for a reminder of the
// given type.
func Compose(e models.Event, reminderType string) (string, string) {
	date := FormatDate(e.Date)
	switch reminderType {
	case models.ReminderConfirmation:
		return models.NotificationReminder,
			fmt.Sprintf("Please confirm your attendance for %s on %s at %s.", e.Title, date, e.Time)
	case models.ReminderNoResponse:
		return models.NotificationNoResponse,
			fmt.Sprintf("You've been invited to %s on %s at %s. Please respond.", e.Title, date, e.Time)
	default:
		return models.NotificationReminder,
			fmt.Sprintf("Reminder: %s is happening on %s at %s.", e.Title, date, e.Time)
	}
}

func FormatDate(t time.Time) string {
	return t.Format("Mon Jan 2 2006")
}
