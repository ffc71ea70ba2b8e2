package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nikiplan/internal/models"
	"nikiplan/internal/reminder"
)

type eventStore interface {
	Create(ctx context.Context, e models.Event) error
	Get(ctx context.Context, id uuid.UUID) (models.Event, error)
	Update(ctx context.Context, e models.Event) error
	SaveReminders(ctx context.Context, id uuid.UUID, reminders []models.Reminder) error
	SaveAttendees(ctx context.Context, id uuid.UUID, attendees []models.Attendee) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListVisible(ctx context.Context, userID uuid.UUID) ([]models.Event, error)
	CountActiveByOrganizer(ctx context.Context, userID uuid.UUID) (int, error)
}

type userLookup interface {
	GetByEmail(ctx context.Context, email string) (models.User, error)
}

type messageStore interface {
	Create(ctx context.Context, m models.Message) error
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Message, error)
}

type notifier interface {
	Create(ctx context.Context, n models.Notification) error
}

type updateAudience interface {
	AcceptedWithUpdatePref(ctx context.Context, e models.Event) ([]uuid.UUID, error)
}

// Broadcaster pushes board and event changes to live subscribers.
type Broadcaster interface {
	BroadcastBoardMessage(m models.Message)
	BroadcastEventUpdate(e models.Event)
}

type Service struct {
	events        eventStore
	users         userLookup
	messages      messageStore
	notifications notifier
	audience      updateAudience
	broadcaster   Broadcaster
	settings      models.Settings
	log           *zap.Logger
	now           func() time.Time
}

type Option func(*Service)

func WithBroadcaster(b Broadcaster) Option {
	return func(s *Service) { s.broadcaster = b }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(
	events eventStore,
	users userLookup,
	messages messageStore,
	notifications notifier,
	audience updateAudience,
	settings models.Settings,
	log *zap.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		events:        events,
		users:         users,
		messages:      messages,
		notifications: notifications,
		audience:      audience,
		settings:      settings,
		log:           log,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create makes a new active event owned by organizer.
func (s *Service) Create(ctx context.Context, organizer uuid.UUID, req models.CreateEventRequest) (models.Event, error) {
	if err := s.checkActiveLimit(ctx, organizer); err != nil {
		return models.Event{}, err
	}

	e := models.NewEvent(organizer, req, s.settings, s.now())
	if err := s.events.Create(ctx, e); err != nil {
		return models.Event{}, err
	}

	s.log.Info("Event created",
		zap.String("event_id", e.ID.String()),
		zap.String("organizer_id", organizer.String()),
	)
	return e, nil
}

func (s *Service) checkActiveLimit(ctx context.Context, organizer uuid.UUID) error {
	if s.settings.MaxActiveEventsPerUser <= 0 {
		return nil
	}
	n, err := s.events.CountActiveByOrganizer(ctx, organizer)
	if err != nil {
		return err
	}
	if n >= s.settings.MaxActiveEventsPerUser {
		return models.ErrTooManyEvents
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]models.Event, error) {
	return s.events.ListVisible(ctx, userID)
}

// Get loads an event the user may view.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (models.Event, error) {
	e, err := s.events.Get(ctx, id)
	if err != nil {
		return models.Event{}, err
	}
	if !e.CanView(userID) {
		return models.Event{}, models.ErrForbidden
	}
	return e, nil
}

// CanView reports whether userID may see the event. Unknown events are not
// viewable.
func (s *Service) CanView(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	_, err := s.Get(ctx, userID, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrForbidden):
		return false, nil
	default:
		return false, err
	}
}

// loadOwned loads an event and checks that userID organizes it.
func (s *Service) loadOwned(ctx context.Context, userID, id uuid.UUID) (models.Event, error) {
	e, err := s.events.Get(ctx, id)
	if err != nil {
		return models.Event{}, err
	}
	if !e.IsOrganizer(userID) {
		return models.Event{}, models.ErrNotOrganizer
	}
	return e, nil
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req models.UpdateEventRequest) (models.Event, error) {
	e, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return models.Event{}, err
	}

	if req.IsActive != nil && *req.IsActive && !e.IsActive {
		if err := s.checkActiveLimit(ctx, userID); err != nil {
			return models.Event{}, err
		}
	}

	req.Apply(&e, s.now())
	if err := s.events.Update(ctx, e); err != nil {
		return models.Event{}, err
	}

	s.broadcastEvent(e)
	return e, nil
}

// Delete removes the event. Organizers and admins may delete.
func (s *Service) Delete(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) error {
	e, err := s.events.Get(ctx, id)
	if err != nil {
		return err
	}
	if !e.IsOrganizer(userID) && role != models.RoleAdmin {
		return models.ErrNotOrganizer
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("Event deleted", zap.String("event_id", id.String()), zap.String("by", userID.String()))
	return nil
}

// Invite adds the user registered under email as a pending attendee and
// sends them an invitation notification.
func (s *Service) Invite(ctx context.Context, organizer, id uuid.UUID, email string) (models.Attendee, error) {
	e, err := s.loadOwned(ctx, organizer, id)
	if err != nil {
		return models.Attendee{}, err
	}
	if !e.IsActive {
		return models.Attendee{}, models.ErrEventInactive
	}

	invitee, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return models.Attendee{}, fmt.Errorf("invitee: %w", err)
	}

	now := s.now()
	if err := e.AddAttendee(invitee.ID, models.AttendeePending, now); err != nil {
		return models.Attendee{}, err
	}
	if err := s.events.SaveAttendees(ctx, e.ID, e.Attendees); err != nil {
		return models.Attendee{}, err
	}

	message := fmt.Sprintf("You have been invited to %s on %s at %s.", e.Title, reminder.FormatDate(e.Date), e.Time)
	n := models.NewNotification(invitee.ID, e.ID, models.NotificationInvitation, message, now)
	if err := s.notifications.Create(ctx, n); err != nil {
		return models.Attendee{}, fmt.Errorf("invitation notification: %w", err)
	}

	return e.Attendees[len(e.Attendees)-1], nil
}

// Join records a request to attend a public event. The organizer answers it
// with RespondToRequest.
func (s *Service) Join(ctx context.Context, userID, id uuid.UUID) (models.Attendee, error) {
	e, err := s.events.Get(ctx, id)
	if err != nil {
		return models.Attendee{}, err
	}
	if e.Visibility != models.VisibilityPublic {
		return models.Attendee{}, models.ErrForbidden
	}
	if !e.IsActive {
		return models.Attendee{}, models.ErrEventInactive
	}

	if err := e.AddAttendee(userID, models.AttendeeRequested, s.now()); err != nil {
		return models.Attendee{}, err
	}
	if err := s.events.SaveAttendees(ctx, e.ID, e.Attendees); err != nil {
		return models.Attendee{}, err
	}
	return e.Attendees[len(e.Attendees)-1], nil
}

// RSVP answers an invitation. Open join requests cannot be answered by the
// requester.
func (s *Service) RSVP(ctx context.Context, userID, id uuid.UUID, status string) (models.Attendee, error) {
	e, err := s.events.Get(ctx, id)
	if err != nil {
		return models.Attendee{}, err
	}

	i := e.AttendeeIndex(userID)
	if i < 0 {
		return models.Attendee{}, models.ErrForbidden
	}
	if e.Attendees[i].Status == models.AttendeeRequested {
		return models.Attendee{}, models.ErrInvalidTransition
	}

	return s.setStatus(ctx, &e, i, status)
}

// RespondToRequest lets the organizer accept or decline a join request.
func (s *Service) RespondToRequest(ctx context.Context, organizer, id, requester uuid.UUID, status string) (models.Attendee, error) {
	e, err := s.loadOwned(ctx, organizer, id)
	if err != nil {
		return models.Attendee{}, err
	}

	i := e.AttendeeIndex(requester)
	if i < 0 {
		return models.Attendee{}, models.ErrNotFound
	}
	if e.Attendees[i].Status != models.AttendeeRequested {
		return models.Attendee{}, models.ErrInvalidTransition
	}

	return s.setStatus(ctx, &e, i, status)
}

func (s *Service) setStatus(ctx context.Context, e *models.Event, i int, status string) (models.Attendee, error) {
	if status != models.AttendeeAccepted && status != models.AttendeeDeclined {
		return models.Attendee{}, models.ErrInvalidTransition
	}
	if err := e.SetAttendeeStatus(i, status, s.now()); err != nil {
		return models.Attendee{}, err
	}
	if err := s.events.SaveAttendees(ctx, e.ID, e.Attendees); err != nil {
		return models.Attendee{}, err
	}

	s.broadcastEvent(*e)
	return e.Attendees[i], nil
}

func (s *Service) Attendees(ctx context.Context, userID, id uuid.UUID) ([]models.Attendee, error) {
	e, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return e.Attendees, nil
}

func (s *Service) Reminders(ctx context.Context, userID, id uuid.UUID) ([]models.Reminder, error) {
	e, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return e.Reminders, nil
}

// ConfigureReminders replaces the event's reminder schedule.
func (s *Service) ConfigureReminders(ctx context.Context, userID, id uuid.UUID, input []models.ReminderInput) ([]models.Reminder, error) {
	e, err := s.events.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	reminders, err := reminder.Configure(e, userID, input)
	if err != nil {
		return nil, err
	}
	if err := s.events.SaveReminders(ctx, e.ID, reminders); err != nil {
		return nil, err
	}

	s.log.Info("Reminders configured",
		zap.String("event_id", e.ID.String()),
		zap.Int("submitted", len(input)),
		zap.Int("kept", len(reminders)),
	)
	return reminders, nil
}

// SendUpdateNotice notifies accepted attendees who opted into update
// notifications. It returns the number of notifications created.
func (s *Service) SendUpdateNotice(ctx context.Context, userID, id uuid.UUID, note string) (int, error) {
	e, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return 0, err
	}

	recipients, err := s.audience.AcceptedWithUpdatePref(ctx, e)
	if err != nil {
		return 0, err
	}

	message := fmt.Sprintf("%s has been updated. Check the event details.", e.Title)
	if note != "" {
		message = fmt.Sprintf("Update for %s: %s", e.Title, note)
	}

	now := s.now()
	sent := 0
	for _, recipient := range recipients {
		n := models.NewNotification(recipient, e.ID, models.NotificationUpdate, message, now)
		if err := s.notifications.Create(ctx, n); err != nil {
			return sent, fmt.Errorf("notify %s: %w", recipient, err)
		}
		sent++
	}
	return sent, nil
}

func (s *Service) Messages(ctx context.Context, userID, id uuid.UUID) ([]models.Message, error) {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.messages.ListByEvent(ctx, id)
}

// PostMessage writes to the event board. Only the organizer and accepted
// attendees may post.
func (s *Service) PostMessage(ctx context.Context, userID, id uuid.UUID, content string) (models.Message, error) {
	e, err := s.events.Get(ctx, id)
	if err != nil {
		return models.Message{}, err
	}
	if !e.CanPost(userID) {
		return models.Message{}, models.ErrForbidden
	}

	m := models.Message{
		ID:        uuid.New(),
		EventID:   e.ID,
		UserID:    userID,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return models.Message{}, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastBoardMessage(m)
	}
	return m, nil
}

func (s *Service) broadcastEvent(e models.Event) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastEventUpdate(e)
	}
}
