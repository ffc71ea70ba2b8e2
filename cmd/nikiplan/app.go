package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"nikiplan/internal/broker"
	"nikiplan/internal/config"
	"nikiplan/internal/database"
	"nikiplan/internal/events"
	"nikiplan/internal/logger"
	"nikiplan/internal/models"
	"nikiplan/internal/notify"
	"nikiplan/internal/reminder"
	"nikiplan/internal/store"
	"nikiplan/internal/websocket"
)

const tickLockKey = "nikiplan:reminder-tick"

// app holds the wired components shared by the commands.
type app struct {
	cfg           *config.Config
	log           *zap.Logger
	db            *database.DB
	users         *store.UserStore
	eventStore    *store.EventStore
	notifications *store.NotificationStore
	notify        *notify.Service
	events        *events.Service
	scanner       *reminder.Scanner
	hub           *websocket.Hub

	closers []func()
}

func settingsFrom(cfg *config.Config) models.Settings {
	return models.Settings{
		MaxActiveEventsPerUser:     cfg.Settings.MaxActiveEventsPerUser,
		DefaultReminderHoursBefore: cfg.Settings.DefaultReminderHoursBefore,
	}
}

func newApp(ctx context.Context) (*app, error) {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	db, err := database.Connect(ctx, cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("failed to init DB: %w", err)
	}

	a := &app{
		cfg:           cfg,
		log:           log,
		db:            db,
		users:         store.NewUserStore(db),
		eventStore:    store.NewEventStore(db),
		notifications: store.NewNotificationStore(db),
	}
	a.closers = append(a.closers, db.Close)
	return a, nil
}

// wire builds the services. withHub attaches the live push hub as a
// notification sink.
func (a *app) wire(withHub bool) error {
	resolver := reminder.NewResolver(a.users)

	var sinks []notify.Sink
	if a.cfg.AMQP.URL != "" {
		publisher, err := broker.NewPublisher(a.cfg.AMQP.URL, a.cfg.AMQP.Exchange)
		if err != nil {
			return fmt.Errorf("failed to init MQ publisher: %w", err)
		}
		a.closers = append(a.closers, publisher.Close)
		sinks = append(sinks, publisher)
		a.log.Info("Publishing notifications to RabbitMQ", zap.String("exchange", a.cfg.AMQP.Exchange))
	}

	var opts []events.Option
	if withHub {
		a.hub = websocket.NewHub(nil, a.log)
		sinks = append(sinks, a.hub)
		opts = append(opts, events.WithBroadcaster(a.hub))
	}

	a.notify = notify.NewService(a.notifications, a.log, sinks...)
	a.events = events.NewService(
		a.eventStore,
		a.users,
		store.NewMessageStore(a.db),
		a.notify,
		resolver,
		settingsFrom(a.cfg),
		a.log,
		opts...,
	)
	if a.hub != nil {
		a.hub.SetAccess(a.events)
	}

	scannerOpts := []reminder.Option{}
	if a.cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		ttl := 5 * a.cfg.Reminder.Interval
		if ttl <= 0 {
			ttl = 5 * time.Minute
		}
		scannerOpts = append(scannerOpts, reminder.WithLocker(reminder.NewRedisLocker(rdb, tickLockKey, ttl, a.log)))
		a.log.Info("Using Redis tick lock", zap.String("addr", a.cfg.Redis.Addr))
	}
	a.scanner = reminder.NewScanner(a.eventStore, resolver, a.notify, a.log, scannerOpts...)
	return nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	_ = a.log.Sync()
}
