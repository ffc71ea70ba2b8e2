package reminder

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type tickRunner interface {
	Run(ctx context.Context) (Summary, error)
}

// Scheduler calls the scanner on a fixed interval until its context ends.
type Scheduler struct {
	scanner  tickRunner
	interval time.Duration
	log      *zap.Logger
}

func NewScheduler(scanner tickRunner, interval time.Duration, log *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{scanner: scanner, interval: interval, log: log}
}

// Start blocks, running one tick immediately and then one per interval.
func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("Starting reminder scheduler", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("Reminder scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if _, err := s.scanner.Run(ctx); err != nil {
		s.log.Error("Reminder tick failed", zap.Error(err))
	}
}
