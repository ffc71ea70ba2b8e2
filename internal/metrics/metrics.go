package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Reminder scan ticks by outcome: ok, error, skipped.
	ReminderTicks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nikiplan_reminder_ticks_total",
			Help: "Reminder scan ticks by outcome",
		},
		[]string{"result"},
	)

	ReminderTickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nikiplan_reminder_tick_duration_seconds",
			Help:    "Duration of a reminder scan tick in seconds",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		},
	)

	RemindersFired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nikiplan_reminders_fired_total",
			Help: "Reminders flagged sent by the scan loop",
		},
		[]string{"type"},
	)

	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nikiplan_notifications_created_total",
			Help: "Notification records created",
		},
		[]string{"type"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nikiplan_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)
)

func RecordTick(result string, duration time.Duration) {
	ReminderTicks.WithLabelValues(result).Inc()
	ReminderTickDuration.Observe(duration.Seconds())
}

func IncrementReminderFired(reminderType string) {
	RemindersFired.WithLabelValues(reminderType).Inc()
}

func IncrementNotificationCreated(notificationType string) {
	NotificationsCreated.WithLabelValues(notificationType).Inc()
}

// GinMiddleware records request durations labelled by route pattern.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		HTTPRequestDuration.
			WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
