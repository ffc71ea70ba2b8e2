package models

// Settings are the global system settings. They are passed by value into the
// operations that read them.
type Settings struct {
	MaxActiveEventsPerUser     int `json:"max_active_events_per_user"`
	DefaultReminderHoursBefore int `json:"default_reminder_hours_before"`
}
