package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("REMINDER_INTERVAL", "")
	t.Setenv("DEFAULT_REMINDER_HOURS_BEFORE", "")

	cfg := Load()

	assert.Equal(t, time.Minute, cfg.Reminder.Interval)
	assert.Equal(t, 24, cfg.Settings.DefaultReminderHoursBefore)
	assert.Equal(t, 10, cfg.Settings.MaxActiveEventsPerUser)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("REMINDER_INTERVAL", "30s")
	t.Setenv("MAX_ACTIVE_EVENTS_PER_USER", "3")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()

	assert.Equal(t, 30*time.Second, cfg.Reminder.Interval)
	assert.Equal(t, 3, cfg.Settings.MaxActiveEventsPerUser)
	assert.Equal(t, 0, cfg.Redis.DB)
}

func TestLoad_AdminEmails(t *testing.T) {
	t.Setenv("ADMIN_EMAILS", " ops@example.com, ,Boss@Example.com")

	cfg := Load()

	assert.Equal(t, []string{"ops@example.com", "Boss@Example.com"}, cfg.AdminEmails)
	assert.True(t, cfg.IsAdminEmail("boss@example.com"))
	assert.False(t, cfg.IsAdminEmail("ana@example.com"))
}

func TestApplyYAML(t *testing.T) {
	cfg := &Config{
		Reminder: ReminderConfig{Interval: time.Minute},
		Settings: SettingsConfig{MaxActiveEventsPerUser: 10, DefaultReminderHoursBefore: 24},
	}

	err := cfg.applyYAML([]byte(`
reminder:
  interval: 5m
  trigger_secret: s3cret
settings:
  default_reminder_hours_before: 48
`))
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.Reminder.Interval)
	assert.Equal(t, "s3cret", cfg.Reminder.TriggerSecret)
	assert.Equal(t, 48, cfg.Settings.DefaultReminderHoursBefore)
	assert.Equal(t, 10, cfg.Settings.MaxActiveEventsPerUser)
}

func TestApplyYAML_Invalid(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.applyYAML([]byte("reminder: [")))
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", Name: "n", User: "u", Password: "p"}
	assert.Equal(t, "postgres://u:p@db:5432/n?sslmode=disable", d.DSN())
}
