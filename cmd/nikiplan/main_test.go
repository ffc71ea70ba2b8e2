package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nikiplan/internal/config"
	"nikiplan/internal/models"
)

func TestSettingsFrom(t *testing.T) {
	cfg := &config.Config{Settings: config.SettingsConfig{
		MaxActiveEventsPerUser:     3,
		DefaultReminderHoursBefore: 12,
	}}

	assert.Equal(t, models.Settings{MaxActiveEventsPerUser: 3, DefaultReminderHoursBefore: 12}, settingsFrom(cfg))
}

func TestCommands(t *testing.T) {
	names := []string{}
	for _, c := range []interface{ Names() []string }{serveCommand(), remindCommand(), migrateCommand()} {
		names = append(names, c.Names()...)
	}
	assert.Equal(t, []string{"serve", "remind", "migrate"}, names)
}
