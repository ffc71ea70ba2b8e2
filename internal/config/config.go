package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string
	Port        string
	LogLevel    string
	Database    DatabaseConfig
	JWT         JWTConfig
	CORS        CORSConfig
	Reminder    ReminderConfig
	Settings    SettingsConfig
	Redis       RedisConfig
	AMQP        AMQPConfig
	// AdminEmails get the admin role when they register.
	AdminEmails []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

type JWTConfig struct {
	Secret    string
	ExpiresIn string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type ReminderConfig struct {
	Interval      time.Duration `yaml:"interval"`
	TriggerSecret string        `yaml:"trigger_secret"`
}

// SettingsConfig holds the global system settings read by event creation
// and reminder validation.
type SettingsConfig struct {
	MaxActiveEventsPerUser     int `yaml:"max_active_events_per_user"`
	DefaultReminderHoursBefore int `yaml:"default_reminder_hours_before"`
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AMQPConfig struct {
	URL      string
	Exchange string
}

// overlay is the subset of the config that may be overridden from a YAML file.
type overlay struct {
	Reminder *ReminderConfig `yaml:"reminder"`
	Settings *SettingsConfig `yaml:"settings"`
}

func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Environment: getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "3001"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "postgres"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "nikiplan"),
			User:     getEnv("DB_USER", "nikiplan"),
			Password: getEnv("DB_PASSWORD", "nikiplan"),
		},
		JWT: JWTConfig{
			Secret:    getEnv("JWT_SECRET", "change-this-secret-in-production"),
			ExpiresIn: getEnv("JWT_EXPIRES_IN", "7d"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				getEnv("FRONTEND_URL", "http://localhost:3000"),
				"http://localhost:3000",
			},
		},
		Reminder: ReminderConfig{
			Interval:      getEnvDuration("REMINDER_INTERVAL", time.Minute),
			TriggerSecret: getEnv("REMINDER_TRIGGER_SECRET", ""),
		},
		Settings: SettingsConfig{
			MaxActiveEventsPerUser:     getEnvInt("MAX_ACTIVE_EVENTS_PER_USER", 10),
			DefaultReminderHoursBefore: getEnvInt("DEFAULT_REMINDER_HOURS_BEFORE", 24),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		AMQP: AMQPConfig{
			URL:      getEnv("AMQP_URL", ""),
			Exchange: getEnv("AMQP_EXCHANGE", "nikiplan.events"),
		},
		AdminEmails: getEnvList("ADMIN_EMAILS"),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			log.Printf("Ignoring config file %s: %v", path, err)
		}
	}

	return cfg
}

// IsAdminEmail reports whether email is listed in AdminEmails, ignoring case.
func (c *Config) IsAdminEmail(email string) bool {
	for _, admin := range c.AdminEmails {
		if strings.EqualFold(admin, email) {
			return true
		}
	}
	return false
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return c.applyYAML(data)
}

func (c *Config) applyYAML(data []byte) error {
	var o overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}

	if o.Reminder != nil {
		if o.Reminder.Interval > 0 {
			c.Reminder.Interval = o.Reminder.Interval
		}
		if o.Reminder.TriggerSecret != "" {
			c.Reminder.TriggerSecret = o.Reminder.TriggerSecret
		}
	}
	if o.Settings != nil {
		if o.Settings.MaxActiveEventsPerUser > 0 {
			c.Settings.MaxActiveEventsPerUser = o.Settings.MaxActiveEventsPerUser
		}
		if o.Settings.DefaultReminderHoursBefore > 0 {
			c.Settings.DefaultReminderHoursBefore = o.Settings.DefaultReminderHoursBefore
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
