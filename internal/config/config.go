package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

type Config struct {
	// HTTP Server
	Port string

	// Backend selection
	DataBackend string

	// Database
	SQLiteDBPath string
	PostgresURL  string

	// AMQP (empty URL disables ledger events)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Presentation and reporting
	DefaultCurrency string
	Timezone        string
	TrendMonths     int
	CacheTTL        time.Duration

	// Worker
	ReminderSchedule   string
	ReminderWindowDays int

	SeedDemo bool
	LogLevel string
}

var defaults = map[string]any{
	"port":                 "8081",
	"data_backend":         "sqlite",
	"sqlite_db_path":       "./data/finance.db",
	"postgres_url":         "",
	"amqp_url":             "",
	"amqp_exchange":        "finance",
	"amqp_queue":           "ledger_events",
	"default_currency":     "$",
	"timezone":             "Local",
	"trend_months":         6,
	"cache_ttl":            5 * time.Minute,
	"reminder_schedule":    "@daily",
	"reminder_window_days": 7,
	"seed_demo":            false,
	"log_level":            "info",
}

// Load reads configuration from defaults, an optional file named by
// FINANCE_CONFIG and the environment (a .env file is honoured), in that order
// of increasing precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if path := os.Getenv("FINANCE_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		Port:               v.GetString("port"),
		DataBackend:        strings.ToLower(v.GetString("data_backend")),
		SQLiteDBPath:       v.GetString("sqlite_db_path"),
		PostgresURL:        v.GetString("postgres_url"),
		AMQPURL:            v.GetString("amqp_url"),
		AMQPExchange:       v.GetString("amqp_exchange"),
		AMQPQueue:          v.GetString("amqp_queue"),
		DefaultCurrency:    v.GetString("default_currency"),
		Timezone:           v.GetString("timezone"),
		TrendMonths:        v.GetInt("trend_months"),
		CacheTTL:           v.GetDuration("cache_ttl"),
		ReminderSchedule:   v.GetString("reminder_schedule"),
		ReminderWindowDays: v.GetInt("reminder_window_days"),
		SeedDemo:           v.GetBool("seed_demo"),
		LogLevel:           v.GetString("log_level"),
	}
	return cfg, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	validBackends := []string{"memory", "sqlite", "postgres"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			// Check if directory exists or can be created
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.DataBackend == "postgres" {
		if c.PostgresURL == "" {
			errors = append(errors, "POSTGRES_URL is required when using postgres backend")
		} else if u, err := url.Parse(c.PostgresURL); err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
			errors = append(errors, "invalid POSTGRES_URL: scheme must be 'postgres' or 'postgresql'")
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if strings.TrimSpace(c.DefaultCurrency) == "" {
		errors = append(errors, "default currency symbol cannot be empty")
	}
	if _, err := c.Location(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}
	if c.TrendMonths < 1 || c.TrendMonths > 120 {
		errors = append(errors, fmt.Sprintf("invalid trend months %d: must be between 1 and 120", c.TrendMonths))
	}
	if c.CacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must not be negative", c.CacheTTL))
	}

	// Validate worker configuration
	if _, err := cron.ParseStandard(c.ReminderSchedule); err != nil {
		errors = append(errors, fmt.Sprintf("invalid reminder schedule '%s': %v", c.ReminderSchedule, err))
	}
	if c.ReminderWindowDays < 0 || c.ReminderWindowDays > 365 {
		errors = append(errors, fmt.Sprintf("invalid reminder window %d days: must be between 0 and 365", c.ReminderWindowDays))
	}

	if _, err := c.SlogLevel(); err != nil {
		errors = append(errors, err.Error())
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Location resolves Timezone; "Local" and "" mean the process time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// SlogLevel maps LogLevel (debug, info, warn, error) onto slog.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel)
	}
	return level, nil
}
