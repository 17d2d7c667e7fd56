/*
Package config loads server configuration from the environment via Viper.

KEYS (all env vars, no file required):
  ENV            development | production     (default development)
  PORT           HTTP port                    (default 8080)
  DATABASE_URL   PostgreSQL DSN; empty means SQLite
  SQLITE_PATH    SQLite file path             (default fieldstock.db, ":memory:" allowed)
  TIMEZONE       IANA zone for the daily-reset window (default the process zone)
  LOG_LEVEL      trace..error                 (default info)
  ALLOWED_ORIGIN CORS origin for the admin console
*/
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env           string
	Port          int
	DatabaseURL   string
	SQLitePath    string
	Timezone      string
	LogLevel      string
	AllowedOrigin string
}

// Load reads configuration from the environment with defaults.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ENV", "development")
	v.SetDefault("PORT", 8080)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SQLITE_PATH", "fieldstock.db")
	v.SetDefault("TIMEZONE", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ALLOWED_ORIGIN", "http://localhost:5173")

	cfg := Config{
		Env:           v.GetString("ENV"),
		Port:          v.GetInt("PORT"),
		DatabaseURL:   v.GetString("DATABASE_URL"),
		SQLitePath:    v.GetString("SQLITE_PATH"),
		Timezone:      v.GetString("TIMEZONE"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		AllowedOrigin: v.GetString("ALLOWED_ORIGIN"),
	}

	if _, err := cfg.Location(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Location resolves the operating timezone used for the daily-reset window.
// Empty TIMEZONE means the process-local zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Address is the listen address for the HTTP server.
func (c Config) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}
