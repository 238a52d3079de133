// Package config loads runtime settings from the environment, optionally
// seeded from config/local.env.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Logging  LoggingConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL         string // Full PostgreSQL URL
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
	PingTimeout time.Duration
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// Load reads configuration from config/local.env (when present) and the
// environment. Variables already set in the environment win.
func Load() (*Config, error) {
	return LoadFile("config/local.env")
}

// LoadFile is Load with an explicit env file path.
func LoadFile(path string) (*Config, error) {
	if path != "" {
		_ = godotenv.Load(path)
	}

	cfg := &Config{}
	if err := cfg.loadDatabase(); err != nil {
		return nil, fmt.Errorf("load database config: %w", err)
	}
	cfg.loadLogging()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadDatabase() error {
	c.Database.URL = os.Getenv("DATABASE_URL")

	timeout, err := time.ParseDuration(getEnvOrDefault("DB_PING_TIMEOUT", "30s"))
	if err != nil {
		return fmt.Errorf("invalid DB_PING_TIMEOUT: %w", err)
	}
	c.Database.PingTimeout = timeout

	if c.Database.URL != "" {
		return nil
	}

	c.Database.Host = getEnvOrDefault("DB_HOST", "localhost")
	c.Database.User = os.Getenv("DB_USER")
	c.Database.Password = os.Getenv("DB_PASSWORD")
	c.Database.Name = os.Getenv("DB_NAME")
	c.Database.SSLMode = getEnvOrDefault("DB_SSLMODE", "disable")

	port, err := strconv.Atoi(getEnvOrDefault("DB_PORT", "5432"))
	if err != nil {
		return fmt.Errorf("invalid DB_PORT: %w", err)
	}
	c.Database.Port = port

	if c.Database.User != "" && c.Database.Name != "" {
		c.Database.URL = fmt.Sprintf(
			"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
			c.Database.User,
			c.Database.Password,
			c.Database.Host,
			c.Database.Port,
			c.Database.Name,
			c.Database.SSLMode,
		)
	}
	return nil
}

func (c *Config) loadLogging() {
	c.Logging.Level = strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info"))
	c.Logging.Format = strings.ToLower(getEnvOrDefault("LOG_FORMAT", "json"))
}

// Validate checks the settings every command needs. The database URL is
// checked separately by RequireDatabase since in-memory runs go without it.
func (c *Config) Validate() error {
	var problems []string

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		problems = append(problems, "LOG_LEVEL must be one of: debug, info, warn, error")
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		problems = append(problems, "LOG_FORMAT must be either json or text")
	}
	if c.Database.Port != 0 && (c.Database.Port < 1 || c.Database.Port > 65535) {
		problems = append(problems, "DB_PORT must be between 1 and 65535")
	}
	if c.Database.PingTimeout <= 0 {
		problems = append(problems, "DB_PING_TIMEOUT must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// RequireDatabase reports an error when no database URL could be assembled.
func (c *Config) RequireDatabase() error {
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL is required (or DB_HOST, DB_USER, DB_NAME)")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
