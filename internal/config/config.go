package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"smartfinance/internal/log"
)

// Data backends accepted in DATA_BACKEND.
const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
	BackendMemory = "memory"
)

type Config struct {
	// HTTP Server
	Port            string
	ShutdownTimeout time.Duration

	// Storage
	DataBackend  string
	SQLiteDBPath string
	BoltDBPath   string
	DataDir      string // <key>.json files read and written by the memory backend

	// Session
	AutoAuthenticate bool

	// Presentation
	Currency string
	// TimeZone names the IANA zone used to turn timestamps into calendar
	// days. Empty means the system zone.
	TimeZone string

	// Observability
	LogLevel       string
	MetricsEnabled bool
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8081"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		DataBackend:  strings.ToLower(getEnv("DATA_BACKEND", BackendSQLite)),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/smartfinance.db"),
		BoltDBPath:   getEnv("BOLT_DB_PATH", "./data/smartfinance.bolt"),
		DataDir:      getEnv("DATA_DIR", "./data"),

		AutoAuthenticate: getEnvBool("AUTO_AUTHENTICATE", true),

		Currency: getEnv("CURRENCY", "PKR"),
		TimeZone: getEnv("TIMEZONE", ""),

		LogLevel:       getEnv("LOG_LEVEL", "info"),
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{BackendSQLite, BackendBolt, BackendMemory}
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

	switch c.DataBackend {
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if msg := ensureDir(c.SQLiteDBPath); msg != "" {
			errors = append(errors, msg)
		}
	case BackendBolt:
		if c.BoltDBPath == "" {
			errors = append(errors, "bolt database path cannot be empty when using bolt backend")
		} else if msg := ensureDir(c.BoltDBPath); msg != "" {
			errors = append(errors, msg)
		}
	case BackendMemory:
		if c.DataDir != "" {
			if info, err := os.Stat(c.DataDir); err == nil && !info.IsDir() {
				errors = append(errors, fmt.Sprintf("data directory '%s' is not a directory", c.DataDir))
			}
		}
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	if strings.TrimSpace(c.Currency) == "" {
		errors = append(errors, "currency label cannot be empty")
	}

	if _, err := c.Location(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid time zone '%s': %v", c.TimeZone, err))
	}

	if c.ShutdownTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	} else if c.ShutdownTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at most 5 minutes", c.ShutdownTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Location resolves TimeZone, falling back to time.Local when it is empty.
func (c *Config) Location() (*time.Location, error) {
	if strings.TrimSpace(c.TimeZone) == "" {
		return time.Local, nil
	}
	return time.LoadLocation(strings.TrimSpace(c.TimeZone))
}

// ensureDir creates the parent directory of path and returns a message when
// that fails.
func ensureDir(path string) string {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return ""
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Sprintf("cannot create database directory '%s': %v", dir, err)
		}
	}
	return ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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
