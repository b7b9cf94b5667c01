package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Port:            "8081",
		ShutdownTimeout: 30 * time.Second,
		DataBackend:     BackendSQLite,
		SQLiteDBPath:    filepath.Join(t.TempDir(), "db", "finance.db"),
		LogLevel:        "info",
		Currency:        "PKR",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid sqlite backend config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range low",
			mutate:      func(c *Config) { c.Port = "0" },
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "unknown time zone",
			mutate:      func(c *Config) { c.TimeZone = "Mars/Olympus_Mons" },
			wantErr:     true,
			errorString: "invalid time zone 'Mars/Olympus_Mons'",
		},
		{
			name:    "utc time zone",
			mutate:  func(c *Config) { c.TimeZone = "UTC" },
			wantErr: false,
		},
		{
			name:        "invalid data backend",
			mutate:      func(c *Config) { c.DataBackend = "postgres" },
			wantErr:     true,
			errorString: "invalid data backend 'postgres': must be one of [sqlite bolt memory]",
		},
		{
			name:        "sqlite backend missing database path",
			mutate:      func(c *Config) { c.SQLiteDBPath = "" },
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name: "bolt backend missing database path",
			mutate: func(c *Config) {
				c.DataBackend = BackendBolt
				c.BoltDBPath = ""
			},
			wantErr:     true,
			errorString: "bolt database path cannot be empty",
		},
		{
			name: "memory backend without data dir",
			mutate: func(c *Config) {
				c.DataBackend = BackendMemory
				c.DataDir = ""
			},
			wantErr: false,
		},
		{
			name:        "unknown log level",
			mutate:      func(c *Config) { c.LogLevel = "chatty" },
			wantErr:     true,
			errorString: "invalid log level 'chatty'",
		},
		{
			name:        "empty currency",
			mutate:      func(c *Config) { c.Currency = "  " },
			wantErr:     true,
			errorString: "currency label cannot be empty",
		},
		{
			name:        "shutdown timeout too short",
			mutate:      func(c *Config) { c.ShutdownTimeout = 100 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid shutdown timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Config.Validate() error = %v, want it to contain %q", err, tt.errorString)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := Config{Port: "x", DataBackend: "nope", LogLevel: "loud", Currency: "PKR", ShutdownTimeout: time.Second}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected an error")
	}
	for _, want := range []string{"invalid port", "invalid data backend", "invalid log level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q is missing %q", err, want)
		}
	}
}

func TestConfig_ValidateCreatesDatabaseDirectory(t *testing.T) {
	cfg := validConfig(t)
	cfg.DataBackend = BackendBolt
	cfg.BoltDBPath = filepath.Join(t.TempDir(), "nested", "finance.bolt")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if _, err := os.Stat(filepath.Dir(cfg.BoltDBPath)); err != nil {
		t.Errorf("database directory was not created: %v", err)
	}
}

func TestConfig_ValidateMemoryDataDirMustBeDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "seed")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := validConfig(t)
	cfg.DataBackend = BackendMemory
	cfg.DataDir = file

	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "is not a directory") {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoad(t *testing.T) {
	for _, key := range []string{
		"PORT", "DATA_BACKEND", "SQLITE_DB_PATH", "BOLT_DB_PATH", "DATA_DIR",
		"AUTO_AUTHENTICATE", "LOG_LEVEL", "METRICS_ENABLED", "CURRENCY", "SHUTDOWN_TIMEOUT", "TIMEZONE",
	} {
		t.Setenv(key, "")
	}

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.Port != "8081" {
			t.Errorf("Load() Port = %v, want 8081", cfg.Port)
		}
		if cfg.DataBackend != BackendSQLite {
			t.Errorf("Load() DataBackend = %v, want sqlite", cfg.DataBackend)
		}
		if cfg.SQLiteDBPath != "./data/smartfinance.db" {
			t.Errorf("Load() SQLiteDBPath = %v", cfg.SQLiteDBPath)
		}
		if cfg.BoltDBPath != "./data/smartfinance.bolt" {
			t.Errorf("Load() BoltDBPath = %v", cfg.BoltDBPath)
		}
		if !cfg.AutoAuthenticate {
			t.Error("Load() AutoAuthenticate = false, want true")
		}
		if !cfg.MetricsEnabled {
			t.Error("Load() MetricsEnabled = false, want true")
		}
		if cfg.Currency != "PKR" || cfg.LogLevel != "info" {
			t.Errorf("Load() Currency/LogLevel = %v/%v", cfg.Currency, cfg.LogLevel)
		}
		if cfg.ShutdownTimeout != 30*time.Second {
			t.Errorf("Load() ShutdownTimeout = %v, want 30s", cfg.ShutdownTimeout)
		}
		if loc, err := cfg.Location(); err != nil || loc != time.Local {
			t.Errorf("Location() = %v, %v; want time.Local", loc, err)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("DATA_BACKEND", "BOLT")
		t.Setenv("BOLT_DB_PATH", "/tmp/test.bolt")
		t.Setenv("AUTO_AUTHENTICATE", "false")
		t.Setenv("METRICS_ENABLED", "0")
		t.Setenv("CURRENCY", "USD")
		t.Setenv("SHUTDOWN_TIMEOUT", "5s")
		t.Setenv("TIMEZONE", "UTC")

		cfg := Load()

		if loc, err := cfg.Location(); err != nil || loc.String() != "UTC" {
			t.Errorf("Location() = %v, %v; want UTC", loc, err)
		}

		if cfg.Port != "9090" {
			t.Errorf("Load() Port = %v, want 9090", cfg.Port)
		}
		if cfg.DataBackend != BackendBolt {
			t.Errorf("Load() DataBackend = %v, want bolt", cfg.DataBackend)
		}
		if cfg.BoltDBPath != "/tmp/test.bolt" {
			t.Errorf("Load() BoltDBPath = %v", cfg.BoltDBPath)
		}
		if cfg.AutoAuthenticate || cfg.MetricsEnabled {
			t.Errorf("Load() booleans = %v/%v, want false/false", cfg.AutoAuthenticate, cfg.MetricsEnabled)
		}
		if cfg.Currency != "USD" || cfg.ShutdownTimeout != 5*time.Second {
			t.Errorf("Load() Currency/ShutdownTimeout = %v/%v", cfg.Currency, cfg.ShutdownTimeout)
		}
	})

	t.Run("invalid environment variables use defaults", func(t *testing.T) {
		t.Setenv("AUTO_AUTHENTICATE", "maybe")
		t.Setenv("SHUTDOWN_TIMEOUT", "soon")

		cfg := Load()

		if !cfg.AutoAuthenticate {
			t.Error("Load() AutoAuthenticate should fall back to true")
		}
		if cfg.ShutdownTimeout != 30*time.Second {
			t.Errorf("Load() ShutdownTimeout = %v, want 30s (default for invalid input)", cfg.ShutdownTimeout)
		}
	})
}
