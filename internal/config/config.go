// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as logging, database path, and backup scheduling.
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/tbourn/go-request-ledger/internal/sysutil"
)

// BackupConfig defines snapshot export settings.
type BackupConfig struct {
	Dir      string // BACKUP_DIR: directory archives are written to
	TZ       string // BACKUP_TZ: IANA zone encoded into archive names
	Schedule string // BACKUP_SCHEDULE: cron expression; empty disables the job
}

// Config holds all configuration values for the application.
type Config struct {
	// Logging
	LogLevel  string // debug|info|warn|error|fatal|panic
	LogPretty bool   // pretty console logs in dev

	// App
	DBPath string // SQLite path

	// Backups
	Backup BackupConfig

	// Observability
	MetricsAddr string // listen address for /metrics; empty disables it
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Logging
		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty: getbool("LOG_PRETTY", false),

		// App
		DBPath: getenv("DB_PATH", "ledger.db"),

		// Backups
		Backup: BackupConfig{
			Dir:      getenv("BACKUP_DIR", "."),
			TZ:       getenv("BACKUP_TZ", "Asia/Kolkata"),
			Schedule: getenv("BACKUP_SCHEDULE", ""),
		},

		// Observability
		MetricsAddr: getenv("METRICS_ADDR", ""),
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if strings.TrimSpace(cfg.Backup.Dir) == "" {
		return cfg, errors.New("BACKUP_DIR must not be empty")
	}
	if _, err := time.LoadLocation(cfg.Backup.TZ); err != nil {
		return cfg, errors.New("BACKUP_TZ must be a valid IANA timezone")
	}

	return cfg, nil
}

// ---- helpers ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && strings.TrimSpace(v) != "" {
		return sysutil.IsTruthy(v)
	}
	return def
}
