package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application.
type AppConfig struct {
	SpreadsheetID         string
	WorksheetName         string
	GoogleCredentialsJSON string // inline service-account JSON
	GoogleCredentialsFile string // or a path to it
	ToleranceMinutes      int    // allowed drift between declared and computed hours
	HTTPAddr              string
	CronSpecRefresh       string
	DatabaseURL           string // empty disables run history
	TelegramToken         string // empty disables notifications
	AdminTelegramID       int64
	LogLevel              string
	Environment           string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.SpreadsheetID = os.Getenv("SPREADSHEET_ID")
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("SPREADSHEET_ID is not set")
	}

	cfg.WorksheetName = os.Getenv("WORKSHEET_NAME")
	if cfg.WorksheetName == "" {
		cfg.WorksheetName = "Foglio1"
	}

	cfg.GoogleCredentialsJSON = os.Getenv("GOOGLE_CREDENTIALS_JSON")
	cfg.GoogleCredentialsFile = os.Getenv("GOOGLE_CREDENTIALS_FILE")
	if cfg.GoogleCredentialsJSON == "" && cfg.GoogleCredentialsFile == "" {
		return nil, fmt.Errorf("neither GOOGLE_CREDENTIALS_JSON nor GOOGLE_CREDENTIALS_FILE is set")
	}

	if tolStr := os.Getenv("TOLERANCE_MINUTES"); tolStr != "" {
		tol, err := strconv.Atoi(tolStr)
		if err != nil || tol < 0 {
			return nil, fmt.Errorf("invalid TOLERANCE_MINUTES: %q", tolStr)
		}
		cfg.ToleranceMinutes = tol
	}

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	cfg.CronSpecRefresh = os.Getenv("CRON_SPEC_REFRESH")
	if cfg.CronSpecRefresh == "" {
		cfg.CronSpecRefresh = "*/5 * * * *" // Default: every 5 minutes
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if adminIDStr := os.Getenv("ADMIN_TELEGRAM_ID"); adminIDStr != "" {
		adminID, err := strconv.ParseInt(adminIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
		}
		cfg.AdminTelegramID = adminID
	}
	if cfg.TelegramToken != "" && cfg.AdminTelegramID == 0 {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is set but ADMIN_TELEGRAM_ID is not")
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}

// NotificationsEnabled reports whether a Telegram notifier should be wired up.
func (c *AppConfig) NotificationsEnabled() bool {
	return c.TelegramToken != "" && c.AdminTelegramID != 0
}

// HistoryEnabled reports whether run summaries should be persisted.
func (c *AppConfig) HistoryEnabled() bool {
	return c.DatabaseURL != ""
}
