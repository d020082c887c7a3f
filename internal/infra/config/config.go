package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
)

// DefaultPortalURL is the substitution viewer endpoint of the school's EduPage portal.
const DefaultPortalURL = "https://zs2ostrzeszow.edupage.org/substitution/server/viewer.js?__func=getSubstViewerDayDataHtml"

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken string
	LogLevel      string
	Environment   string

	PortalURL           string
	PortalTimeout       time.Duration
	PortalFetchAttempts int

	// Automatic notifications run while WindowStartHour <= hour < WindowEndHour.
	WindowStartHour int
	WindowEndHour   int
	PollInterval    time.Duration
	Location        *time.Location
}

// Load reads configuration from environment variables and .env file (if present).
// TELEGRAM_TOKEN is not checked here; commands that start the bot require it.
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	cfg.PortalURL = os.Getenv("PORTAL_URL")
	if cfg.PortalURL == "" {
		cfg.PortalURL = DefaultPortalURL
	}

	if cfg.PortalTimeout, err = durationEnv("PORTAL_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.PortalFetchAttempts, err = intEnv("PORTAL_FETCH_ATTEMPTS", 1); err != nil {
		return nil, err
	}
	if cfg.PortalFetchAttempts < 1 {
		return nil, fmt.Errorf("invalid PORTAL_FETCH_ATTEMPTS: must be at least 1, got %d", cfg.PortalFetchAttempts)
	}

	if cfg.WindowStartHour, err = intEnv("NOTIFY_WINDOW_START_HOUR", 20); err != nil {
		return nil, err
	}
	if cfg.WindowEndHour, err = intEnv("NOTIFY_WINDOW_END_HOUR", 23); err != nil {
		return nil, err
	}
	if cfg.WindowStartHour < 0 || cfg.WindowEndHour > 24 || cfg.WindowStartHour >= cfg.WindowEndHour {
		return nil, fmt.Errorf("invalid notification window %d-%d: need 0 <= start < end <= 24", cfg.WindowStartHour, cfg.WindowEndHour)
	}

	if cfg.PollInterval, err = durationEnv("POLL_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.PollInterval < time.Second {
		return nil, fmt.Errorf("invalid POLL_INTERVAL: must be at least 1s, got %s", cfg.PollInterval)
	}

	tz := os.Getenv("TIMEZONE")
	if tz == "" {
		tz = "Europe/Warsaw"
	}
	cfg.Location, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	return cfg, nil
}

func intEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
