package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"8080"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	SessionSecret string        `env:"SESSION_SECRET"`
	SessionMaxAge time.Duration `env:"SESSION_MAX_AGE" default:"168h"` // 7 days

	AdminEmail string `env:"ADMIN_EMAIL" default:"admin@example.com"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURI  string `env:"GOOGLE_REDIRECT_URI"`

	DataDir       string `env:"DATA_DIR" default:"."`
	UsersFile     string `env:"USERS_FILE" default:"users.json"`
	ChannelsFile  string `env:"CHANNELS_FILE" default:"channels.json"`
	AnalyticsFile string `env:"ANALYTICS_FILE" default:"analytics.json"`

	// Comma-separated list of origins allowed to make credentialed requests.
	FrontendOrigins string `env:"FRONTEND_ORIGINS" default:"http://localhost:5507,http://127.0.0.1:5507,http://localhost:3000,http://127.0.0.1:3000"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}

	// Google OAuth is optional, but a half-configured provider is a mistake.
	set := 0
	for _, v := range []string{cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI} {
		if v != "" {
			set++
		}
	}
	if set != 0 && set != 3 {
		return fmt.Errorf("GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET and GOOGLE_REDIRECT_URI must be set together")
	}

	return nil
}

// GoogleConfigured reports whether the Google OAuth provider is usable.
// The upstream placeholder value counts as unconfigured.
func (c *Config) GoogleConfigured() bool {
	return c.GoogleClientID != "" && c.GoogleClientID != "YOUR_CLIENT_ID"
}

// UsersPath returns the location of the users document.
func (c *Config) UsersPath() string { return filepath.Join(c.DataDir, c.UsersFile) }

// ChannelsPath returns the location of the channels document.
func (c *Config) ChannelsPath() string { return filepath.Join(c.DataDir, c.ChannelsFile) }

// AnalyticsPath returns the location of the analytics document.
func (c *Config) AnalyticsPath() string { return filepath.Join(c.DataDir, c.AnalyticsFile) }

// Origins splits FrontendOrigins into a slice for the CORS middleware.
func (c *Config) Origins() []string {
	parts := strings.Split(c.FrontendOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
