// config/config.go
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// Database drivers
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

// Config holds the backend settings read from the environment
type Config struct {
	Port           string
	JWTSecret      string
	TokenTTL       time.Duration
	DBDriver       string
	MongoURI       string
	MongoDatabase  string
	SQLitePath     string
	GoogleClientID string
	DemoMode       bool
	AdminPassword  string
	LogMode        string
	LogFile        string
	Email          EmailConfig
}

// EmailConfig selects and configures the notification provider
type EmailConfig struct {
	Provider       string // "postmark", "sendgrid" or "none"
	PostmarkToken  string
	SendgridAPIKey string
	Sender         string
}

// Load reads a .env file if present and builds the Config from the environment
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		zap.S().Debug("No .env file found. Proceeding with environment variables.")
	}
	return FromEnv()
}

// FromEnv builds the Config from the current environment only
func FromEnv() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", "8000"),
		JWTSecret:      getEnv("JWT_SECRET", "jojos-secret-key-change-this-in-prod"),
		TokenTTL:       cast.ToDuration(getEnv("TOKEN_TTL", "24h")),
		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		MongoURI:       getEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDatabase:  getEnv("MONGO_DATABASE", "jojos_store"),
		SQLitePath:     getEnv("SQLITE_PATH", "storefront.db"),
		GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),
		DemoMode:       cast.ToBool(os.Getenv("DEMO_MODE")),
		AdminPassword:  getEnv("ADMIN_PASSWORD", "admin123"),
		LogMode:        getEnv("LOG_MODE", "development"),
		LogFile:        os.Getenv("LOG_FILE"),
		Email: EmailConfig{
			Provider:       strings.ToLower(getEnv("EMAIL_PROVIDER", "none")),
			PostmarkToken:  os.Getenv("POSTMARK_API_TOKEN"),
			SendgridAPIKey: os.Getenv("SENDGRID_API_KEY"),
			Sender:         getEnv("EMAIL_SENDER", "store@jojos.com"),
		},
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	return cfg
}

// GoogleMockMode reports whether Google tokens are accepted without
// verification. A MOCK client id is only honoured in demo mode.
func (c *Config) GoogleMockMode() bool {
	return c.DemoMode && strings.Contains(c.GoogleClientID, "MOCK")
}

// GoogleEnabled reports whether the backend offers Google login at all
func (c *Config) GoogleEnabled() bool {
	if strings.Contains(c.GoogleClientID, "MOCK") {
		return c.DemoMode
	}
	return strings.TrimSpace(c.GoogleClientID) != ""
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
