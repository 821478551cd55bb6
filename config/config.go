package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the storefront settings read from the environment.
type Config struct {
	Port              string        `envconfig:"PORT" default:"8080"`
	APIBaseURL        string        `envconfig:"API_BASE_URL"`
	APITimeout        time.Duration `envconfig:"API_TIMEOUT" default:"30s"`
	FrontendURL       string        `envconfig:"FRONTEND_URL"`
	AdminURL          string        `envconfig:"ADMIN_URL"`
	LogLevel          string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat         string        `envconfig:"LOG_FORMAT" default:"text"`
	SessionStore      string        `envconfig:"SESSION_STORE" default:"memory"`
	RedisURL          string        `envconfig:"REDIS_URL"`
	SessionTTL        time.Duration `envconfig:"SESSION_TTL" default:"2h"`
	DatabaseURL       string        `envconfig:"DATABASE_URL"`
	StorageBucket     string        `envconfig:"FIREBASE_STORAGE_BUCKET"`
	GoogleCredentials string        `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`
	GiftRedirectDelay time.Duration `envconfig:"GIFT_REDIRECT_DELAY" default:"2s"`
	AuthRateLimit     int           `envconfig:"AUTH_RATE_LIMIT" default:"10"`
}

// LoadEnv reads .env (or the given files) into the process environment. A
// missing file is fine; in production the variables are set directly.
func LoadEnv(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Load decodes the environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	cfg.SessionStore = strings.ToLower(strings.TrimSpace(cfg.SessionStore))
	return &cfg, nil
}

// ValidateEnv checks that critical environment variables are set.
// Returns an error if any critical variable is missing.
func ValidateEnv() error {
	var missing []string

	if os.Getenv("API_BASE_URL") == "" {
		missing = append(missing, "API_BASE_URL")
	}
	if strings.EqualFold(os.Getenv("SESSION_STORE"), "redis") && os.Getenv("REDIS_URL") == "" {
		missing = append(missing, "REDIS_URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}

	if os.Getenv("DATABASE_URL") == "" {
		log.Println("WARNING: DATABASE_URL not set - gift attempts will not be journaled")
	}
	if os.Getenv("FIREBASE_STORAGE_BUCKET") == "" {
		log.Println("WARNING: FIREBASE_STORAGE_BUCKET not set - delivery staff licence uploads will fail")
	}
	if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
		log.Println("WARNING: GOOGLE_APPLICATION_CREDENTIALS not set - Firebase features may not work")
	}
	if os.Getenv("FRONTEND_URL") == "" {
		log.Println("WARNING: FRONTEND_URL not set - CORS may not work correctly")
	}
	if os.Getenv("ADMIN_URL") == "" {
		log.Println("WARNING: ADMIN_URL not set")
	}

	return nil
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// Origins returns the configured CORS origins, skipping empty ones.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range []string{c.FrontendURL, c.AdminURL} {
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
