package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL  string
	HTTPTimeout time.Duration
	SessionFile string
	Environment string
}

func Load() (*Config, error) {
	// .env is optional, plain environment variables win either way
	if err := godotenv.Load(".env"); err == nil {
		log.Println("Loaded configuration from .env file")
	}

	cfg := &Config{
		APIBaseURL:  os.Getenv("CLASSROOM_API_BASE_URL"),
		SessionFile: os.Getenv("CLASSROOM_SESSION_FILE"),
		Environment: os.Getenv("ENV"),
		HTTPTimeout: getenvDuration("CLASSROOM_HTTP_TIMEOUT", 10*time.Second),
	}

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("CLASSROOM_API_BASE_URL is required but not set")
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.SessionFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory for session file: %w", err)
		}
		cfg.SessionFile = filepath.Join(home, ".classroom", "session.json")
	}

	return cfg, nil
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}
