// internal/config/config.go
//
// Process configuration from the environment.
// A .env file in the working directory is loaded first (if present) and
// never overrides variables already set in the environment.

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full server configuration.
type Config struct {
	Port         string        `env:"PORT" envDefault:"5175"`
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`
	DBPath       string        `env:"DB_PATH" envDefault:"./data/app.db"`
	ClientOrigin string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	JWTSecret    string        `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	DailySalt    string        `env:"DAILY_SALT" envDefault:"design-deck"`

	// CatalogDir overrides the embedded content catalogs when set.
	CatalogDir string `env:"CATALOG_DIR"`

	Grader Grader
	Rules  Rules
}

// Grader configures the external grading service client.
type Grader struct {
	URL          string        `env:"GRADER_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	Model        string        `env:"GRADER_MODEL" envDefault:"gemini-pro-latest"`
	APIKey       string        `env:"GRADER_API_KEY"`
	MaxAttempts  int           `env:"GRADER_MAX_ATTEMPTS" envDefault:"3"`
	InitialDelay time.Duration `env:"GRADER_INITIAL_DELAY" envDefault:"1s"`
	Timeout      time.Duration `env:"GRADER_TIMEOUT" envDefault:"30s"`
}

// Rules overrides the engine's tunable numbers.
type Rules struct {
	HandSize      int `env:"HAND_SIZE" envDefault:"5"`
	StartingFocus int `env:"STARTING_FOCUS" envDefault:"3"`
}

// Load reads .env (best effort) and parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse parses the current environment without touching .env.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Rules.HandSize < 0 || cfg.Rules.StartingFocus < 0 {
		return Config{}, fmt.Errorf("parse env: hand size and starting focus must be non-negative")
	}
	return cfg, nil
}
