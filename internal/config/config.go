package config

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	API   APIConfig
	Log   LogConfig
	State StateConfig
}

type APIConfig struct {
	// BaseURL points at the backend. The default matches the local
	// development server.
	BaseURL string        `env:"API_BASE_URL, default=http://localhost:8000"`
	Timeout time.Duration `env:"HTTP_TIMEOUT, default=30s"`
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL, default=info"`
	File  string `env:"LOG_FILE"`
}

type StateConfig struct {
	// Dir holds the persisted credential. Defaults to
	// $XDG_CONFIG_HOME/adminboard (or the platform equivalent).
	Dir string `env:"STATE_DIR"`
}

// Load reads configuration from the environment. A .env file is picked up
// when present (local dev) and silently skipped otherwise.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, err
	}

	if cfg.State.Dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		cfg.State.Dir = filepath.Join(base, "adminboard")
	}

	return &cfg, nil
}
