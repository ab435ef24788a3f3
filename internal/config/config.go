// Package config loads goobcms settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds process settings. Command-line flags default to these values.
type Config struct {
	StorePath       string        `env:"GOOBCMS_STORE_PATH" envDefault:"."`
	Edition         string        `env:"GOOBCMS_EDITION" envDefault:"community"`
	Port            int           `env:"GOOBCMS_PORT" envDefault:"8080"`
	AdminPort       int           `env:"GOOBCMS_ADMIN_PORT" envDefault:"8383"`
	PublicDir       string        `env:"GOOBCMS_PUBLIC_DIR" envDefault:"public"`
	ShutdownTimeout time.Duration `env:"GOOBCMS_SHUTDOWN_TIMEOUT" envDefault:"15s"`
	LogLevel        string        `env:"GOOBCMS_LOG_LEVEL" envDefault:"info"`
	BcryptCost      int           `env:"GOOBCMS_BCRYPT_COST" envDefault:"10"`
	SessionTTL      time.Duration `env:"GOOBCMS_SESSION_TTL" envDefault:"720h"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
