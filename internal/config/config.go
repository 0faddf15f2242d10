// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the api binary needs to start.
type Config struct {
	Addr string `env:"ORGBASE_ADDR" envDefault:":8080"`

	// PGDSN is optional; without it the service runs on in-memory stores.
	PGDSN string `env:"ORGBASE_PG_DSN"`

	// RedisAddr is optional; without it refresh sessions live in memory.
	RedisAddr     string `env:"ORGBASE_REDIS_ADDR"`
	RedisPassword string `env:"ORGBASE_REDIS_PASSWORD"`
	RedisDB       int    `env:"ORGBASE_REDIS_DB" envDefault:"0"`

	AuthSecret string        `env:"ORGBASE_AUTH_SECRET"`
	AccessTTL  time.Duration `env:"ORGBASE_ACCESS_TTL" envDefault:"5h"`
	RefreshTTL time.Duration `env:"ORGBASE_REFRESH_TTL" envDefault:"168h"`

	RateLimitPerSecond int `env:"ORGBASE_RATE_LIMIT_PER_SECOND" envDefault:"50"`
	RateLimitBurst     int `env:"ORGBASE_RATE_LIMIT_BURST" envDefault:"100"`
}

// Load parses the environment and validates required values.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.AuthSecret == "" {
		return Config{}, errors.New("ORGBASE_AUTH_SECRET is required")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return Config{}, errors.New("token TTLs must be positive")
	}
	return cfg, nil
}
