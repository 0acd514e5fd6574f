// Package config loads the server's settings from DRAWGUESS_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mcoot/drawguess/internal/api"
	"github.com/mcoot/drawguess/internal/factory"
	redisstorage "github.com/mcoot/drawguess/internal/storage/redis"
)

// Config holds every setting the server reads at startup
type Config struct {
	Host            string        `env:"DRAWGUESS_HOST"`
	Port            int           `env:"DRAWGUESS_PORT"             envDefault:"8080"`
	ReadTimeout     time.Duration `env:"DRAWGUESS_READ_TIMEOUT"     envDefault:"15s"`
	WriteTimeout    time.Duration `env:"DRAWGUESS_WRITE_TIMEOUT"    envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"DRAWGUESS_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	LogLevel  string `env:"DRAWGUESS_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"DRAWGUESS_LOG_FORMAT" envDefault:"json"`

	StorageType string `env:"DRAWGUESS_STORAGE_TYPE" envDefault:"memory"`
	SQLitePath  string `env:"DRAWGUESS_SQLITE_PATH"  envDefault:"drawguess.db"`

	RedisURL      string        `env:"DRAWGUESS_REDIS_URL"       envDefault:"redis://localhost:6379"`
	RedisPoolSize int           `env:"DRAWGUESS_REDIS_POOL_SIZE" envDefault:"10"`
	RedisGameTTL  time.Duration `env:"DRAWGUESS_REDIS_GAME_TTL"  envDefault:"24h"`
}

// Load parses the environment
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}
	switch cfg.LogFormat {
	case "json", "text":
	default:
		return Config{}, fmt.Errorf("invalid DRAWGUESS_LOG_FORMAT %q: must be 'json' or 'text'", cfg.LogFormat)
	}
	return cfg, nil
}

// Level returns the configured slog level
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid DRAWGUESS_LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Server returns the HTTP server settings
func (c Config) Server() api.ServerConfig {
	sc := api.DefaultServerConfig()
	sc.Host = c.Host
	sc.Port = c.Port
	sc.ReadTimeout = c.ReadTimeout
	sc.WriteTimeout = c.WriteTimeout
	sc.ShutdownTimeout = c.ShutdownTimeout
	return sc
}

// Factory returns the application factory settings
func (c Config) Factory(logger *slog.Logger) factory.Config {
	fc := factory.Config{
		Logger:      logger,
		StorageType: c.StorageType,
	}
	switch c.StorageType {
	case factory.StorageTypeRedis:
		rc := redisstorage.DefaultConfig()
		rc.URL = c.RedisURL
		rc.PoolSize = c.RedisPoolSize
		rc.GameTTL = c.RedisGameTTL
		fc.RedisConfig = &rc
	case factory.StorageTypeSQLite:
		fc.SQLitePath = c.SQLitePath
	}
	return fc
}
