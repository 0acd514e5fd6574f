package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/drawguess/internal/factory"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, factory.StorageTypeMemory, cfg.StorageType)
	assert.Equal(t, 24*time.Hour, cfg.RedisGameTTL)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)

	fc := cfg.Factory(nil)
	assert.Nil(t, fc.RedisConfig)
	assert.Empty(t, fc.SQLitePath)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DRAWGUESS_PORT", "9090")
	t.Setenv("DRAWGUESS_LOG_LEVEL", "debug")
	t.Setenv("DRAWGUESS_STORAGE_TYPE", "redis")
	t.Setenv("DRAWGUESS_REDIS_URL", "redis://cache:6379/2")
	t.Setenv("DRAWGUESS_REDIS_GAME_TTL", "2h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server().Port)
	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	fc := cfg.Factory(nil)
	require.NotNil(t, fc.RedisConfig)
	assert.Equal(t, "redis://cache:6379/2", fc.RedisConfig.URL)
	assert.Equal(t, 2*time.Hour, fc.RedisConfig.GameTTL)
}

func TestLoadSQLite(t *testing.T) {
	t.Setenv("DRAWGUESS_STORAGE_TYPE", "sqlite")
	t.Setenv("DRAWGUESS_SQLITE_PATH", "/var/lib/drawguess/games.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/drawguess/games.db", cfg.Factory(nil).SQLitePath)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string][2]string{
		"port":       {"DRAWGUESS_PORT", "eighty"},
		"duration":   {"DRAWGUESS_REDIS_GAME_TTL", "forever"},
		"log level":  {"DRAWGUESS_LOG_LEVEL", "chatty"},
		"log format": {"DRAWGUESS_LOG_FORMAT", "xml"},
	}
	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
