package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "5175", cfg.Server.Port)
	assert.Equal(t, ":5175", cfg.Server.Addr())
	assert.Equal(t, "./data/app.db", cfg.Store.DBPath)
	assert.Equal(t, 48*time.Hour, cfg.Store.SaveTTL)
	assert.Equal(t, 50, cfg.Sync.BatchSize)
	assert.Equal(t, 14*24*time.Hour, cfg.Auth.TokenTTL())
	assert.Equal(t, 20, cfg.Auth.RatePerMinute)
	assert.Empty(t, cfg.Store.ValkeyURL)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SAVE_TTL", "90m")
	t.Setenv("SYNC_BATCH_SIZE", "7")
	t.Setenv("VALKEY_URL", "redis://localhost:6379/0")
	t.Setenv("PRODUCTION", "true")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr())
	assert.Equal(t, 90*time.Minute, cfg.Store.SaveTTL)
	assert.Equal(t, 7, cfg.Sync.BatchSize)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Store.ValkeyURL)
	assert.True(t, cfg.Server.Production)
}

func TestFromEnvRejects(t *testing.T) {
	cases := map[string][2]string{
		"batch":     {"SYNC_BATCH_SIZE", "0"},
		"expiry":    {"JWT_EXPIRES_DAYS", "-1"},
		"ttl":       {"SAVE_TTL", "soon"},
		"rate":      {"AUTH_RATE_PER_MINUTE", "-3"},
		"half word": {"WORDS_TARGETS_FILE", "/tmp/targets.txt"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestNewLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "server.log")
	logger, closer, err := NewLogger(Log{Level: "debug", File: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1})
	require.NoError(t, err)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	logger.Info().Str("component", "test").Msg("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"test"`)
	assert.Contains(t, string(data), `"message":"hello"`)
}

func TestNewLoggerBadLevel(t *testing.T) {
	_, _, err := NewLogger(Log{Level: "loud"})
	assert.Error(t, err)
}
