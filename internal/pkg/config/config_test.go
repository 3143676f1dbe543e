package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORAGE_BACKEND", "SESSION_TTL", "TRACING_ENABLED", "JOURNAL_PATH"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageRedis, cfg.StorageBackend)
	assert.Equal(t, time.Duration(0), cfg.SessionTTL)
	assert.True(t, cfg.TracingEnabled)
	assert.Equal(t, "./data/checkout-journal.db", cfg.JournalPath)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORAGE_BACKEND", StorageMemory)
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("TRACING_ENABLED", "false")
	t.Setenv("SHUTDOWN_TIMEOUT", "5")

	cfg := LoadConfig()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.StorageBackend)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.False(t, cfg.TracingEnabled)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestGetEnvAsDuration_Invalid(t *testing.T) {
	t.Setenv("SESSION_TTL", "soon")
	assert.Equal(t, time.Hour, getEnvAsDuration("SESSION_TTL", time.Hour))
}
