// Package config reads the checkout service settings from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

const (
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

type Config struct {
	Port     string
	LogLevel string

	StorageBackend string
	RedisAddr      string
	// SessionTTL bounds how long captured sub-objects survive in session
	// storage. Zero keeps them until the session is deleted.
	SessionTTL time.Duration

	// JournalPath is the SQLite file of the transition journal. Empty
	// disables the journal.
	JournalPath string

	ServiceName    string
	TracingEnabled bool
	OTLPEndpoint   string
	Environment    string

	ShutdownTimeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		StorageBackend:  getEnv("STORAGE_BACKEND", StorageRedis),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		SessionTTL:      getEnvAsDuration("SESSION_TTL", 0),
		JournalPath:     getEnv("JOURNAL_PATH", "./data/checkout-journal.db"),
		ServiceName:     getEnv("OTEL_SERVICE_NAME", "checkout-service"),
		TracingEnabled:  getEnvAsBool("TRACING_ENABLED", true),
		OTLPEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		Environment:     getEnv("OTEL_RESOURCE_ATTRIBUTES_ENV", "local"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go durations ("90s", "24h") or a bare number of
// seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs := getEnvAsInt(key, -1); secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
