package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer    string // Issuer claim for session tokens (default: phishguard)
	JWTSecret string // Required in prod: HS256 signing secret

	MLServiceURL  string        // Classifier base URL (default: http://localhost:8000)
	MLTimeout     time.Duration // Per-call classifier timeout (default: 30s)
	DatabaseFile  string        // Path to SQLite database file (default: ./phishguard.db)
	PepperFile    string        // Path to password hashing pepper file (default: ./pepper)
	AllowedOrigin string        // CORS origin for the frontend (default: http://localhost:3000)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 5000)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		Issuer:        getEnvOrDefault("PHISHGUARD_ISSUER", "phishguard"),
		JWTSecret:     os.Getenv("PHISHGUARD_JWT_SECRET"),
		MLServiceURL:  getEnvOrDefault("PHISHGUARD_ML_URL", "http://localhost:8000"),
		MLTimeout:     getEnvDurationOrDefault("PHISHGUARD_ML_TIMEOUT", 30*time.Second),
		DatabaseFile:  getEnvOrDefault("PHISHGUARD_DATABASE_FILE", "phishguard.db"),
		PepperFile:    getEnvOrDefault("PHISHGUARD_PEPPER_FILE", "pepper"),
		AllowedOrigin: getEnvOrDefault("PHISHGUARD_ALLOWED_ORIGIN", "http://localhost:3000"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 5000),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
