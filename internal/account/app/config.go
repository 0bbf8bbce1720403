package app

import (
	"os"
	"strconv"
	"time"

	"github.com/halcyonlabs/accountd/pkg/jwtx"
)

type Config struct {
	Issuer    string // Issuer claim for tokens (default: accountd)
	JWTSecret string // Required in prod: HMAC secret for token signing

	DatabaseFile string        // Path to SQLite database file (default: ./accounts.db)
	PepperFile   string        // Path to file containing pepper for password hashing (default: ./pepper)
	TokenTTL     time.Duration // Access token lifetime (default: 24h)

	AdminEmail    string // Optional: seed admin account email
	AdminPassword string // Optional: seed admin account password
	AdminName     string // Optional: seed admin account display name

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:              getEnvOrDefault("ACCOUNT_ISSUER", "accountd"),
		JWTSecret:           os.Getenv("ACCOUNT_JWT_SECRET"),
		DatabaseFile:        getEnvOrDefault("ACCOUNT_DATABASE_FILE", "accounts.db"),
		PepperFile:          getEnvOrDefault("ACCOUNT_PEPPER_FILE", "pepper"),
		TokenTTL:            getEnvDurationOrDefault("ACCOUNT_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		AdminEmail:          os.Getenv("ACCOUNT_ADMIN_EMAIL"),
		AdminPassword:       os.Getenv("ACCOUNT_ADMIN_PASSWORD"),
		AdminName:           os.Getenv("ACCOUNT_ADMIN_NAME"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
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

	return defaultValue
}
