package app

import (
	"os"
	"strconv"
	"time"

	"github.com/studyden/studyden/pkg/jwtx"
)

type Config struct {
	Issuer string // Issuer claim for credentials (default: studyden-auth)

	AccessTTL  time.Duration // Access credential lifetime (default: 15m)
	RefreshTTL time.Duration // Refresh credential lifetime (default: 168h)

	AccessKeyFile  string // Optional: PEM file with the Ed25519 access signing key
	RefreshKeyFile string // Optional: PEM file with the Ed25519 refresh signing key

	RotateRefresh bool // Reissue the refresh credential on every refresh
	CookieSecure  bool // Mark credential cookies Secure (default: true outside dev)

	DatabaseFile        string        // Path to SQLite database file (default: ./studyden.db)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	env := getEnvOrDefault("ENV", "dev")

	cfg := Config{
		Issuer:              getEnvOrDefault("AUTH_ISSUER", "studyden-auth"),
		AccessTTL:           getEnvDurationOrDefault("AUTH_ACCESS_TTL", jwtx.DefaultAccessTTL),
		RefreshTTL:          getEnvDurationOrDefault("AUTH_REFRESH_TTL", jwtx.DefaultRefreshTTL),
		AccessKeyFile:       os.Getenv("AUTH_ACCESS_KEY_FILE"),
		RefreshKeyFile:      os.Getenv("AUTH_REFRESH_KEY_FILE"),
		RotateRefresh:       getEnvBoolOrDefault("AUTH_ROTATE_REFRESH", false),
		CookieSecure:        getEnvBoolOrDefault("AUTH_COOKIE_SECURE", env != "dev"),
		DatabaseFile:        getEnvOrDefault("AUTH_DATABASE_FILE", "studyden.db"),
		Env:                 env,
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// e.g. "15m", "168h", "90s"
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// bare integers read as seconds
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}

	return defaultValue
}
