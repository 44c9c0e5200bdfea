package app

import (
	"os"
	"strconv"
	"time"

	"github.com/quillhaven/quill/pkg/jwtx"
)

type Config struct {
	AccessSecret  string // Required: HMAC secret for access tokens
	RefreshSecret string // Required: HMAC secret for refresh tokens, distinct from AccessSecret
	Issuer        string // Optional: issuer claim for tokens (default: quill-session)

	AccessTTL  time.Duration // Optional: access token lifetime (default: 15m)
	RefreshTTL time.Duration // Optional: refresh token lifetime (default: 168h)

	DatabaseFile   string // Optional: path to SQLite database file (default: ./quill.db)
	SessionBackend string // Optional: where session records live (sqlite, redis) (default: sqlite)
	RedisAddr      string // Required when SessionBackend is redis
	RedisPassword  string // Optional: redis auth
	RedisDB        int    // Optional: redis database number

	OIDCIssuer       string // Optional: external OIDC issuer URL; federated login is off when empty
	OIDCClientID     string // Required when OIDCIssuer is set
	OIDCClientSecret string // Optional: only needed for code exchange
	OIDCRedirectURL  string // Optional: only needed for code exchange

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired session sweep interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		AccessSecret:  os.Getenv("QUILL_ACCESS_SECRET"),
		RefreshSecret: os.Getenv("QUILL_REFRESH_SECRET"),
		Issuer:        getEnvOrDefault("QUILL_ISSUER", "quill-session"),

		AccessTTL:  getEnvDurationOrDefault("QUILL_ACCESS_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL: getEnvDurationOrDefault("QUILL_REFRESH_TTL", jwtx.DefaultRefreshTokenTTL),

		DatabaseFile:   getEnvOrDefault("QUILL_DATABASE_FILE", "quill.db"),
		SessionBackend: getEnvOrDefault("QUILL_SESSION_BACKEND", "sqlite"),
		RedisAddr:      os.Getenv("QUILL_REDIS_ADDR"),
		RedisPassword:  os.Getenv("QUILL_REDIS_PASSWORD"),
		RedisDB:        getEnvIntOrDefault("QUILL_REDIS_DB", 0),

		OIDCIssuer:       os.Getenv("QUILL_OIDC_ISSUER"),
		OIDCClientID:     os.Getenv("QUILL_OIDC_CLIENT_ID"),
		OIDCClientSecret: os.Getenv("QUILL_OIDC_CLIENT_SECRET"),
		OIDCRedirectURL:  os.Getenv("QUILL_OIDC_REDIRECT_URL"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
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

	return defaultValue
}
