package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ironwall/authd/internal/auth/blob"
	"github.com/ironwall/authd/internal/auth/chat"
	"github.com/ironwall/authd/internal/auth/domain"
	"github.com/ironwall/authd/internal/auth/mail"
	"github.com/ironwall/authd/pkg/jwtx"
)

type Config struct {
	Secret string // Required: HMAC secret for session tokens
	Issuer string // Optional: issuer claim for tokens (default: ironwall-auth)

	DatabaseFile        string        // Optional: path to SQLite database file (default: ./auth.db)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	AllowedOrigins []string // Optional: CORS origin allowlist (default: none)

	OTPTTL        time.Duration // Optional: verification code lifetime (default: 10m)
	PendingMaxAge time.Duration // Optional: unverified registration retention (default: 15m)
	SessionTTL    time.Duration // Optional: session token lifetime (default: 7 days)

	DispatchPolicy mail.DispatchPolicy // strict | best-effort (default: best-effort)
	SMTP           mail.SMTPConfig
	Blob           blob.Config
	Chat           chat.Config

	SeedUsers bool // Optional: create the demo accounts at startup (default: false)
}

func LoadConfig() Config {
	return Config{
		Secret: os.Getenv("AUTH_SECRET"),
		Issuer: getEnvOrDefault("AUTH_ISSUER", "ironwall-auth"),

		DatabaseFile:        getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),

		AllowedOrigins: splitAndTrim(os.Getenv("ALLOWED_ORIGINS")),

		OTPTTL:        getEnvDurationOrDefault("OTP_TTL", domain.DefaultOTPTTL),
		PendingMaxAge: getEnvDurationOrDefault("PENDING_MAX_AGE", domain.DefaultPendingMaxAge),
		SessionTTL:    getEnvDurationOrDefault("SESSION_TTL", jwtx.DefaultSessionTTL),

		DispatchPolicy: mail.ParseDispatchPolicy(os.Getenv("EMAIL_DISPATCH_POLICY")),
		SMTP: mail.SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvIntOrDefault("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
			From:     os.Getenv("EMAIL_FROM"),
			FromName: os.Getenv("EMAIL_FROM_NAME"),
		},
		Blob: blob.Config{
			Endpoint:      os.Getenv("S3_ENDPOINT"),
			Region:        getEnvOrDefault("S3_REGION", "us-east-1"),
			Bucket:        os.Getenv("S3_BUCKET"),
			AccessKey:     os.Getenv("S3_ACCESS_KEY"),
			SecretKey:     os.Getenv("S3_SECRET_KEY"),
			PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
		},
		Chat: chat.Config{
			APIKey:  os.Getenv("GROQ_API_KEY"),
			BaseURL: os.Getenv("GROQ_BASE_URL"),
			Model:   os.Getenv("GROQ_MODEL"),
		},

		SeedUsers: getEnvBoolOrDefault("SEED_USERS", false),
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
