package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	RedisURL    string
	ServerPort  string
	Environment string

	// Token signing
	JWTSecret      string
	JWTAlgorithm   string
	AccessTokenTTL time.Duration

	AuditLogPath string

	// Login rate limiting
	LoginRateMaxAttempts int
	LoginRateWindow      time.Duration

	// Empty means permissive CORS, for local development.
	CORSAllowedOrigins []string
}

// Load reads configuration once at startup. The returned value is never
// mutated afterwards; pass it (or its fields) explicitly to constructors.
func Load() *Config {
	// Try to load .env file, but don't fail if it doesn't exist
	// (containers use environment variables directly)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using environment variables")
	}

	ttlMinutes := getEnvAsInt("ACCESS_TOKEN_TTL_MINUTES", 15)

	auditPath := os.Getenv("AUDIT_LOG_PATH")
	if auditPath == "" {
		auditPath = "data/audit.log"
	}

	algorithm := os.Getenv("JWT_ALGORITHM")
	if algorithm == "" {
		algorithm = "HS256"
	}

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		ServerPort:  os.Getenv("SERVER_PORT"),
		Environment: os.Getenv("ENVIRONMENT"),

		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTAlgorithm:   algorithm,
		AccessTokenTTL: time.Duration(ttlMinutes) * time.Minute,

		AuditLogPath: auditPath,

		LoginRateMaxAttempts: getEnvAsInt("LOGIN_RATE_MAX_ATTEMPTS", 10),
		LoginRateWindow:      getEnvAsDuration("LOGIN_RATE_WINDOW", "1m"),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS"),
	}

	return cfg
}

// IsProduction reports whether the process runs with the production profile.
// Activation endpoints and relaxed defaults are gated on this.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnvAsInt retrieves environment variable as int with default value
func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %d", key, defaultVal)
		return defaultVal
	}
	return val
}

// getEnvAsSlice retrieves environment variable as a comma-separated list
func getEnvAsSlice(key string) []string {
	valStr := os.Getenv(key)
	if valStr == "" {
		return nil
	}
	parts := strings.Split(valStr, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}

// getEnvAsDuration retrieves environment variable as duration with default value
func getEnvAsDuration(key string, defaultVal string) time.Duration {
	valStr := os.Getenv(key)
	if valStr == "" {
		valStr = defaultVal
	}
	duration, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %s", key, defaultVal)
		duration, _ = time.ParseDuration(defaultVal)
	}
	return duration
}
