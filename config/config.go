package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// API Configuration
	APIPort        string
	APIHost        string
	APIEnvironment string

	// Storage
	Store          string // sql or memory
	DatabaseDriver string // postgres or sqlite3
	DatabaseURL    string

	// Redis (empty URL disables caching and token revocation)
	RedisURL string

	// JWT & Security
	JWTSecret          string
	JWTExpirationHours int

	// CORS
	CORSAllowedOrigins []string

	// AI message drafting
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	AITimeout     time.Duration

	// Analytics
	AnalyticsCacheTTL time.Duration

	// Secrets (aws reads the credentials below from AWS Secrets Manager)
	SecretsBackend string
	SecretsPrefix  string
	AWSRegion      string

	// Sentry
	SentryDSN         string
	SentryEnvironment string

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables
func Load() *Config {
	env := getEnv("API_ENVIRONMENT", "development")

	return &Config{
		// API
		APIPort:        getEnv("API_PORT", getEnv("PORT", "5000")),
		APIHost:        getEnv("API_HOST", "0.0.0.0"),
		APIEnvironment: env,

		// Storage
		Store:          getEnv("STORE", "sql"),
		DatabaseDriver: getEnv("DATABASE_DRIVER", "sqlite3"),
		DatabaseURL:    getEnv("DATABASE_URL", "file:autoigdm.db?_fk=1"),

		// Redis
		RedisURL: getEnv("REDIS_URL", ""),

		// JWT
		JWTSecret:          getEnv("JWT_SECRET", "change-this-in-production"),
		JWTExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 168),

		// CORS
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		// AI
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o"),
		AITimeout:     getEnvAsSeconds("AI_TIMEOUT_SECONDS", 10),

		// Analytics
		AnalyticsCacheTTL: getEnvAsSeconds("ANALYTICS_CACHE_TTL_SECONDS", 30),

		// Secrets
		SecretsBackend: getEnv("SECRETS_BACKEND", "env"),
		SecretsPrefix:  getEnv("SECRETS_PREFIX", ""),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),

		// Sentry
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		SentryEnvironment: getEnv("SENTRY_ENVIRONMENT", env),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// IsProduction reports whether the API runs with production settings
func (c *Config) IsProduction() bool {
	return c.APIEnvironment == "production"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsSeconds(key string, defaultSeconds int) time.Duration {
	return time.Duration(getEnvAsInt(key, defaultSeconds)) * time.Second
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var values []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
