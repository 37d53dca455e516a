package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"API_PORT", "PORT", "STORE", "DATABASE_DRIVER", "OPENAI_MODEL", "AI_TIMEOUT_SECONDS", "CORS_ALLOWED_ORIGINS", "SECRETS_BACKEND"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "5000", cfg.APIPort)
	assert.Equal(t, "sql", cfg.Store)
	assert.Equal(t, "sqlite3", cfg.DatabaseDriver)
	assert.Equal(t, "gpt-4o", cfg.OpenAIModel)
	assert.Equal(t, 10*time.Second, cfg.AITimeout)
	assert.Equal(t, 168, cfg.JWTExpirationHours)
	assert.Len(t, cfg.CORSAllowedOrigins, 2)
	assert.Equal(t, "env", cfg.SecretsBackend)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("API_PORT", "")
	t.Setenv("AI_TIMEOUT_SECONDS", "3")
	t.Setenv("JWT_EXPIRATION_HOURS", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("API_ENVIRONMENT", "production")

	cfg := Load()

	assert.Equal(t, "7000", cfg.APIPort)
	assert.Equal(t, 3*time.Second, cfg.AITimeout)
	assert.Equal(t, 168, cfg.JWTExpirationHours, "invalid ints fall back to the default")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "production", cfg.SentryEnvironment)
	assert.True(t, cfg.IsProduction())
}
