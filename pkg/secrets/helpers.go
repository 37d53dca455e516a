package secrets

import (
	"context"
	"errors"
	"fmt"
)

// LoadString loads a secret, returning fallback when it is not set
func LoadString(ctx context.Context, m Manager, key, fallback string) (string, error) {
	value, err := m.GetSecret(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Overrides names the secrets that replace configured values
type Overrides struct {
	JWTSecret    *string
	OpenAIAPIKey *string
	DatabaseURL  *string
	RedisURL     *string
}

// Apply replaces each target with its secret when the backend has one.
// Targets keep their current value otherwise.
func Apply(ctx context.Context, m Manager, o Overrides) error {
	targets := []struct {
		key  string
		dest *string
	}{
		{"JWT_SECRET", o.JWTSecret},
		{"OPENAI_API_KEY", o.OpenAIAPIKey},
		{"DATABASE_URL", o.DatabaseURL},
		{"REDIS_URL", o.RedisURL},
	}

	for _, t := range targets {
		if t.dest == nil {
			continue
		}
		value, err := LoadString(ctx, m, t.key, *t.dest)
		if err != nil {
			return fmt.Errorf("load %s: %w", t.key, err)
		}
		*t.dest = value
	}
	return nil
}
