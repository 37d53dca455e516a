// Package container builds the application's services from configuration.
package container

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/autoigdm/api/config"
	"github.com/autoigdm/api/pkg/accounts"
	"github.com/autoigdm/api/pkg/ai/llm"
	"github.com/autoigdm/api/pkg/analytics"
	"github.com/autoigdm/api/pkg/auth"
	"github.com/autoigdm/api/pkg/cache"
	"github.com/autoigdm/api/pkg/campaigns"
	"github.com/autoigdm/api/pkg/database"
	"github.com/autoigdm/api/pkg/domain"
	"github.com/autoigdm/api/pkg/leads"
	"github.com/autoigdm/api/pkg/logger"
	"github.com/autoigdm/api/pkg/messaging"
	"github.com/autoigdm/api/pkg/metrics"
	"github.com/autoigdm/api/pkg/secrets"
	"github.com/autoigdm/api/pkg/store"
	"github.com/autoigdm/api/pkg/store/memory"
)

// Container holds every wired service. Build one per process.
type Container struct {
	Config  *config.Config
	Logger  logger.Logger
	Metrics *metrics.Metrics

	Store domain.Store
	DB    *database.Client // nil with the memory store
	Cache *cache.Client    // nil when Redis is not configured

	Blacklist *auth.TokenBlacklist // nil when Redis is not configured
	Generator *messaging.Generator

	Auth      *auth.Service
	Accounts  *accounts.Service
	Campaigns *campaigns.Service
	Analytics *analytics.Service
}

// New wires the services described by cfg. Metrics are registered on reg;
// a nil reg skips metrics altogether.
func New(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) (*Container, error) {
	log := logger.New(cfg.LogLevel)
	c := &Container{Config: cfg, Logger: log}

	if reg != nil {
		c.Metrics = metrics.New(reg)
	}

	if err := loadSecrets(ctx, cfg); err != nil {
		return nil, err
	}

	switch cfg.Store {
	case "memory":
		c.Store = memory.New()
		log.Info("using in-memory store")
	case "sql", "":
		db, err := database.NewClient(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		c.DB = db
		c.Store = store.New(db)
		log.Info("using sql store", "driver", cfg.DatabaseDriver)
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}

	var cacheRepo domain.CacheRepository
	if cfg.RedisURL != "" {
		redisClient, err := cache.NewClient(cfg.RedisURL)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		c.Cache = redisClient
		c.Blacklist = auth.NewTokenBlacklist(redisClient)
		cacheRepo = redisClient
	} else {
		log.Warn("redis not configured, analytics caching and logout revocation disabled")
	}

	var client llm.LLMClient
	if cfg.OpenAIAPIKey != "" {
		client = llm.NewOpenAIClient(llm.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		}, log)
	} else {
		log.Warn("OPENAI_API_KEY not set, messages use fallback templates")
	}

	genCfg := messaging.DefaultConfig()
	if cfg.AITimeout > 0 {
		genCfg.Timeout = cfg.AITimeout
	}
	c.Generator = messaging.NewGenerator(client, genCfg, log, c.Metrics)

	c.Analytics = analytics.NewService(c.Store, cacheRepo, cfg.AnalyticsCacheTTL, c.Metrics, log)
	c.Accounts = accounts.NewService(c.Store, log)
	c.Campaigns = campaigns.NewService(c.Store, c.Generator, leads.NewProvisioner(), c.Analytics, c.Metrics, log)
	c.Auth = auth.NewService(c.Store.Users(), c.Blacklist, cfg.JWTSecret, cfg.JWTExpirationHours, c.Metrics, log)

	return c, nil
}

// loadSecrets overrides credentials in cfg from the configured backend.
// The env backend is already reflected in cfg.
func loadSecrets(ctx context.Context, cfg *config.Config) error {
	if cfg.SecretsBackend == "" || cfg.SecretsBackend == "env" {
		return nil
	}

	m, err := secrets.NewManager(secrets.Config{
		Backend:   cfg.SecretsBackend,
		AWSRegion: cfg.AWSRegion,
		Prefix:    cfg.SecretsPrefix,
	})
	if err != nil {
		return err
	}
	return secrets.Apply(ctx, m, secrets.Overrides{
		JWTSecret:    &cfg.JWTSecret,
		OpenAIAPIKey: &cfg.OpenAIAPIKey,
		DatabaseURL:  &cfg.DatabaseURL,
		RedisURL:     &cfg.RedisURL,
	})
}

// Ping checks the backing database and cache
func (c *Container) Ping(ctx context.Context) error {
	if c.DB != nil {
		if err := c.DB.Ping(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	if c.Cache != nil {
		if err := c.Cache.Ping(ctx); err != nil {
			return fmt.Errorf("cache: %w", err)
		}
	}
	return nil
}

// Close releases the database and cache connections
func (c *Container) Close() {
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			c.Logger.Warn("failed closing redis", "error", err)
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			c.Logger.Warn("failed closing database", "error", err)
		}
	}
}
