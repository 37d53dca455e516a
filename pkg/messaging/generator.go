// Package messaging drafts outreach messages with a text-generation service
// and falls back to fixed templates whenever that service cannot answer.
package messaging

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/autoigdm/api/pkg/ai/llm"
	"github.com/autoigdm/api/pkg/logger"
	"github.com/autoigdm/api/pkg/metrics"
)

const (
	kindInitial      = "initial"
	kindPersonalized = "personalized"
)

// Config bounds each generation call
type Config struct {
	Timeout     time.Duration
	MaxTokens   int
	Temperature float32
}

// DefaultConfig returns the drafting limits used in production
func DefaultConfig() Config {
	return Config{
		Timeout:     10 * time.Second,
		MaxTokens:   100,
		Temperature: 0.7,
	}
}

// Generator drafts initial and personalized outreach messages. Its methods
// never fail: every problem with the service yields fallback text.
type Generator struct {
	client  llm.LLMClient
	cfg     Config
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewGenerator creates a generator. A nil client means no credential is
// configured and every draft uses the fallback templates.
func NewGenerator(client llm.LLMClient, cfg Config, log logger.Logger, m *metrics.Metrics) *Generator {
	defaults := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaults.MaxTokens
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaults.Temperature
	}
	if log == nil {
		log = logger.Default()
	}

	return &Generator{
		client:  client,
		cfg:     cfg,
		logger:  log.With("component", "message_generator"),
		metrics: m,
	}
}

// GenerateInitial drafts the campaign's opening message for an audience
func (g *Generator) GenerateInitial(ctx context.Context, audience string) string {
	return g.generate(ctx, kindInitial, InitialPrompt(audience), InitialFallback(audience), blankInitial)
}

// GeneratePersonalized drafts a message addressed to one lead
func (g *Generator) GeneratePersonalized(ctx context.Context, audience, name string) string {
	return g.generate(ctx, kindPersonalized, PersonalizedPrompt(audience, name),
		PersonalizedFallback(audience, name), blankPersonalized(name))
}

func (g *Generator) generate(ctx context.Context, kind, prompt, fallback, blank string) string {
	if g.client == nil {
		g.metrics.RecordGenerationFallback(kind, "no_client")
		return fallback
	}

	callCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	resp, err := g.client.Chat(callCtx, llm.ChatRequest{
		Messages:    llm.Messages(SystemPrompt, prompt),
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		reason := "error"
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			reason = "timeout"
		}
		g.logger.Warn("message generation failed, using fallback", "kind", kind, "reason", reason, "error", err)
		g.metrics.RecordGenerationFallback(kind, reason)
		return fallback
	}

	content := ""
	if resp != nil {
		content = strings.TrimSpace(resp.Message)
	}
	if content == "" {
		g.metrics.RecordGenerationFallback(kind, "blank")
		return blank
	}
	return content
}
