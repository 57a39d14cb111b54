package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/atmohq/atmo-backend/internal/platform/anthropic"
	"github.com/atmohq/atmo-backend/internal/platform/gemini"
	"github.com/atmohq/atmo-backend/internal/platform/llm"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
	"github.com/atmohq/atmo-backend/internal/platform/neo4jdb"
	"github.com/atmohq/atmo-backend/internal/platform/openai"
	"github.com/atmohq/atmo-backend/internal/platform/redis"
)

// NewLLMClient builds the completion client for the configured provider.
func NewLLMClient(ctx context.Context, log *logger.Logger, cfg LLMConfig) (llm.Client, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	log.Info("Selecting LLM provider", "provider", provider, "model", cfg.Model)
	switch provider {
	case "openai", "":
		return openai.NewClient(log, openai.Config{
			APIKey:     cfg.OpenAIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			Model:      cfg.Model,
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
		})
	case "anthropic":
		return anthropic.NewClient(log, anthropic.Config{
			APIKey:     cfg.AnthropicKey,
			BaseURL:    cfg.AnthropicURL,
			Model:      cfg.Model,
			MaxRetries: cfg.MaxRetries,
			Timeout:    cfg.Timeout,
		})
	case "gemini":
		return gemini.NewClient(ctx, log, gemini.Config{
			APIKey: cfg.GeminiKey,
			Model:  cfg.Model,
		})
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}

func newMessageGuard(log *logger.Logger, cfg RedisConfig) (redis.MessageGuard, error) {
	guard, err := redis.NewMessageGuard(log, redis.Config{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		Prefix:   "atmo:chat:msg:",
		TTL:      cfg.GuardTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("init message guard: %w", err)
	}
	return guard, nil
}

func newNeo4j(ctx context.Context, log *logger.Logger, cfg Neo4jConfig) (*neo4jdb.Client, error) {
	client, err := neo4jdb.Open(ctx, log, neo4jdb.Config{
		URI:      cfg.URI,
		User:     cfg.User,
		Password: cfg.Password,
		Database: cfg.Database,
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("init neo4j: %w", err)
	}
	return client, nil
}
