package app

import (
	"context"
	"errors"

	"github.com/atmohq/atmo-backend/internal/data/graph"
	"github.com/atmohq/atmo-backend/internal/data/repos"
	"github.com/atmohq/atmo-backend/internal/modules/chat"
	"github.com/atmohq/atmo-backend/internal/modules/docgen"
	"github.com/atmohq/atmo-backend/internal/platform/gcp"
	"github.com/atmohq/atmo-backend/internal/platform/llm"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
	"github.com/atmohq/atmo-backend/internal/platform/neo4jdb"
	"github.com/atmohq/atmo-backend/internal/platform/redis"
	"github.com/atmohq/atmo-backend/internal/services"
)

type Clients struct {
	LLM     llm.Client
	Guard   redis.MessageGuard
	Neo4j   *neo4jdb.Client
	Outputs gcp.OutputStore
}

func (c Clients) close(ctx context.Context) error {
	var errs []error
	if c.Guard != nil {
		errs = append(errs, c.Guard.Close())
	}
	if c.Neo4j != nil {
		errs = append(errs, c.Neo4j.Close(ctx))
	}
	if c.Outputs != nil {
		errs = append(errs, c.Outputs.Close())
	}
	return errors.Join(errs...)
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	var c Clients
	var err error
	if c.LLM, err = NewLLMClient(ctx, log, cfg.LLM); err != nil {
		return c, err
	}
	if c.Guard, err = newMessageGuard(log, cfg.Redis); err != nil {
		return c, err
	}
	if c.Neo4j, err = newNeo4j(ctx, log, cfg.Neo4j); err != nil {
		_ = c.close(ctx)
		return c, err
	}
	if c.Outputs, err = resolveOutputStore(ctx, log, cfg.Storage); err != nil {
		_ = c.close(ctx)
		return c, err
	}
	return c, nil
}

type Services struct {
	Auth      services.AuthService
	Chat      services.ChatService
	Documents services.DocumentService
	Outputs   services.OutputService
	Workspace services.WorkspaceService
}

func wireServices(log *logger.Logger, cfg Config, repoSet repos.Set, clients Clients) Services {
	chatTemp := cfg.LLM.ChatTemperature
	docTemp := cfg.Docgen.Temperature

	orchestrator := chat.NewOrchestrator(chat.Deps{
		Log:   log,
		LLM:   clients.LLM,
		Repos: repoSet,
		Graph: graph.NewWorkspaceGraph(clients.Neo4j, log),
		Options: chat.Options{
			DedupWindow:         cfg.Dedup.Window,
			SimilarityThreshold: cfg.Dedup.Threshold,
			MaxTokens:           cfg.LLM.ChatMaxTokens,
			Temperature:         &chatTemp,
		},
	})
	generator := docgen.NewGenerator(log, clients.LLM, docgen.Config{
		MaxAttempts:    cfg.Docgen.MaxAttempts,
		AttemptTimeout: cfg.Docgen.AttemptTimeout,
		MaxTokens:      cfg.Docgen.MaxTokens,
		Temperature:    &docTemp,
	})
	documents := services.NewDocumentService(log, generator, repoSet.Outputs, clients.Outputs)

	return Services{
		Auth:      services.NewAuthService(log, cfg.Auth.JWTSecret, cfg.Auth.Audience),
		Chat:      services.NewChatService(log, repoSet, chat.NewFetcher(log, repoSet), orchestrator, documents, clients.Guard),
		Documents: documents,
		Outputs:   services.NewOutputService(log, repoSet.Outputs),
		Workspace: services.NewWorkspaceService(log, repoSet),
	}
}
