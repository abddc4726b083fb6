package main

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	"github.com/tanpawarit/agentic-insurance-assistant/agent/agents/assistant"
	"github.com/tanpawarit/agentic-insurance-assistant/agent/agents/orchestrator"
	"github.com/tanpawarit/agentic-insurance-assistant/agent/insurance"
	llmx "github.com/tanpawarit/agentic-insurance-assistant/agent/llm"
	promptx "github.com/tanpawarit/agentic-insurance-assistant/agent/prompt"
	statex "github.com/tanpawarit/agentic-insurance-assistant/agent/state"
	toolx "github.com/tanpawarit/agentic-insurance-assistant/agent/tool"
	configx "github.com/tanpawarit/agentic-insurance-assistant/pkg/config"
	"github.com/tanpawarit/agentic-insurance-assistant/pkg/objectstore"
	openrouterx "github.com/tanpawarit/agentic-insurance-assistant/pkg/openrouter"
	postgresx "github.com/tanpawarit/agentic-insurance-assistant/pkg/postgres"
	"github.com/uptrace/bun"
)

func openDatabase() (*bun.DB, error) {
	dbCfg, err := configx.New[postgresx.Config]("DB")
	if err != nil {
		return nil, err
	}
	return postgresx.Open(*dbCfg)
}

// buildTools binds the lookup tools to the store, with presigned document links
// when enabled.
func buildTools(ctx context.Context, db *bun.DB) ([]*schema.ToolInfo, toolx.Executor, error) {
	docCfg, err := configx.New[objectstore.Config]("DOCUMENTS")
	if err != nil {
		return nil, nil, err
	}

	var opts []toolx.Option
	if docCfg.Presign {
		linker, err := objectstore.New(ctx, *docCfg)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, toolx.WithDocumentLinker(linker))
		log.Info().Dur("ttl", linker.TTL()).Msg("document links are presigned")
	}

	infos, executor := toolx.Build(insurance.NewStore(db), opts...)
	return infos, executor, nil
}

func buildOrchestrator(ctx context.Context, db *bun.DB) (*orchestrator.Orchestrator, error) {
	modelCfg, err := configx.New[openrouterx.Config]("OPENROUTER")
	if err != nil {
		return nil, err
	}
	if err := llmx.Validate(*modelCfg); err != nil {
		return nil, err
	}

	agentCfg, err := configx.New[llmx.AgentConfig]("AGENT")
	if err != nil {
		return nil, err
	}
	if err := agentCfg.Validate(); err != nil {
		return nil, err
	}

	prompts := promptx.LoadPromptSet()
	if err := prompts.Validate(); err != nil {
		return nil, err
	}

	chatModel, err := modelCfg.New(ctx)
	if err != nil {
		return nil, err
	}

	infos, executor, err := buildTools(ctx, db)
	if err != nil {
		return nil, err
	}

	agent, err := assistant.New(ctx, chatModel, prompts.Assistant, infos, executor, agentCfg.MaxSteps)
	if err != nil {
		return nil, fmt.Errorf("build assistant: %w", err)
	}

	redisCfg, err := configx.New[statex.UpstashRedisConfig]("UPSTASH_REDIS")
	if err != nil {
		return nil, err
	}
	archive, err := statex.NewArchive(*redisCfg)
	if err != nil {
		return nil, fmt.Errorf("build transcript archive: %w", err)
	}
	if redisCfg.Enabled() {
		log.Info().Dur("ttl", redisCfg.TTL).Msg("transcript archive enabled")
	}

	log.Info().
		Str("model", modelCfg.Model).
		Int("max_steps", agentCfg.MaxSteps).
		Dur("request_timeout", agentCfg.RequestTimeout).
		Msg("assistant ready")

	return orchestrator.New(agent, archive, orchestrator.Config{RequestTimeout: agentCfg.RequestTimeout})
}
