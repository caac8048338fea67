package main

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/pattarapon/agentrun/agent/contract"
	executorx "github.com/pattarapon/agentrun/agent/executor"
	gatewayx "github.com/pattarapon/agentrun/agent/gateway"
	historyx "github.com/pattarapon/agentrun/agent/history"
	llmx "github.com/pattarapon/agentrun/agent/llm"
	orchestratorx "github.com/pattarapon/agentrun/agent/orchestrator"
	plannerx "github.com/pattarapon/agentrun/agent/planner"
	summarizerx "github.com/pattarapon/agentrun/agent/summarizer"
	toolx "github.com/pattarapon/agentrun/agent/tool"
	configx "github.com/pattarapon/agentrun/pkg/config"
	_ "github.com/pattarapon/agentrun/pkg/logger/autoload"
	providerx "github.com/pattarapon/agentrun/pkg/provider"
	shellx "github.com/pattarapon/agentrun/pkg/shell"
)

type AppConfig struct {
	HistoryDriver string `envconfig:"HISTORY_DRIVER" split_words:"true" default:"memory"`
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("AGENT")
	llmCfg := configx.MustNew[llmx.Config]("LLM")
	if err := llmCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid llm configuration")
	}
	execCfg := configx.MustNew[executorx.Config]("EXECUTOR")

	plannerGateway := mustGateway(ctx, llmCfg.ProviderFor(llmx.RolePlanner))
	summarizerGateway := mustGateway(ctx, llmCfg.ProviderFor(llmx.RoleSummarizer))

	taskPlanner, err := plannerx.New(plannerGateway)
	if err != nil {
		log.Fatal().Err(err).Msg("create planner")
	}
	taskSummarizer, err := summarizerx.New(summarizerGateway)
	if err != nil {
		log.Fatal().Err(err).Msg("create summarizer")
	}

	registry := toolx.NewDefaultRegistry()
	taskExecutor := executorx.New(registry, *execCfg)

	svc, err := orchestratorx.New(
		taskPlanner,
		taskExecutor,
		taskSummarizer,
		newHistory(ctx, appCfg.HistoryDriver),
		registry.Specs(),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("create orchestrator")
	}

	sdkClient := providerx.NewClient(llmCfg.ProviderFor(llmx.RolePlanner))
	if err := shellx.New(svc, sdkClient, *llmCfg).Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("shell exited with error")
	}
}

func mustGateway(ctx context.Context, cfg providerx.Config) *gatewayx.ModelGateway {
	chatModel, err := cfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Str("model", cfg.Model).Msg("create chat model")
	}
	gw, err := gatewayx.New(ctx, chatModel)
	if err != nil {
		log.Fatal().Err(err).Msg("create gateway")
	}
	return gw
}

func newHistory(ctx context.Context, driver string) contractx.History {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "memory":
		return historyx.NewMemoryStore()
	case "postgres":
		cfg := configx.MustNew[historyx.PostgresConfig]("HISTORY")
		store, err := historyx.NewPostgresStore(ctx, *cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("create postgres history store")
		}
		return store
	default:
		log.Fatal().Str("driver", driver).Msg("unsupported history driver")
		return nil
	}
}
