package app

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/zhouzirui/scorecard/backend/internal/config"
	"github.com/zhouzirui/scorecard/backend/internal/model/scenario"
	chatservice "github.com/zhouzirui/scorecard/backend/internal/service/chat"
	"github.com/zhouzirui/scorecard/backend/internal/service/evaluation"
	"github.com/zhouzirui/scorecard/backend/internal/service/playback"
	"github.com/zhouzirui/scorecard/backend/internal/service/scoring"
)

// Services holds the wired service graph shared by the API server and the
// CLI.
type Services struct {
	Scenarios scenario.Store
	Scorers   *scoring.Registry
	Chats     *chatservice.Service
	Monitor   *evaluation.Monitor
	Player    *playback.Player
}

// Build wires every service from configuration. Optional backends whose
// credentials are missing are skipped with a log line.
func Build(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) *Services {
	scorers := NewScorers(ctx, cfg, logger)
	chats := chatservice.NewService()
	monitor := evaluation.NewMonitor(chats, evaluation.NewAggregator(scorers, logger), logger)
	scenarios := scenario.NewMemoryStore(scenario.Seed())

	return &Services{
		Scenarios: scenarios,
		Scorers:   scorers,
		Chats:     chats,
		Monitor:   monitor,
		Player:    playback.New(scenarios, monitor, cfg.Playback.Interval, logger),
	}
}

// NewScorers registers the configured scoring backends.
func NewScorers(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) *scoring.Registry {
	reg := scoring.NewRegistry(logger, cfg.Scoring.Default)

	reg.Register(scoring.Ollama, scoring.NewOllamaScorer(scoring.OllamaConfig{
		URL:         cfg.Ollama.URL,
		Model:       cfg.Ollama.Model,
		Temperature: cfg.Ollama.Temperature,
		TopP:        cfg.Ollama.TopP,
		Timeout:     cfg.Ollama.Timeout,
	}, logger))
	reg.Register(scoring.Heuristic, scoring.NewHeuristicScorer())

	if cfg.AI.Enabled() {
		chatModel, err := cfg.AI.NewChatModel(ctx)
		if err == nil {
			var chain *scoring.ChainScorer
			chain, err = scoring.NewChainScorer(ctx, chatModel, logger)
			if err == nil {
				reg.Register(scoring.Ark, chain)
			}
		}
		if err != nil {
			logger.WithError(err).Warn("Ark scorer unavailable, 请检查 Ark 模型相关环境变量")
		}
	} else {
		logger.Info("Ark 凭证未配置，跳过 ark 评分后端")
	}

	if cfg.OpenAI.Enabled() {
		reg.Register(scoring.OpenAI, scoring.NewOpenAIScorer(scoring.OpenAIConfig{
			APIKey:  cfg.OpenAI.APIKey,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.OpenAI.Model,
			Timeout: cfg.OpenAI.Timeout,
		}, logger))
	}
	return reg
}
