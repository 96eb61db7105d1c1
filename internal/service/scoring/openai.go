package scoring

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/zhouzirui/scorecard/backend/internal/model/chat"
	"github.com/zhouzirui/scorecard/backend/internal/model/metrics"
)

// OpenAIConfig configures the OpenAI-compatible chat completion backend.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// OpenAIScorer asks an OpenAI-compatible endpoint for a JSON-object reply.
type OpenAIScorer struct {
	client *openai.Client
	model  string
	logger logrus.FieldLogger
}

// NewOpenAIScorer creates the OpenAI-compatible backend.
func NewOpenAIScorer(cfg OpenAIConfig, logger logrus.FieldLogger) *OpenAIScorer {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		config.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &OpenAIScorer{
		client: openai.NewClientWithConfig(config),
		model:  cfg.Model,
		logger: logger.WithField("component", "scoring.openai"),
	}
}

// Score implements Scorer.
func (s *OpenAIScorer) Score(ctx context.Context, window []chat.Utterance) (metrics.Scores, error) {
	if len(window) == 0 {
		return nil, ErrEmptyWindow
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are a JSON generator. Output ONLY valid JSON."},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(window)},
		},
		Temperature:    0.1,
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScorerUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices returned", ErrMalformedPayload)
	}

	content := resp.Choices[0].Message.Content
	scores, err := ParsePayload(content)
	if err != nil {
		s.logger.WithField("response", content).Debug("Unparsable scorer response")
		return nil, err
	}
	return scores, nil
}
