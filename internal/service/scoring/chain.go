package scoring

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"

	"github.com/zhouzirui/scorecard/backend/internal/model/chat"
	"github.com/zhouzirui/scorecard/backend/internal/model/metrics"
)

// chainUserPrompt uses Go template syntax so the JSON braces in the
// instruction are left alone.
const chainUserPrompt = "Agent responses to analyze:\n{{.transcript}}"

// ChainScorer runs the scoring instruction through an eino
// prompt→chat-model chain, so any eino chat model (Ark by default) can act
// as a scorer.
type ChainScorer struct {
	runnable compose.Runnable[map[string]any, *schema.Message]
	logger   logrus.FieldLogger
}

// NewChainScorer compiles the scoring chain around chatModel.
func NewChainScorer(ctx context.Context, chatModel model.BaseChatModel, logger logrus.FieldLogger) (*ChainScorer, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: chat model is nil", ErrScorerUnavailable)
	}

	promptTemplate := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(instruction),
		schema.UserMessage(chainUserPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile scoring chain: %w", err)
	}

	return &ChainScorer{
		runnable: runnable,
		logger:   logger.WithField("component", "scoring.chain"),
	}, nil
}

// Score implements Scorer.
func (s *ChainScorer) Score(ctx context.Context, window []chat.Utterance) (metrics.Scores, error) {
	if len(window) == 0 {
		return nil, ErrEmptyWindow
	}

	msg, err := s.runnable.Invoke(ctx, map[string]any{
		"transcript": FormatTranscript(window),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScorerUnavailable, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return nil, fmt.Errorf("%w: empty model reply", ErrMalformedPayload)
	}

	scores, err := ParsePayload(msg.Content)
	if err != nil {
		s.logger.WithField("response", msg.Content).Debug("Unparsable scorer response")
		return nil, err
	}
	return scores, nil
}
