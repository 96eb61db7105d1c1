package scoring

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/scorecard/backend/internal/model/chat"
	"github.com/zhouzirui/scorecard/backend/internal/model/metrics"
)

func lines(contents ...string) []chat.Utterance {
	out := make([]chat.Utterance, 0, len(contents))
	for i, c := range contents {
		sender := chat.SenderAgent
		if i%2 == 1 {
			sender = chat.SenderUser
		}
		out = append(out, chat.Utterance{Sender: sender, Content: c})
	}
	return out
}

func TestHeuristicScorerReturnsCompleteBoundedSet(t *testing.T) {
	scores, err := NewHeuristicScorer().Score(context.Background(), sampleWindow())
	require.NoError(t, err)
	require.True(t, scores.Complete())
	for name, v := range scores {
		assert.GreaterOrEqual(t, v, 0.0, string(name))
		assert.LessOrEqual(t, v, 100.0, string(name))
	}
}

func TestHeuristicScorerPrefersCourteousAgent(t *testing.T) {
	polite, err := NewHeuristicScorer().Score(context.Background(), lines(
		"I understand your concern. Could you please provide your account number so I can help?",
		"Sure.",
		"Thank you! I've sent a reset link. Is there anything else I can assist you with?",
	))
	require.NoError(t, err)

	rude, err := NewHeuristicScorer().Score(context.Background(), lines(
		"What?",
		"Sure.",
		"Whatever.",
	))
	require.NoError(t, err)

	for _, name := range []metrics.Name{metrics.Politeness, metrics.Professionalism, metrics.EmotionalIntelligence, metrics.Completion, metrics.Clarity} {
		assert.Greater(t, polite[name], rude[name], string(name))
	}
}

func TestHeuristicScorerEmptyWindow(t *testing.T) {
	_, err := NewHeuristicScorer().Score(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrEmptyWindow))
}
