package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/scorecard/backend/internal/config"
	"github.com/zhouzirui/scorecard/backend/internal/logging"
	"github.com/zhouzirui/scorecard/backend/internal/service/scoring"
)

func testConfig() *config.Config {
	return &config.Config{
		Scoring:  config.ScoringConfig{Default: scoring.Heuristic},
		Ollama:   config.OllamaConfig{URL: "http://127.0.0.1:1/api/generate", Model: "llama3.2:latest", Timeout: time.Second},
		Playback: config.PlaybackConfig{Interval: time.Second},
	}
}

func TestNewScorersRegistersAlwaysOnBackends(t *testing.T) {
	reg := NewScorers(context.Background(), testConfig(), logging.Discard())
	assert.Equal(t, []string{scoring.Heuristic, scoring.Ollama}, reg.IDs())
	assert.Equal(t, scoring.Heuristic, reg.DefaultID())
}

func TestNewScorersAddsOpenAIWhenKeyed(t *testing.T) {
	cfg := testConfig()
	cfg.OpenAI = config.OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o-mini", Timeout: time.Second}

	reg := NewScorers(context.Background(), cfg, logging.Discard())
	assert.Contains(t, reg.IDs(), scoring.OpenAI)
	assert.NotContains(t, reg.IDs(), scoring.Ark)
}

func TestBuildWiresPlayback(t *testing.T) {
	svc := Build(context.Background(), testConfig(), logging.Discard())
	ctx := context.Background()

	session, err := svc.Chats.CreateSession(ctx, scoring.Heuristic, "technical")
	require.NoError(t, err)
	require.NoError(t, svc.Player.Replay(ctx, session.ID, "technical", time.Now(), nil))

	history, err := svc.Monitor.History(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, history, 25)
	assert.Equal(t, time.Second, svc.Player.Interval())
	assert.Len(t, svc.Scenarios.List(), 4)
}
