package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/scorecard/backend/internal/logging"
	"github.com/zhouzirui/scorecard/backend/internal/model/metrics"
)

func openAIServer(t *testing.T, content string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.ResponseFormat)
		assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, req.ResponseFormat.Type)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:     "cmpl-1",
			Object: "chat.completion",
			Model:  req.Model,
			Choices: []openai.ChatCompletionChoice{{
				Index:   0,
				Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
			}},
		})
	}))
}

func newOpenAI(url string) *OpenAIScorer {
	return NewOpenAIScorer(OpenAIConfig{APIKey: "test", BaseURL: url + "/v1", Model: "gpt-4o-mini", Timeout: time.Second}, logging.Discard())
}

func TestOpenAIScorerParsesReply(t *testing.T) {
	srv := openAIServer(t, validPayload, http.StatusOK)
	defer srv.Close()

	scores, err := newOpenAI(srv.URL).Score(context.Background(), sampleWindow())
	require.NoError(t, err)
	assert.Equal(t, 80.0, scores[metrics.Professionalism])
}

func TestOpenAIScorerMalformedReply(t *testing.T) {
	srv := openAIServer(t, `{"politeness": 10}`, http.StatusOK)
	defer srv.Close()

	_, err := newOpenAI(srv.URL).Score(context.Background(), sampleWindow())
	assert.True(t, errors.Is(err, ErrMalformedPayload))
}

func TestOpenAIScorerServerError(t *testing.T) {
	srv := openAIServer(t, "", http.StatusInternalServerError)
	defer srv.Close()

	_, err := newOpenAI(srv.URL).Score(context.Background(), sampleWindow())
	assert.True(t, errors.Is(err, ErrScorerUnavailable))
}
