package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zhouzirui/scorecard/backend/internal/model/chat"
	"github.com/zhouzirui/scorecard/backend/internal/model/metrics"
)

// OllamaConfig configures the Ollama generate-endpoint backend.
type OllamaConfig struct {
	URL         string
	Model       string
	Temperature float64
	TopP        float64
	Timeout     time.Duration
}

// OllamaScorer posts the scoring prompt to an Ollama /api/generate endpoint
// and asks for a strict JSON object back.
type OllamaScorer struct {
	cfg    OllamaConfig
	client *http.Client
	logger logrus.FieldLogger
}

// NewOllamaScorer creates the default remote backend.
func NewOllamaScorer(cfg OllamaConfig, logger logrus.FieldLogger) *OllamaScorer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OllamaScorer{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: logger.WithField("component", "scoring.ollama"),
	}
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Format  string        `json:"format"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

// Score implements Scorer.
func (s *OllamaScorer) Score(ctx context.Context, window []chat.Utterance) (metrics.Scores, error) {
	if len(window) == 0 {
		return nil, ErrEmptyWindow
	}

	body, err := json.Marshal(ollamaRequest{
		Model:  s.cfg.Model,
		Prompt: BuildPrompt(window),
		Stream: false,
		Format: "json",
		Options: ollamaOptions{
			Temperature: s.cfg.Temperature,
			TopP:        s.cfg.TopP,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode ollama request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScorerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: ollama status %d: %s", ErrScorerUnavailable, resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var decoded ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decode ollama envelope: %v", ErrMalformedPayload, err)
	}

	scores, err := ParsePayload(decoded.Response)
	if err != nil {
		s.logger.WithField("response", decoded.Response).Debug("Unparsable scorer response")
		return nil, err
	}
	return scores, nil
}
