package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/scorecard/backend/internal/app"
	"github.com/zhouzirui/scorecard/backend/internal/config"
	"github.com/zhouzirui/scorecard/backend/internal/logging"
	"github.com/zhouzirui/scorecard/backend/internal/service/scoring"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		Scoring:  config.ScoringConfig{Default: scoring.Heuristic},
		Ollama:   config.OllamaConfig{URL: "http://127.0.0.1:1/api/generate", Timeout: time.Second},
		Playback: config.PlaybackConfig{Interval: time.Millisecond},
	}
	logger := logging.Discard()
	return NewRouter(app.Build(context.Background(), cfg, logger), logger)
}

func TestHealthz(t *testing.T) {
	resp := httptest.NewRecorder()
	newRouter(t).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"ok"}`, resp.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	r := newRouter(t)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/sessions", bytes.NewReader(nil)))
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, strings.Contains(resp.Body.String(), "scorecard_sessions_active"))
}

func TestAPIRoutesMounted(t *testing.T) {
	r := newRouter(t)
	for _, path := range []string{"/api/scenarios", "/api/scorers"} {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, resp.Code, path)
	}
}

func TestPreflight(t *testing.T) {
	resp := httptest.NewRecorder()
	newRouter(t).ServeHTTP(resp, httptest.NewRequest(http.MethodOptions, "/api/sessions", nil))
	assert.Equal(t, http.StatusNoContent, resp.Code)
}
