package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, http.StatusNotFound, "session not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"session not found"}`, rec.Body.String())
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	var body struct {
		Scorer string `json:"scorer"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"scorer":"ollama","extra":1}`))
	assert.Error(t, DecodeJSON(req, &body))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"scorer":"ollama"}`))
	require.NoError(t, DecodeJSON(req, &body))
	assert.Equal(t, "ollama", body.Scorer)
}

func TestSendSSEEvent(t *testing.T) {
	rec := httptest.NewRecorder()
	SetupSSEHeaders(rec)
	require.NoError(t, SendSSEEvent(rec, rec, "step", map[string]int{"index": 2}))

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "event: step\ndata: {\"index\":2}\n\n", rec.Body.String())
	assert.True(t, rec.Flushed)
}
