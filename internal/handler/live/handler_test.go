package live

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/scorecard/backend/internal/logging"
	chatservice "github.com/zhouzirui/scorecard/backend/internal/service/chat"
	"github.com/zhouzirui/scorecard/backend/internal/service/evaluation"
	"github.com/zhouzirui/scorecard/backend/internal/service/scoring"
)

type received struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}

func setup(t *testing.T) (*httptest.Server, *chatservice.Service) {
	t.Helper()
	logger := logging.Discard()
	reg := scoring.NewRegistry(logger, scoring.Heuristic)
	reg.Register(scoring.Heuristic, scoring.NewHeuristicScorer())

	chats := chatservice.NewService()
	monitor := evaluation.NewMonitor(chats, evaluation.NewAggregator(reg, logger), logger)

	r := chi.NewRouter()
	New(chats, monitor, logger).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, chats
}

func dial(t *testing.T, srv *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/live/" + sessionID
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	_ = ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	return ws
}

func read(t *testing.T, ws *websocket.Conn) received {
	t.Helper()
	var msg received
	require.NoError(t, ws.ReadJSON(&msg))
	return msg
}

func TestLiveUtteranceIsEvaluated(t *testing.T) {
	srv, chats := setup(t)
	session, err := chats.CreateSession(context.Background(), "", "")
	require.NoError(t, err)

	ws := dial(t, srv, session.ID)
	assert.Equal(t, "connected", read(t, ws).Type)

	require.NoError(t, ws.WriteJSON(map[string]interface{}{
		"type": "utterance",
		"data": map[string]string{"sender": "agent", "content": "Hello, welcome! Please tell me your account number."},
	}))

	msg := read(t, ws)
	require.Equal(t, "evaluation", msg.Type)
	eval, ok := msg.Data["evaluation"].(map[string]interface{})
	require.True(t, ok)
	metrics, ok := eval["metrics"].(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, metrics, 9)
	assert.Equal(t, 50.0, metrics["politenessScore"])

	require.NoError(t, ws.WriteJSON(map[string]string{"type": "checklist"}))
	msg = read(t, ws)
	assert.Equal(t, "checklist", msg.Type)
}

func TestLiveRejectsBadInput(t *testing.T) {
	srv, chats := setup(t)
	session, err := chats.CreateSession(context.Background(), "", "")
	require.NoError(t, err)

	ws := dial(t, srv, session.ID)
	read(t, ws)

	require.NoError(t, ws.WriteJSON(map[string]interface{}{
		"type": "utterance",
		"data": map[string]string{"sender": "robot", "content": "beep"},
	}))
	msg := read(t, ws)
	assert.Equal(t, "error", msg.Type)
	assert.Equal(t, chatservice.ErrInvalidSender.Error(), msg.Data["message"])

	require.NoError(t, ws.WriteJSON(map[string]string{"type": "audio"}))
	msg = read(t, ws)
	assert.Equal(t, "error", msg.Type)
}

func TestLiveUnknownSession(t *testing.T) {
	srv, _ := setup(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/live/missing"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
