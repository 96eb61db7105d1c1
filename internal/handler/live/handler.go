package live

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/zhouzirui/scorecard/backend/internal/model/chat"
	chatservice "github.com/zhouzirui/scorecard/backend/internal/service/chat"
	"github.com/zhouzirui/scorecard/backend/internal/service/evaluation"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
)

// Handler 实时对话评分的 WebSocket 处理器
type Handler struct {
	chats    *chatservice.Service
	monitor  *evaluation.Monitor
	logger   logrus.FieldLogger
	upgrader websocket.Upgrader
}

// New 创建 WebSocket 处理器
func New(chats *chatservice.Service, monitor *evaluation.Monitor, logger logrus.FieldLogger) *Handler {
	return &Handler{
		chats:   chats,
		monitor: monitor,
		logger:  logger.WithField("component", "live"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/live/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// UtteranceMessage 客户端推送的一句话
type UtteranceMessage struct {
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// conn serializes writes; gorilla allows one concurrent writer.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(v)
}

func (c *conn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteMessage(websocket.PingMessage, nil)
}

// handleWebSocket 处理WebSocket连接
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := h.chats.GetSession(r.Context(), sessionID); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer ws.Close()
	c := &conn{ws: ws}

	log := h.logger.WithField("session_id", sessionID)
	log.Info("Live connection opened")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = ws.SetReadDeadline(time.Now().Add(readTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(readTimeout))
	})
	go h.pingLoop(ctx, c)

	h.send(c, sessionID, "connected", map[string]string{"sessionId": sessionID})

	for {
		var msg inboundMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).Warn("websocket read failed")
			}
			return
		}
		_ = ws.SetReadDeadline(time.Now().Add(readTimeout))

		switch msg.Type {
		case "utterance":
			h.handleUtterance(ctx, c, sessionID, msg.Data)
		case "checklist":
			checks, err := h.monitor.Checklist(ctx, sessionID)
			if err != nil {
				h.sendError(c, err.Error())
				continue
			}
			h.send(c, sessionID, "checklist", checks)
		default:
			h.sendError(c, "unsupported message type: "+msg.Type)
		}
	}
}

func (h *Handler) handleUtterance(ctx context.Context, c *conn, sessionID string, raw json.RawMessage) {
	var payload UtteranceMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.sendError(c, "invalid utterance payload")
		return
	}

	saved, eval, err := h.monitor.Ingest(ctx, chat.Utterance{
		SessionID: sessionID,
		Sender:    chat.Sender(payload.Sender),
		Content:   payload.Content,
		Timestamp: payload.Timestamp,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		h.sendError(c, err.Error())
		return
	}

	h.send(c, sessionID, "evaluation", map[string]interface{}{
		"utterance":  saved,
		"evaluation": eval,
	})
}

func (h *Handler) send(c *conn, sessionID, kind string, data interface{}) {
	msg := outgoingMessage{
		Type:      kind,
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
	if err := c.writeJSON(msg); err != nil {
		h.logger.WithError(err).Debug("websocket write failed")
	}
}

func (h *Handler) sendError(c *conn, message string) {
	h.send(c, "", "error", map[string]string{"message": message})
}

// pingLoop 定期发送ping消息
func (h *Handler) pingLoop(ctx context.Context, c *conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}
