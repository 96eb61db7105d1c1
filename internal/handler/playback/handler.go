package playback

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	chatservice "github.com/zhouzirui/scorecard/backend/internal/service/chat"
	playbackservice "github.com/zhouzirui/scorecard/backend/internal/service/playback"
	"github.com/zhouzirui/scorecard/backend/pkg/utils"
)

// Handler 通过 Server-Sent Events 推送剧本回放
type Handler struct {
	player *playbackservice.Player
	chats  *chatservice.Service
	logger logrus.FieldLogger
}

// New 创建回放处理器
func New(player *playbackservice.Player, chats *chatservice.Service, logger logrus.FieldLogger) *Handler {
	return &Handler{
		player: player,
		chats:  chats,
		logger: logger.WithField("component", "playback_handler"),
	}
}

// RegisterRoutes 注册回放路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/sessions/{sessionID}/playback", h.handlePlayback)
	r.Get("/sessions/{sessionID}/playback/{scenarioID}", h.handlePlayback)
}

// handlePlayback 逐句回放剧本并推送每一步的评分。
// 路径未指定剧本时使用创建会话时绑定的剧本；?mode=replay 跳过等待，时间戳按回放间隔合成。
func (h *Handler) handlePlayback(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.chats.GetSession(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	scenarioID := chi.URLParam(r, "scenarioID")
	if scenarioID == "" {
		scenarioID = session.ScenarioID
	}
	if scenarioID == "" {
		utils.RespondError(w, http.StatusBadRequest, "session has no scenario; name one in the path")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	replay := r.URL.Query().Get("mode") == "replay"

	log := h.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"scenario":   scenarioID,
		"replay":     replay,
	})

	started := false
	onStep := func(step playbackservice.Step) {
		if !started {
			utils.SetupSSEHeaders(w)
			w.WriteHeader(http.StatusOK)
			started = true
		}
		if err := utils.SendSSEEvent(w, flusher, "step", step); err != nil {
			log.WithError(err).Debug("client went away")
		}
	}

	if replay {
		err = h.player.Replay(r.Context(), sessionID, scenarioID, time.Now().UTC(), onStep)
	} else {
		err = h.player.Run(r.Context(), sessionID, scenarioID, onStep)
	}

	switch {
	case errors.Is(err, playbackservice.ErrScenarioNotFound) && !started:
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	case err != nil && !started:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	case err != nil:
		if r.Context().Err() == nil {
			log.WithError(err).Warn("Playback aborted")
			_ = utils.SendSSEEvent(w, flusher, "error", map[string]string{"message": err.Error()})
		}
		return
	}

	_ = utils.SendSSEEvent(w, flusher, "end", map[string]any{"sessionId": sessionID, "finished": true})
}
