package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/scorecard/backend/internal/model/chat"
	"github.com/zhouzirui/scorecard/backend/internal/model/metrics"
	"github.com/zhouzirui/scorecard/backend/internal/model/scenario"
	chatservice "github.com/zhouzirui/scorecard/backend/internal/service/chat"
	"github.com/zhouzirui/scorecard/backend/internal/service/evaluation"
	"github.com/zhouzirui/scorecard/backend/internal/service/scoring"
	"github.com/zhouzirui/scorecard/backend/pkg/utils"
)

// Handler 会话与评分的HTTP处理器
type Handler struct {
	chats     *chatservice.Service
	monitor   *evaluation.Monitor
	scorers   *scoring.Registry
	scenarios scenario.Store
}

// New 创建会话处理器
func New(chats *chatservice.Service, monitor *evaluation.Monitor, scorers *scoring.Registry, scenarios scenario.Store) *Handler {
	return &Handler{
		chats:     chats,
		monitor:   monitor,
		scorers:   scorers,
		scenarios: scenarios,
	}
}

// RegisterRoutes 注册会话相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/scorers", h.handleListScorers)
	r.Post("/sessions", h.handleCreateSession)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.handleGetSession)
		r.Delete("/", h.handleDeleteSession)
		r.Post("/utterances", h.handleAppendUtterance)
		r.Get("/transcript", h.handleTranscript)
		r.Get("/checklist", h.handleChecklist)
		r.Get("/history", h.handleHistory)
	})
}

func (h *Handler) handleListScorers(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"default": h.scorers.DefaultID(),
		"scorers": h.scorers.IDs(),
	})
}

// handleCreateSession 创建会话，可选指定评分后端与剧本
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Scorer     string `json:"scorer"`
		ScenarioID string `json:"scenarioId"`
	}
	if r.ContentLength != 0 {
		if err := utils.DecodeJSON(r, &payload); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	if payload.ScenarioID != "" {
		if _, ok := h.scenarios.FindByID(payload.ScenarioID); !ok {
			utils.RespondError(w, http.StatusBadRequest, "scenario not found")
			return
		}
	}

	session, err := h.chats.CreateSession(r.Context(), payload.Scorer, payload.ScenarioID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.chats.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, session)
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.monitor.Forget(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type utteranceResponse struct {
	Utterance  chat.Utterance        `json:"utterance"`
	Evaluation evaluation.Evaluation `json:"evaluation"`
}

// handleAppendUtterance 追加一句话并返回最新评分
func (h *Handler) handleAppendUtterance(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Sender    string    `json:"sender"`
		Content   string    `json:"content"`
		Timestamp time.Time `json:"timestamp"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	saved, eval, err := h.monitor.Ingest(r.Context(), chat.Utterance{
		SessionID: chi.URLParam(r, "sessionID"),
		Sender:    chat.Sender(payload.Sender),
		Content:   payload.Content,
		Timestamp: payload.Timestamp,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, utteranceResponse{Utterance: saved, Evaluation: eval})
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	transcript, err := h.chats.LoadTranscript(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, transcript)
}

func (h *Handler) handleChecklist(w http.ResponseWriter, r *http.Request) {
	checks, err := h.monitor.Checklist(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, checks)
}

type historyResponse struct {
	Entries []metrics.Entry                `json:"entries"`
	Average *metrics.Record                `json:"average,omitempty"`
	Grades  map[metrics.Name]metrics.Grade `json:"grades,omitempty"`
}

// handleHistory 返回评分历史以及各项平均分与等级
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.monitor.History(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	resp := historyResponse{Entries: history}
	if resp.Entries == nil {
		resp.Entries = []metrics.Entry{}
	}
	if avg, ok := history.Average(); ok {
		resp.Average = &avg
		resp.Grades = metrics.Grades(avg)
	}
	utils.RespondJSON(w, http.StatusOK, resp)
}

func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chatservice.ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, chatservice.ErrInvalidSender), errors.Is(err, chatservice.ErrEmptyContent):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
	}
}
