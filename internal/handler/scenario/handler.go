package scenario

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/scorecard/backend/internal/model/scenario"
	"github.com/zhouzirui/scorecard/backend/pkg/utils"
)

// Handler 剧本目录的HTTP处理器
type Handler struct {
	scenarios scenario.Store
}

// New 创建剧本处理器
func New(scenarios scenario.Store) *Handler {
	return &Handler{scenarios: scenarios}
}

// RegisterRoutes 注册剧本相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/scenarios", h.handleList)
	r.Get("/scenarios/{scenarioID}", h.handleGet)
}

type summary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Lines int    `json:"lines"`
}

// handleList 列出所有剧本
func (h *Handler) handleList(w http.ResponseWriter, _ *http.Request) {
	items := h.scenarios.List()
	out := make([]summary, 0, len(items))
	for _, item := range items {
		out = append(out, summary{ID: item.ID, Name: item.Name, Lines: len(item.Lines)})
	}
	utils.RespondJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	item, ok := h.scenarios.FindByID(chi.URLParam(r, "scenarioID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "scenario not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, item)
}
