package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/zhouzirui/scorecard/backend/internal/app"
	"github.com/zhouzirui/scorecard/backend/internal/handler/live"
	"github.com/zhouzirui/scorecard/backend/internal/handler/playback"
	"github.com/zhouzirui/scorecard/backend/internal/handler/scenario"
	"github.com/zhouzirui/scorecard/backend/internal/handler/session"
	middlewarePkg "github.com/zhouzirui/scorecard/backend/internal/middleware"
	"github.com/zhouzirui/scorecard/backend/internal/telemetry"
	"github.com/zhouzirui/scorecard/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(svc *app.Services, logger logrus.FieldLogger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", telemetry.Handler())

	r.Route("/api", func(api chi.Router) {
		scenario.New(svc.Scenarios).RegisterRoutes(api)
		session.New(svc.Chats, svc.Monitor, svc.Scorers, svc.Scenarios).RegisterRoutes(api)
		playback.New(svc.Player, svc.Chats, logger).RegisterRoutes(api)
		live.New(svc.Chats, svc.Monitor, logger).RegisterRoutes(api)
	})

	return r
}
