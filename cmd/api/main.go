package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/zhouzirui/scorecard/backend/internal/app"
	"github.com/zhouzirui/scorecard/backend/internal/config"
	"github.com/zhouzirui/scorecard/backend/internal/handler"
	"github.com/zhouzirui/scorecard/backend/internal/logging"
	"github.com/zhouzirui/scorecard/backend/internal/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	logger := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if envErr != nil {
		logger.WithError(envErr).Warn("failed to load .env file, continuing with system environment variables only")
	}

	telemetry.Init()
	services := app.Build(ctx, cfg, logger)
	logger.WithFields(logrus.Fields{
		"scorers":        services.Scorers.IDs(),
		"default_scorer": services.Scorers.DefaultID(),
	}).Info("Scoring backends ready")

	router := handler.NewRouter(services, logger)

	startServer(ctx, cfg.Server, router, logger)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger logrus.FieldLogger) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.WithField("addr", addr).Info("Scorecard backend listening")
	if err := runServer(ctx, srv); err != nil {
		logger.WithError(err).Fatal("server error")
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
