package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raushankrgupta/storedeck/api"
	"github.com/raushankrgupta/storedeck/config"
	"github.com/raushankrgupta/storedeck/logging"
	"github.com/raushankrgupta/storedeck/pipeline"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := pipeline.NewFromConfig(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to wire pipeline", zap.Error(err))
	}
	defer deps.Close()

	// Metrics are scraped from /metrics in server mode.
	deps.Pipeline.PushgatewayURL = ""

	var runs api.RunLister
	if deps.Runs != nil {
		runs = deps.Runs
	}
	server := api.NewServer(deps.Pipeline, runs, deps.Metrics.Handler(), logger)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("server starting", zap.String("port", cfg.ServerPort))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
