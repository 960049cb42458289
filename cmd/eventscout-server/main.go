// Package main provides the standalone HTTP server for eventscout.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avramelo/eventscout-go/internal/chat"
	"github.com/avramelo/eventscout-go/internal/config"
	"github.com/avramelo/eventscout-go/internal/db"
	"github.com/avramelo/eventscout-go/internal/llm"
	"github.com/avramelo/eventscout-go/internal/metrics"
	"github.com/avramelo/eventscout-go/internal/server"
)

func main() {
	wipeDB := flag.Bool("wipe", false, "wipe all data from database on startup (testing only)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, closeLogs := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	slog.SetDefault(logger)
	defer func() { _ = closeLogs() }()

	slog.Info("starting eventscout-server", "port", cfg.ServerPort)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	dbClient, err := db.NewClient(ctx, db.Config{
		URL:       cfg.SurrealDBURL,
		Namespace: cfg.SurrealDBNamespace,
		Database:  cfg.SurrealDBDatabase,
		Username:  cfg.SurrealDBUser,
		Password:  cfg.SurrealDBPass,
		AuthLevel: cfg.SurrealDBAuthLevel,
	}, logger)
	if err != nil {
		cancel()
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := dbClient.InitSchema(ctx, cfg.EmbedDimension); err != nil {
		cancel()
		slog.Error("failed to initialize schema", "error", err)
		os.Exit(1)
	}
	if *wipeDB || os.Getenv("EVENTSCOUT_WIPE_DB") == "true" {
		if err := dbClient.WipeData(ctx); err != nil {
			cancel()
			slog.Error("failed to wipe database", "error", err)
			os.Exit(1)
		}
	}
	cancel()
	defer func() {
		if err := dbClient.Close(context.Background()); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	// LLM components are optional: without them the engine degrades to
	// keyword-only, non-generative answers.
	opts := chat.Options{
		Store:       dbClient,
		ResultLimit: cfg.ResultLimit,
		Logger:      logger,
		Metrics:     metrics.NewCollector(),
	}
	if embedder, err := llm.NewEmbedder(cfg); err != nil {
		slog.Warn("embedder unavailable, running keyword-only", "error", err)
	} else {
		opts.Embedder = embedder
	}
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if model, err := llm.NewModel(initCtx, cfg); err != nil {
		slog.Warn("generation model unavailable, running non-generative", "error", err)
	} else {
		opts.Model = model
	}
	initCancel()

	srv := server.New(chat.NewEngine(opts), dbClient, opts.Metrics, logger, cfg.ServerPort)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
