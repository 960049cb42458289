package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/avramelo/eventscout-go/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP chat server",
	Long: `Run the HTTP server exposing the chat engine.

Endpoints:
  POST /api/chat    answer a question with conversation history
  POST /api/search  keyword search, no LLM
  GET  /api/events  list stored events
  GET  /api/stats   event count and operation timings
  GET  /api/chat/ws websocket conversation
  GET  /healthz     liveness

Examples:
  eventscout serve
  EVENTSCOUT_SERVER_PORT=9000 eventscout serve`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	engine := getEngine(ctx)

	srv := server.New(engine, dbClient, collector, logger, cfg.ServerPort)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
