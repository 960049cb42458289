// Package server exposes the chat engine over HTTP and websockets.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/avramelo/eventscout-go/internal/chat"
	"github.com/avramelo/eventscout-go/internal/metrics"
	"github.com/avramelo/eventscout-go/internal/models"
)

// EventStore is the slice of the store the HTTP surface reads from.
// *db.Client satisfies it.
type EventStore interface {
	ListEvents(ctx context.Context, limit int, latest bool) ([]models.Event, error)
	QueryCountEvents(ctx context.Context) (int, error)
}

// Server wires the chat engine, store and metrics behind a chi router.
type Server struct {
	engine  *chat.Engine
	store   EventStore
	metrics *metrics.Collector
	logger  *slog.Logger
	http    *http.Server
}

// New creates a server listening on the given port.
func New(engine *chat.Engine, store EventStore, collector *metrics.Collector, logger *slog.Logger, port string) *Server {
	s := &Server{
		engine:  engine,
		store:   store,
		metrics: collector,
		logger:  logger,
	}
	s.http = &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      s.router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
	}
	return s
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(requestID)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Get("/chat/ws", s.handleChatSocket)
		r.Post("/search", s.handleSearch)
		r.Get("/events", s.handleListEvents)
		r.Get("/stats", s.handleStats)
	})

	return r
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", "addr", s.http.Addr)
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
