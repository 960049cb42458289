package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/avramelo/eventscout-go/internal/metrics"
	"github.com/avramelo/eventscout-go/internal/models"
)

// ChatRequest is the POST /api/chat payload. History carries the full
// conversation so far; the engine itself is stateless.
type ChatRequest struct {
	Question string            `json:"question"`
	History  []models.ChatTurn `json:"history,omitempty"`
	Identity string            `json:"identity,omitempty"`
}

// SearchRequest is the POST /api/search payload.
type SearchRequest struct {
	Query string `json:"query"`
}

// StatsResponse is the GET /api/stats payload.
type StatsResponse struct {
	EventCount int              `json:"eventCount"`
	Metrics    metrics.Snapshot `json:"metrics"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "eventscout"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question must not be empty")
		return
	}

	resp := s.engine.GetChatResponse(r.Context(), req.Question, req.History, req.Identity)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query must not be empty")
		return
	}

	resp, err := s.engine.PerformStandardSearch(r.Context(), req.Query)
	if err != nil {
		s.logger.Error("search failed", "error", err, "request_id", RequestIDFromContext(r.Context()))
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}
	latest := r.URL.Query().Get("latest") == "true"

	events, err := s.store.ListEvents(r.Context(), limit, latest)
	if err != nil {
		s.logger.Error("list events failed", "error", err, "request_id", RequestIDFromContext(r.Context()))
		writeError(w, http.StatusInternalServerError, "listing events failed")
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.QueryCountEvents(r.Context())
	if err != nil {
		s.logger.Error("event count failed", "error", err)
		writeError(w, http.StatusInternalServerError, "stats unavailable")
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{
		EventCount: count,
		Metrics:    s.metrics.Snapshot(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
