package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/avramelo/eventscout-go/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Browser clients connect from arbitrary origins during development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// socketMessage is one inbound turn on the websocket. Like the POST
// endpoint, the caller supplies the conversation history with every
// message; the server keeps no session state.
type socketMessage struct {
	Question string            `json:"question"`
	History  []models.ChatTurn `json:"history,omitempty"`
	Identity string            `json:"identity,omitempty"`
}

// handleChatSocket answers chat turns over a single websocket connection.
func (s *Server) handleChatSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	requestID := RequestIDFromContext(r.Context())
	s.logger.Info("websocket chat opened", "request_id", requestID)

	for {
		var msg socketMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("websocket read failed", "error", err, "request_id", requestID)
			}
			return
		}
		if msg.Question == "" {
			_ = conn.WriteJSON(errorResponse{Error: "question must not be empty"})
			continue
		}

		resp := s.engine.GetChatResponse(r.Context(), msg.Question, msg.History, msg.Identity)

		_ = conn.SetWriteDeadline(time.Now().Add(30 * time.Second))
		if err := conn.WriteJSON(resp); err != nil {
			s.logger.Warn("websocket write failed", "error", err, "request_id", requestID)
			return
		}
	}
}
