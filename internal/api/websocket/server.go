package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Server represents the WebSocket server
type Server struct {
	port     string
	server   *http.Server
	hub      *Hub
	ctx      context.Context
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewServer creates a new WebSocket server. Client pumps stop when ctx is
// cancelled. An empty origins list (or "*") accepts any origin.
func NewServer(ctx context.Context, hub *Hub, origins []string) *Server {
	s := &Server{
		hub:    hub,
		ctx:    ctx,
		logger: hub.logger.With("component", "ws-server"),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || len(origins) == 0 || slices.Contains(origins, "*") || slices.Contains(origins, origin)
		},
	}
	return s
}

// Hub returns the hub replies are broadcast through.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler returns the websocket routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/replies", s.handleReplies)
	mux.HandleFunc("/ws/health", s.handleHealth)
	return mux
}

// Start runs the hub and serves until Shutdown.
func (s *Server) Start(port string) error {
	s.port = port

	go s.hub.Run(s.ctx)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("websocket server listening", "port", port)
	return s.server.ListenAndServe()
}

// handleReplies streams command replies to the connection.
func (s *Server) handleReplies(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "error", err)
		return
	}

	client := newClient(uuid.New().String(), conn, s.hub)
	s.hub.Register(client)

	// server context, not the request's
	go client.writePump(s.ctx)
	go client.readPump(s.ctx)
}

// handleHealth returns WebSocket server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "healthy",
		"service": "dugout-ws",
		"metrics": s.hub.Metrics(),
	})
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
