package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/fortuna/dugout/internal/commands"
	"github.com/fortuna/dugout/internal/registry"
)

// HealthCheck reports whether one backing dependency is usable.
type HealthCheck func(ctx context.Context) error

// Options configures the REST server.
type Options struct {
	AllowedOrigins   []string
	CommandRateLimit int // requests per client per minute, 0 disables
	HealthChecks     map[string]HealthCheck
	Logger           *slog.Logger
}

// Server represents the REST API server
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
	router  http.Handler
}

// NewServer creates a new REST API server
func NewServer(port string, reg *registry.Registry, dispatcher *commands.Dispatcher, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "rest")

	handler := NewHandler(reg, dispatcher, opts.HealthChecks)

	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggingMiddleware(logger))

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Teams
	api.HandleFunc("/teams", handler.GetTeams).Methods("GET")
	api.HandleFunc("/teams/{team}", handler.GetTeam).Methods("GET")
	api.HandleFunc("/teams/{team}/providers/{provider}", handler.GetProviderID).Methods("GET")

	// Commands
	api.HandleFunc("/commands", handler.ListCommands).Methods("GET")
	run := api.PathPrefix("/commands").Subrouter()
	if opts.CommandRateLimit > 0 {
		run.Use(RateLimitMiddleware(opts.CommandRateLimit, time.Minute))
	}
	run.HandleFunc("/{name}", handler.RunCommand).Methods("GET", "POST")

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Retry-After"},
	})
	root := c.Handler(router)

	return &Server{
		port:    port,
		handler: handler,
		router:  root,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%s", port),
			Handler:           root,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
