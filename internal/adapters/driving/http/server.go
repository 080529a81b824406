package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RyanKhPark/sf-asgmt/internal/core/ports/driven"
	"github.com/RyanKhPark/sf-asgmt/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string

	// Services
	authService       driving.AuthService
	annotationService driving.AnnotationService
	groundingService  driving.GroundingService

	// Infrastructure
	taskQueue   driven.TaskQueue
	db          Pinger // PostgreSQL health check
	redisClient Pinger // Redis health check (optional)
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Version string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    8080,
		Version: "dev",
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	authService driving.AuthService,
	annotationService driving.AnnotationService,
	groundingService driving.GroundingService,
	taskQueue driven.TaskQueue,
	db Pinger,
	redisClient Pinger, // can be nil
) *Server {
	s := &Server{
		router:            http.NewServeMux(),
		version:           cfg.Version,
		authService:       authService,
		annotationService: annotationService,
		groundingService:  groundingService,
		taskQueue:         taskQueue,
		db:                db,
		redisClient:       redisClient,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Create middleware
	authMiddleware := NewAuthMiddleware(s.authService)

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Auth endpoints (public)
	s.router.HandleFunc("POST /api/v1/auth/register", s.handleRegister)
	s.router.HandleFunc("POST /api/v1/auth/login", s.handleLogin)

	// User endpoints
	s.router.Handle("GET /api/v1/me",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetMe)))

	// Annotation endpoints (authenticated)
	s.router.Handle("POST /api/v1/annotations",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleSaveAnnotation)))
	s.router.Handle("GET /api/v1/annotations",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleListAnnotations)))
	s.router.Handle("DELETE /api/v1/annotations/{id}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleDeleteAnnotation)))
	s.router.Handle("POST /api/v1/annotations/{id}/link",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleLinkMessage)))

	// Grounding endpoints (authenticated)
	s.router.Handle("POST /api/v1/documents/{id}/ground",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGroundBatch)))
	s.router.Handle("GET /api/v1/documents/{id}/highlights",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetHighlights)))
	s.router.Handle("POST /api/v1/documents/{id}/highlights/restore",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleRestoreHighlights)))
	s.router.Handle("DELETE /api/v1/documents/{id}/messages/{messageID}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleUnlinkMessage)))
	s.router.Handle("DELETE /api/v1/documents/{id}/session",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleCloseSession)))

	// Task status endpoint (authenticated)
	s.router.Handle("GET /api/v1/tasks/{id}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetTask)))
}

// Start serves until an interrupt or SIGTERM arrives, then shuts down
// gracefully with a 30 second drain window.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Stop shuts the server down immediately with the caller's context.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
