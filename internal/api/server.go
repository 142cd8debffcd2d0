// Package api provides the HTTP batch gateway server. The server exposes
// one POST route per registered batch destination plus management endpoints
// for health, destination listing, and gateway statistics.
package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/concave-dev/batchq/internal/api/dispatch"
	"github.com/concave-dev/batchq/internal/logging"
	"github.com/gin-gonic/gin"
)

// Represents the batch gateway HTTP server
type Server struct {
	dispatcher    *dispatch.Dispatcher
	httpServer    *http.Server
	bindAddr      string
	bindPort      int
	maxBatchItems int
	instanceName  string
	version       string
	startTime     time.Time
}

// NewServer creates a new batch gateway server instance
func NewServer(config *Config) *Server {
	// Set Gin to release mode for production
	gin.SetMode(gin.ReleaseMode)

	return &Server{
		dispatcher:    config.Dispatcher,
		bindAddr:      config.BindAddr,
		bindPort:      config.BindPort,
		maxBatchItems: config.MaxBatchItems,
		instanceName:  config.InstanceName,
		version:       config.Version,
		startTime:     time.Now(),
	}
}

// buildHTTPServer assembles the router and http.Server. Destinations must
// already be registered on the dispatcher: routes are mounted here, once.
func (s *Server) buildHTTPServer(addr string) *http.Server {
	router := gin.New()

	// Configure Gin logging only if not already configured by CLI tools
	if !logging.IsConfiguredByCLI() {
		gin.DefaultWriter = logging.NewLevelWriter("INFO", "gin")
		gin.DefaultErrorWriter = logging.NewLevelWriter("ERROR", "gin")
	}

	router.Use(s.loggingMiddleware())
	router.Use(s.corsMiddleware())
	router.Use(gin.Recovery())

	s.setupRoutes(router)

	return &http.Server{
		Addr:    addr,
		Handler: router,
		// Timeouts for production
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Start binds the configured address and serves on a background goroutine.
// Binding is tested first so configuration errors surface immediately
// instead of inside the serving goroutine.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.bindAddr, s.bindPort)
	logging.Info("Starting batch gateway server on %s", addr)

	s.httpServer = s.buildHTTPServer(addr)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to %s: %w", addr, err)
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logging.Error("Batch gateway server failed: %v", err)
		}
	}()

	logging.Success("Batch gateway server started successfully")
	return nil
}

// Serve runs the server on a pre-bound listener, as produced by
// netutil.PortBinder. Used by the daemon so the port is atomically reserved
// before any other startup work happens.
func (s *Server) Serve(listener net.Listener) error {
	if listener == nil {
		return fmt.Errorf("listener cannot be nil")
	}

	logging.Info("Starting batch gateway server on %s", listener.Addr())
	s.httpServer = s.buildHTTPServer(listener.Addr().String())

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logging.Error("Batch gateway server failed: %v", err)
		}
	}()

	logging.Success("Batch gateway server started successfully")
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down batch gateway server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}
