// Package server constructs and starts the wsecho HTTP service with helpers
// that apply sensible production defaults.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Tyrowin/wsecho/internal/config"
	"github.com/gorilla/websocket"
)

// Server holds the pieces shared by the HTTP handlers: configuration, the
// upgrader, and the registry of live connections.
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	upgrader websocket.Upgrader
	registry *Registry
}

// New creates a Server from cfg. A nil cfg uses the defaults.
func New(cfg *config.Config, logger *slog.Logger) *Server {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	origins := newOriginPolicy(cfg.AllowedOrigins, logger)

	return &Server{
		cfg:    cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:    1024,
			WriteBufferSize:   1024,
			EnableCompression: cfg.EnableCompression,
			CheckOrigin:       origins.checkOrigin,
		},
		registry: NewRegistry(logger),
	}
}

// Registry returns the registry of live connections for shutdown coordination.
func (s *Server) Registry() *Registry {
	return s.registry
}

func (s *Server) connOptions() ConnOptions {
	return ConnOptions{
		MaxMessageSize: s.cfg.MaxMessageSize,
		PingInterval:   s.cfg.PingInterval,
		WriteTimeout:   s.cfg.WriteTimeout,
	}
}

// CreateServer creates and configures an HTTP server with the specified address and handler.
// It sets reasonable timeout values for production use. The upgrader clears
// these deadlines on hijacked WebSocket connections.
func CreateServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// StartServer starts the HTTP server and begins listening for connections.
// It returns http.ErrServerClosed after a graceful shutdown.
func StartServer(server *http.Server, logger *slog.Logger) error {
	logger.Info("listening", "addr", server.Addr)
	return server.ListenAndServe()
}

// ShutdownServer gracefully shuts down the HTTP server without interrupting active connections.
// It waits for in-flight requests to finish or until the timeout is reached.
// Upgraded WebSocket connections are not tracked by http.Server; close them
// through the Registry.
func ShutdownServer(server *http.Server, timeout time.Duration, logger *slog.Logger) error {
	logger.Info("shutting down HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	logger.Info("HTTP server shutdown completed")
	return nil
}
