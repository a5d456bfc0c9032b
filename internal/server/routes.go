// Package server wires HTTP handlers into a gorilla/mux router via routing
// helpers.
package server

import (
	"github.com/gorilla/mux"
)

// SetupRoutes configures and returns the application router. The WebSocket
// path is declared first so it takes precedence; every other path falls
// through to the static asset handler.
func (s *Server) SetupRoutes() *mux.Router {
	router := mux.NewRouter()
	router.Use(LoggingMiddleware(s.logger))

	router.HandleFunc(s.cfg.WSPath, s.WebSocketHandler)

	staticDir := resolveStaticDir(s.cfg.StaticDir)
	if staticDir == "" {
		s.logger.Info("serving embedded assets", "configured_dir", s.cfg.StaticDir)
	} else {
		s.logger.Info("serving static assets", "dir", staticDir)
	}
	router.PathPrefix("/").Handler(StaticHandler(staticDir))

	return router
}
