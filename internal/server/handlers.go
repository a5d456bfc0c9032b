// Package server exposes HTTP handlers, including the WebSocket upgrade that
// hands each connection to its echo loop.
package server

import (
	"net/http"

	"github.com/google/uuid"
)

// WebSocketHandler handles WebSocket upgrade requests. It validates that the
// request uses the GET method, upgrades the HTTP connection, registers the
// connection and runs its echo loop on the request goroutine until the
// connection closes.
func (s *Server) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. WebSocket endpoint only accepts GET requests.", http.StatusMethodNotAllowed)
		return
	}

	id := RequestIDFromContext(r.Context())
	if id == "" {
		id = uuid.NewString()
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already written an error response.
		s.logger.Warn("websocket upgrade failed", "request_id", id, "remote_addr", r.RemoteAddr, "error", err)
		return
	}

	client := NewConnection(conn, id, r.RemoteAddr, s.connOptions(), s.logger)

	if !s.registry.Add(client) {
		s.logger.Info("rejecting websocket connection during shutdown", "conn_id", id)
		client.closeGoingAway(closeWriteTimeout)
		return
	}
	defer s.registry.Remove(client)

	client.Serve()
}
