// Package server tracks live WebSocket connections through the Registry type
// so they can be closed together on shutdown.
package server

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// closeWriteTimeout bounds the close frame written to each peer on shutdown.
const closeWriteTimeout = time.Second

// Registry records every connection currently being served. It never reads
// from or writes data to a connection; it only closes them on Shutdown.
type Registry struct {
	conns    map[*Connection]struct{}
	mutex    sync.Mutex
	wg       sync.WaitGroup
	shutdown bool
	logger   *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		conns:  make(map[*Connection]struct{}),
		logger: logger,
	}
}

// Add registers a connection. It returns false once Shutdown has started, in
// which case the caller must close the connection itself.
func (r *Registry) Add(c *Connection) bool {
	if c == nil {
		return false
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.shutdown {
		return false
	}
	if _, exists := r.conns[c]; exists {
		return true
	}

	r.conns[c] = struct{}{}
	r.wg.Add(1)
	r.logger.Debug("connection registered", "conn_id", c.ID(), "active", len(r.conns))
	return true
}

// Remove unregisters a connection. Removing an unknown connection is a no-op.
func (r *Registry) Remove(c *Connection) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.conns[c]; !exists {
		return
	}
	delete(r.conns, c)
	r.wg.Done()
	r.logger.Debug("connection unregistered", "conn_id", c.ID(), "active", len(r.conns))
}

// Count returns the number of live connections.
func (r *Registry) Count() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.conns)
}

// snapshot returns a copy of the live connections.
func (r *Registry) snapshot() []*Connection {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	conns := make([]*Connection, 0, len(r.conns))
	for c := range r.conns {
		conns = append(conns, c)
	}
	return conns
}

// Shutdown stops accepting registrations, closes every live connection with a
// going-away close frame and waits for their handlers to return. It returns
// context.DeadlineExceeded if handlers are still running after timeout.
func (r *Registry) Shutdown(timeout time.Duration) error {
	r.logger.Info("closing websocket connections")

	r.mutex.Lock()
	r.shutdown = true
	r.mutex.Unlock()

	conns := r.snapshot()
	for _, c := range conns {
		c.closeGoingAway(closeWriteTimeout)
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("websocket connections closed", "count", len(conns))
		return nil
	case <-time.After(timeout):
		r.logger.Warn("registry shutdown timeout reached, some handlers may still be running")
		return context.DeadlineExceeded
	}
}
