// Package server manages individual WebSocket connections, running the
// receive-then-echo loop and lifecycle control for each one.
package server

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ConnOptions holds the transport-level settings applied to each connection.
// Zero values leave the corresponding limit disabled.
type ConnOptions struct {
	MaxMessageSize int64
	PingInterval   time.Duration
	WriteTimeout   time.Duration
}

// Connection represents one upgraded WebSocket channel. It is owned by the
// goroutine running Serve; only Close may be called from elsewhere.
type Connection struct {
	id     string
	conn   *websocket.Conn
	addr   string
	opts   ConnOptions
	logger *slog.Logger

	done      chan struct{}
	closeOnce sync.Once
}

// NewConnection wraps an upgraded WebSocket connection. The id and address
// are used for log correlation only.
func NewConnection(conn *websocket.Conn, id, addr string, opts ConnOptions, logger *slog.Logger) *Connection {
	if logger == nil {
		logger = slog.Default()
	}
	if conn != nil && opts.MaxMessageSize > 0 {
		conn.SetReadLimit(opts.MaxMessageSize)
	}

	return &Connection{
		id:     id,
		conn:   conn,
		addr:   addr,
		opts:   opts,
		logger: logger.With("conn_id", id, "remote_addr", addr),
		done:   make(chan struct{}),
	}
}

// ID returns the connection identifier.
func (c *Connection) ID() string {
	return c.id
}

// Done is closed once the connection has been closed.
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

// Serve runs the echo loop until the peer disconnects or the transport fails.
// Each data frame is written back with its payload and frame kind unchanged
// before the next one is read. Serve closes the connection before returning.
func (c *Connection) Serve() {
	defer c.Close()

	c.logger.Info("websocket connection opened")
	c.setupReadConnection()

	if c.opts.PingInterval > 0 {
		go c.pingLoop()
	}

	var echoed int
	for {
		msg, err := c.receive()
		if err != nil {
			c.handleReadError(err)
			break
		}

		c.logger.Debug("received message", "kind", frameKind(msg.Type), "bytes", len(msg.Payload))

		if err := c.send(msg); err != nil {
			c.handleWriteError(err)
			break
		}
		echoed++
	}

	c.logger.Info("websocket connection closed", "echoed", echoed)
}

func (c *Connection) receive() (Message, error) {
	messageType, payload, err := c.conn.ReadMessage()
	if err != nil {
		return Message{}, err
	}
	return Message{Type: messageType, Payload: payload}, nil
}

func (c *Connection) send(msg Message) error {
	if c.opts.WriteTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout)); err != nil {
			return err
		}
	}
	return c.conn.WriteMessage(msg.Type, msg.Payload)
}

// pongWait is how long the connection may stay silent while keepalive is on.
func (c *Connection) pongWait() time.Duration {
	return 2 * c.opts.PingInterval
}

// setupReadConnection configures read deadlines and pong handler when keepalive is enabled
func (c *Connection) setupReadConnection() {
	if c.opts.PingInterval <= 0 {
		return
	}

	if err := c.conn.SetReadDeadline(time.Now().Add(c.pongWait())); err != nil {
		c.logger.Warn("error setting initial read deadline", "error", err)
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.pongWait()))
	})
}

// pingLoop sends keepalive pings until the connection closes. WriteControl
// may run concurrently with the echo writes in Serve.
func (c *Connection) pingLoop() {
	ticker := time.NewTicker(c.opts.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(c.opts.PingInterval)
			if err := c.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				if !isExpectedCloseError(err) {
					c.logger.Warn("error writing ping", "error", err)
				}
				c.Close()
				return
			}
		}
	}
}

// handleReadError logs the reason a read ended the loop. Every read error is
// treated as a disconnect.
func (c *Connection) handleReadError(err error) {
	switch {
	case errors.Is(err, websocket.ErrReadLimit):
		c.logger.Warn("message exceeded maximum size", "max_bytes", c.opts.MaxMessageSize)
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived):
		c.logger.Info("client disconnected", "reason", err.Error())
	case isExpectedCloseError(err):
		c.logger.Info("connection closed", "reason", err.Error())
	case websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
		c.logger.Warn("unexpected websocket close", "error", err)
	default:
		c.logger.Warn("websocket read error", "error", err)
	}
}

func (c *Connection) handleWriteError(err error) {
	if isExpectedCloseError(err) {
		c.logger.Info("connection closed during echo", "reason", err.Error())
		return
	}
	c.logger.Warn("error echoing message", "error", err)
}

// Close releases the underlying transport. It is safe to call more than once
// and from any goroutine.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn == nil {
			return
		}
		if err := c.conn.Close(); err != nil && !isExpectedCloseError(err) {
			c.logger.Warn("error closing connection", "error", err)
		}
	})
}

// closeGoingAway tells the peer the server is shutting down, then closes.
func (c *Connection) closeGoingAway(timeout time.Duration) {
	if c.conn != nil {
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
		if err := c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(timeout)); err != nil && !isExpectedCloseError(err) {
			c.logger.Debug("error writing close message", "error", err)
		}
	}
	c.Close()
}
