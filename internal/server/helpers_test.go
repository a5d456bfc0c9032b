package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Tyrowin/wsecho/internal/config"
	"github.com/gorilla/websocket"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer starts an httptest server running the full router. The
// static directory defaults to the embedded assets.
func newTestServer(t *testing.T, customize func(cfg *config.Config)) (*Server, *httptest.Server) {
	t.Helper()

	cfg := config.NewConfig()
	cfg.StaticDir = ""
	if customize != nil {
		customize(cfg)
	}

	srv := New(cfg, discardLogger())
	testServer := httptest.NewServer(srv.SetupRoutes())
	t.Cleanup(testServer.Close)

	return srv, testServer
}

func wsURL(testServer *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(testServer.URL, "http") + path
}

func dialWebSocket(t *testing.T, url string, header http.Header) *websocket.Conn {
	t.Helper()

	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, resp, err := dialer.Dial(url, header)
	if resp != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func expectEcho(t *testing.T, conn *websocket.Conn, messageType int, payload []byte) {
	t.Helper()

	if err := conn.WriteMessage(messageType, payload); err != nil {
		t.Fatalf("Failed to send message: %v", err)
	}
	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("Failed to set read deadline: %v", err)
	}
	gotType, got, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read echo: %v", err)
	}
	if gotType != messageType {
		t.Errorf("Expected frame kind %s, got %s", frameKind(messageType), frameKind(gotType))
	}
	if string(got) != string(payload) {
		t.Errorf("Expected payload %q, got %q", payload, got)
	}
}

func closeWebSocket(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	err := conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if err != nil {
		t.Fatalf("Failed to send close message: %v", err)
	}
}

// waitFor polls cond until it holds or the timeout elapses.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}
