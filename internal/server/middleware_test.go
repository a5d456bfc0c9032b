package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	var seenID string
	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = RequestIDFromContext(r.Context())
		http.NotFound(w, r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/missing.txt", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if seenID == "" {
		t.Fatal("Expected request id in handler context")
	}
	if got := w.Header().Get(RequestIDHeader); got != seenID {
		t.Errorf("Expected %s header %q, got %q", RequestIDHeader, seenID, got)
	}

	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record); err != nil {
		t.Fatalf("Expected one JSON log record, got %q: %v", buf.String(), err)
	}
	if record["msg"] != "http request" {
		t.Errorf("msg = %v, want http request", record["msg"])
	}
	if record["status"] != float64(http.StatusNotFound) {
		t.Errorf("status = %v, want %d", record["status"], http.StatusNotFound)
	}
	if record["path"] != "/missing.txt" {
		t.Errorf("path = %v, want /missing.txt", record["path"])
	}
	if record["request_id"] != seenID {
		t.Errorf("request_id = %v, want %s", record["request_id"], seenID)
	}
	if _, ok := record["headers"]; ok {
		t.Error("Expected headers to be omitted at info level")
	}
}

func TestLoggingMiddlewareDebugHeaders(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", "wsecho-test")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	if !strings.Contains(out, "wsecho-test") {
		t.Errorf("Expected request headers in debug log, got %q", out)
	}
	if !strings.Contains(out, `"status":200`) || !strings.Contains(out, `"bytes":2`) {
		t.Errorf("Expected status and byte count in log, got %q", out)
	}
}

func TestStatusRecorderHijackUnsupported(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
	if _, _, err := rec.Hijack(); err == nil {
		t.Error("Expected hijack error for recorder without Hijacker")
	}
}
