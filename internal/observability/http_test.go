package observability

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTraceMiddlewarePreservesIncomingID(t *testing.T) {
	var seen string
	handler := TraceMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = TraceIDFromContext(r.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	request.Header.Set("X-Trace-ID", "trace-123")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	if seen != "trace-123" {
		t.Fatalf("context trace id = %q", seen)
	}
	if got := recorder.Header().Get("X-Trace-ID"); got != "trace-123" {
		t.Fatalf("echoed trace id = %q", got)
	}
}

func TestTraceMiddlewareGeneratesID(t *testing.T) {
	handler := TraceMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	if recorder.Header().Get("X-Trace-ID") == "" {
		t.Fatal("expected a generated trace id")
	}
}

func TestInstrumentMiddlewareLogsRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	handler := InstrumentMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/fetch", nil))

	line := buf.String()
	if !strings.Contains(line, "http_request") {
		t.Fatalf("log line = %q", line)
	}
	if !strings.Contains(line, `"status":418`) {
		t.Fatalf("log line missing status: %q", line)
	}
	if !strings.Contains(line, `"bytes":5`) {
		t.Fatalf("log line missing bytes: %q", line)
	}
}

func TestInstrumentMiddlewareWithoutLogger(t *testing.T) {
	handler := InstrumentMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d", recorder.Code)
	}
}
