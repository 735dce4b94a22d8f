package observability

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/filescope/filescope/internal/config"
)

func TestNewLoggerJSONIncludesServiceAttributes(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Config{
		Profile:       config.ProfileProd,
		Service:       config.ServiceConfig{Name: "filescope"},
		Observability: config.ObservabilityConfig{LogLevel: slog.LevelInfo, LogJSON: true},
	}

	logger := NewLogger(cfg, &buf)
	logger.Info("hello")

	line := buf.String()
	if !strings.Contains(line, `"service":"filescope"`) {
		t.Fatalf("log line = %q", line)
	}
	if !strings.Contains(line, `"profile":"prod"`) {
		t.Fatalf("log line = %q", line)
	}
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Config{
		Service:       config.ServiceConfig{Name: "filescope"},
		Observability: config.ObservabilityConfig{LogLevel: slog.LevelWarn},
	}

	logger := NewLogger(cfg, &buf)
	logger.Debug("suppressed")
	if buf.Len() != 0 {
		t.Fatalf("debug line was emitted: %q", buf.String())
	}
	logger.Warn("kept")
	if buf.Len() == 0 {
		t.Fatal("warn line was suppressed")
	}
}

func TestTraceIDRoundTrip(t *testing.T) {
	ctx := ContextWithTraceID(context.Background(), "abc")
	if got := TraceIDFromContext(ctx); got != "abc" {
		t.Fatalf("TraceIDFromContext() = %q", got)
	}
	if got := TraceIDFromContext(context.Background()); got != "" {
		t.Fatalf("empty context trace id = %q", got)
	}
}
