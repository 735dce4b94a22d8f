// Package api is the HTTP presentation surface for the fetch service. It
// owns request decoding and error mapping only; all paging semantics live
// in the viewer and query packages.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/filescope/filescope/internal/config"
	"github.com/filescope/filescope/internal/observability"
	"github.com/filescope/filescope/internal/query"
	"github.com/filescope/filescope/internal/viewer"
)

// Fetcher is the slice of the viewer service the handler needs.
type Fetcher interface {
	Fetch(ctx context.Context, request query.Request) (*viewer.FetchResult, error)
}

type Dependencies struct {
	Logger  *slog.Logger
	Fetcher Fetcher

	// DefaultPageSize is used when a request omits page_size; zero means
	// no default is applied.
	DefaultPageSize int

	// MaxPageSize caps client-supplied page sizes; zero means no cap.
	MaxPageSize int
}

func NewHandler(cfg config.Config, deps Dependencies) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "service": cfg.Service.Name})
	})

	mux.Handle("GET /v1/metrics", promhttp.Handler())

	mux.HandleFunc("POST /v1/fetch", func(w http.ResponseWriter, r *http.Request) {
		handleFetch(deps, w, r)
	})

	middlewares := []func(http.Handler) http.Handler{
		observability.TraceMiddleware,
		observability.InstrumentMiddleware(deps.Logger),
	}
	return chain(mux, middlewares...)
}

func chain(base http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	wrapped := base
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}
	return wrapped
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, code, message, path string) {
	writeJSON(w, status, map[string]any{
		"error_code": code,
		"message":    message,
		"path":       path,
		"trace_id":   observability.TraceIDFromContext(ctx),
	})
}
