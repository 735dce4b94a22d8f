package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/filescope/filescope/internal/config"
	"github.com/filescope/filescope/internal/query"
	"github.com/filescope/filescope/internal/viewer"
)

type stubFetcher struct {
	result  *viewer.FetchResult
	err     error
	request query.Request
}

func (s *stubFetcher) Fetch(_ context.Context, request query.Request) (*viewer.FetchResult, error) {
	s.request = request
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newTestHandler(t *testing.T, fetcher Fetcher) http.Handler {
	t.Helper()
	cfg, err := config.Load("filescope", func(string) (string, bool) { return "", false })
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	return NewHandler(cfg, Dependencies{
		Fetcher:         fetcher,
		DefaultPageSize: cfg.Viewer.DefaultPageSize,
		MaxPageSize:     cfg.Viewer.MaxPageSize,
	})
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestHandler(t, &stubFetcher{})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/v1/health", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d", recorder.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
	if recorder.Header().Get("X-Trace-ID") == "" {
		t.Fatal("missing trace header")
	}
}

func TestFetchEndpointSuccess(t *testing.T) {
	fetcher := &stubFetcher{result: &viewer.FetchResult{
		Columns:   []viewer.Column{{Name: "id", TypeName: "BIGINT"}},
		Rows:      [][]string{{"1"}, {"2"}},
		TotalRows: 5,
		Duration:  42 * time.Millisecond,
	}}
	handler := newTestHandler(t, fetcher)

	payload := `{"path":"/data/items.parquet","page":1,"page_size":2,"sort_column":1,"sort_order":"desc"}`
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/v1/fetch", strings.NewReader(payload)))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", recorder.Code, recorder.Body.String())
	}
	var body fetchResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if len(body.Columns) != 1 || body.Columns[0].Header != "id\n(BIGINT)" {
		t.Fatalf("columns = %+v", body.Columns)
	}
	if body.TotalRows != 5 || body.PageCount != 3 {
		t.Fatalf("totals = %d / %d", body.TotalRows, body.PageCount)
	}
	if body.DurationMs != 42 {
		t.Fatalf("duration_ms = %d", body.DurationMs)
	}
	if fetcher.request.SortOrder != query.SortDescending {
		t.Fatalf("sort order = %v", fetcher.request.SortOrder)
	}
}

func TestFetchEndpointClampsPageSize(t *testing.T) {
	fetcher := &stubFetcher{result: &viewer.FetchResult{TotalRows: 0}}
	handler := newTestHandler(t, fetcher)

	payload := `{"path":"a.csv","page":1,"page_size":100000}`
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/v1/fetch", strings.NewReader(payload)))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d", recorder.Code)
	}
	if fetcher.request.PageSize != 1000 {
		t.Fatalf("clamped page size = %d, want 1000", fetcher.request.PageSize)
	}
}

func TestFetchEndpointAppliesDefaultPageSize(t *testing.T) {
	fetcher := &stubFetcher{result: &viewer.FetchResult{TotalRows: 0}}
	handler := newTestHandler(t, fetcher)

	payload := `{"path":"a.csv","page":1}`
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/v1/fetch", strings.NewReader(payload)))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", recorder.Code, recorder.Body.String())
	}
	if fetcher.request.PageSize != 10 {
		t.Fatalf("defaulted page size = %d, want 10", fetcher.request.PageSize)
	}
}

func TestFetchEndpointValidation(t *testing.T) {
	cases := []struct {
		name     string
		payload  string
		err      error
		wantCode int
		wantBody string
	}{
		{"missing path", `{"page":1,"page_size":10}`, nil, http.StatusBadRequest, "PATH_REQUIRED"},
		{"unknown field", `{"path":"a.csv","limit":10}`, nil, http.StatusBadRequest, "INVALID_JSON"},
		{"bad sort order", `{"path":"a.csv","sort_order":"sideways"}`, nil, http.StatusBadRequest, "INVALID_SORT_ORDER"},
		{"invalid page", `{"path":"a.csv","page":0,"page_size":10}`, query.ErrInvalidPage, http.StatusBadRequest, "INVALID_PAGE"},
		{"unsupported type", `{"path":"a.json","page":1,"page_size":10}`, &query.UnsupportedFileTypeError{Path: "a.json", Extension: "json"}, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{"connection failure", `{"path":"a.csv","page":1,"page_size":10}`, &query.ConnectionError{Err: context.DeadlineExceeded}, http.StatusInternalServerError, "CONNECTION_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := newTestHandler(t, &stubFetcher{err: tc.err})
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/v1/fetch", strings.NewReader(tc.payload)))

			if recorder.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", recorder.Code, tc.wantCode)
			}
			if !strings.Contains(recorder.Body.String(), tc.wantBody) {
				t.Fatalf("body = %s, want code %s", recorder.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestFetchEndpointWithoutFetcher(t *testing.T) {
	handler := newTestHandler(t, nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/v1/fetch", strings.NewReader(`{"path":"a.csv"}`)))

	if recorder.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d", recorder.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	handler := newTestHandler(t, &stubFetcher{})
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/v1/metrics", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d", recorder.Code)
	}
}
