package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/filescope/filescope/internal/query"
	"github.com/filescope/filescope/internal/viewer"
)

type fetchRequest struct {
	Path       string `json:"path"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	SortColumn int    `json:"sort_column"`
	SortOrder  string `json:"sort_order"`
}

type fetchResponse struct {
	Columns    []columnPayload `json:"columns"`
	Rows       [][]string      `json:"rows"`
	TotalRows  int64           `json:"total_rows"`
	PageCount  int64           `json:"page_count"`
	DurationMs int64           `json:"duration_ms"`
}

type columnPayload struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Header string `json:"header"`
}

func handleFetch(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Fetcher == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "FETCH_NOT_CONFIGURED", "fetch dependency is not configured", "")
		return
	}

	var request fetchRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid fetch request body", "")
		return
	}
	if strings.TrimSpace(request.Path) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "PATH_REQUIRED", "path is required", "")
		return
	}
	order, err := parseSortOrder(request.SortOrder)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_SORT_ORDER", err.Error(), request.Path)
		return
	}
	if request.PageSize == 0 && deps.DefaultPageSize > 0 {
		request.PageSize = deps.DefaultPageSize
	}
	if deps.MaxPageSize > 0 && request.PageSize > deps.MaxPageSize {
		request.PageSize = deps.MaxPageSize
	}

	result, err := deps.Fetcher.Fetch(r.Context(), query.Request{
		FilePath:   request.Path,
		PageNumber: request.Page,
		PageSize:   request.PageSize,
		SortColumn: request.SortColumn,
		SortOrder:  order,
	})
	if err != nil {
		status, code := mapFetchError(err)
		writeError(r.Context(), w, status, code, err.Error(), request.Path)
		return
	}

	columns := make([]columnPayload, len(result.Columns))
	for i, column := range result.Columns {
		columns[i] = columnPayload{Name: column.Name, Type: column.TypeName, Header: column.Header()}
	}
	writeJSON(w, http.StatusOK, fetchResponse{
		Columns:    columns,
		Rows:       result.Rows,
		TotalRows:  result.TotalRows,
		PageCount:  result.PageCount(request.PageSize),
		DurationMs: result.Duration.Milliseconds(),
	})
}

func parseSortOrder(raw string) (query.SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "none":
		return query.SortUnsorted, nil
	case "asc", "ascending":
		return query.SortAscending, nil
	case "desc", "descending":
		return query.SortDescending, nil
	default:
		return query.SortUnsorted, errors.New("sort_order must be one of none, asc, desc")
	}
}

func mapFetchError(err error) (int, string) {
	var (
		unsupportedErr *query.UnsupportedFileTypeError
		connectionErr  *query.ConnectionError
		prepareErr     *query.PrepareError
		execErr        *query.ExecError
	)
	switch {
	case errors.Is(err, query.ErrInvalidPage):
		return http.StatusBadRequest, "INVALID_PAGE"
	case errors.Is(err, query.ErrInvalidPageSize):
		return http.StatusBadRequest, "INVALID_PAGE_SIZE"
	case errors.As(err, &unsupportedErr):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"
	case errors.As(err, &connectionErr):
		return http.StatusInternalServerError, "CONNECTION_ERROR"
	case errors.As(err, &prepareErr):
		return http.StatusBadRequest, "PREPARE_ERROR"
	case errors.As(err, &execErr):
		return http.StatusBadRequest, "EXECUTION_ERROR"
	default:
		return http.StatusInternalServerError, "FETCH_FAILED"
	}
}

var _ Fetcher = (*viewer.Service)(nil)
