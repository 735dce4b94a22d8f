// Package viewer is the fetch entry point: it runs the query engine,
// formats every cell into a display string, and assembles the page into a
// single immutable result. One call produces one result; nothing is cached
// or shared between calls.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/filescope/filescope/internal/format"
	"github.com/filescope/filescope/internal/observability"
	"github.com/filescope/filescope/internal/query"
)

// Column describes one projected column of the scanned file.
type Column struct {
	Name     string
	TypeName string
}

// Header renders the two-line column header shown by presentation layers.
func (c Column) Header() string {
	return fmt.Sprintf("%s\n(%s)", c.Name, c.TypeName)
}

// FetchResult is one complete page. Rows hold display strings only;
// TotalRows is -1 when the count statement produced no row. Duration spans
// the page statement's execute-and-drain interval.
type FetchResult struct {
	Columns   []Column
	Rows      [][]string
	TotalRows int64
	Duration  time.Duration
}

// PageCount derives the page total shown next to the pager. The historical
// formula is floor division plus one: an exact multiple of pageSize reports
// one trailing empty page, and callers depend on that numbering.
func (r *FetchResult) PageCount(pageSize int) int64 {
	if pageSize < 1 {
		return 1
	}
	if r.TotalRows < 0 {
		return 1
	}
	return r.TotalRows/int64(pageSize) + 1
}

type Service struct {
	engine query.Engine
	logger *slog.Logger
}

func NewService(engine query.Engine, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{engine: engine, logger: logger}
}

// Fetch retrieves one page. It is synchronous and blocking; callers that
// need a responsive surface dispatch it onto their own goroutine. On error
// no partial result is returned.
func (s *Service) Fetch(ctx context.Context, request query.Request) (*FetchResult, error) {
	raw, err := s.engine.Fetch(ctx, request)
	if err != nil {
		stage := errorStage(err)
		observability.ObserveFetchError(stage)
		s.logger.ErrorContext(ctx, "fetch failed",
			slog.String("path", request.FilePath),
			slog.Int("page", request.PageNumber),
			slog.String("stage", stage),
			slog.Any("error", err),
		)
		return nil, err
	}

	columns := make([]Column, len(raw.Columns))
	for i, meta := range raw.Columns {
		columns[i] = Column{Name: meta.Name, TypeName: meta.TypeName}
	}

	rows := make([][]string, len(raw.Rows))
	for i, rawRow := range raw.Rows {
		cells := make([]string, len(columns))
		for j := range columns {
			var value any
			if j < len(rawRow) {
				value = rawRow[j]
			}
			cells[j] = format.Cell(columns[j].TypeName, value)
		}
		rows[i] = cells
	}

	observability.ObserveFetch(raw.Duration, len(rows))
	s.logger.DebugContext(ctx, "fetch complete",
		slog.String("path", request.FilePath),
		slog.Int("page", request.PageNumber),
		slog.Int("rows", len(rows)),
		slog.Int64("total_rows", raw.TotalRows),
		slog.String("duration", raw.Duration.String()),
	)

	return &FetchResult{
		Columns:   columns,
		Rows:      rows,
		TotalRows: raw.TotalRows,
		Duration:  raw.Duration,
	}, nil
}

// errorStage buckets a fetch error for metrics.
func errorStage(err error) string {
	var (
		unsupportedErr *query.UnsupportedFileTypeError
		connectionErr  *query.ConnectionError
		prepareErr     *query.PrepareError
		execErr        *query.ExecError
	)
	switch {
	case errors.Is(err, query.ErrInvalidPage), errors.Is(err, query.ErrInvalidPageSize):
		return "validation"
	case errors.As(err, &unsupportedErr):
		return "validation"
	case errors.As(err, &connectionErr):
		return "connection"
	case errors.As(err, &prepareErr):
		return "prepare_" + string(prepareErr.Statement)
	case errors.As(err, &execErr):
		return "execute_" + string(execErr.Statement)
	default:
		return "other"
	}
}
