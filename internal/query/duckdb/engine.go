// Package duckdb executes the fetch protocol against a transient in-memory
// DuckDB session. Every call opens its own session and closes it on return;
// nothing is pooled or shared between calls.
package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "github.com/marcboeker/go-duckdb/v2"

	"github.com/filescope/filescope/internal/query"
)

// OpenFunc produces the session a single fetch runs against.
type OpenFunc func() (*sql.DB, error)

type Engine struct {
	open OpenFunc
}

func NewEngine() *Engine {
	return &Engine{open: openInMemory}
}

// NewEngineWithOpener injects the session constructor, used by tests to
// drive the protocol against a mock.
func NewEngineWithOpener(open OpenFunc) *Engine {
	return &Engine{open: open}
}

func openInMemory() (*sql.DB, error) {
	return sql.Open("duckdb", "")
}

// Fetch runs the three statements in protocol order: schema first so column
// metadata is known before the page cursor is consumed, then the timed page
// statement, then the whole-file count. Errors are terminal for the call;
// the session is released on every exit path.
func (e *Engine) Fetch(ctx context.Context, request query.Request) (query.RawResult, error) {
	statements, err := query.Build(request)
	if err != nil {
		return query.RawResult{}, err
	}

	db, err := e.open()
	if err != nil {
		return query.RawResult{}, &query.ConnectionError{Err: err}
	}
	defer func() { _ = db.Close() }()
	if err := db.PingContext(ctx); err != nil {
		return query.RawResult{}, &query.ConnectionError{Err: err}
	}

	columns, err := fetchSchema(ctx, db, statements.Schema, request.FilePath)
	if err != nil {
		return query.RawResult{}, err
	}

	rows, duration, err := fetchPage(ctx, db, statements.Page, request.FilePath, len(columns))
	if err != nil {
		return query.RawResult{}, err
	}

	total, err := fetchCount(ctx, db, statements.Count, request.FilePath)
	if err != nil {
		return query.RawResult{}, err
	}

	return query.RawResult{
		Columns:   columns,
		Rows:      rows,
		TotalRows: total,
		Duration:  duration,
	}, nil
}

// fetchSchema runs the single-row sample statement and reads column names
// and types from its result metadata. The page statement cannot provide
// these because its cursor is consumed by row iteration.
func fetchSchema(ctx context.Context, db *sql.DB, statement, path string) ([]query.ColumnMeta, error) {
	stmt, err := db.PrepareContext(ctx, statement)
	if err != nil {
		return nil, &query.PrepareError{Statement: query.StatementSchema, Path: path, Err: err}
	}
	defer func() { _ = stmt.Close() }()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, &query.ExecError{Statement: query.StatementSchema, Path: path, Err: err}
	}
	defer func() { _ = rows.Close() }()

	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, &query.ExecError{Statement: query.StatementSchema, Path: path, Err: err}
	}

	columns := make([]query.ColumnMeta, 0, len(columnTypes))
	for _, columnType := range columnTypes {
		columns = append(columns, query.ColumnMeta{
			Name:     columnType.Name(),
			TypeName: trimTypeName(columnType.DatabaseTypeName()),
		})
	}
	return columns, nil
}

func fetchPage(ctx context.Context, db *sql.DB, statement, path string, columnCount int) ([][]any, time.Duration, error) {
	stmt, err := db.PrepareContext(ctx, statement)
	if err != nil {
		return nil, 0, &query.PrepareError{Statement: query.StatementPage, Path: path, Err: err}
	}
	defer func() { _ = stmt.Close() }()

	start := time.Now()
	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, 0, &query.ExecError{Statement: query.StatementPage, Path: path, Err: err}
	}
	defer func() { _ = rows.Close() }()

	collected := make([][]any, 0)
	for rows.Next() {
		values := make([]any, columnCount)
		targets := make([]any, columnCount)
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, 0, &query.ExecError{Statement: query.StatementPage, Path: path, Err: err}
		}
		collected = append(collected, values)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, &query.ExecError{Statement: query.StatementPage, Path: path, Err: err}
	}
	return collected, time.Since(start), nil
}

// fetchCount reads the whole-file row count. A count statement that yields
// no row is not fatal: the caller gets -1 and the page still renders.
func fetchCount(ctx context.Context, db *sql.DB, statement, path string) (int64, error) {
	stmt, err := db.PrepareContext(ctx, statement)
	if err != nil {
		return 0, &query.PrepareError{Statement: query.StatementCount, Path: path, Err: err}
	}
	defer func() { _ = stmt.Close() }()

	var total int64
	if err := stmt.QueryRowContext(ctx).Scan(&total); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return -1, nil
		}
		return 0, &query.ExecError{Statement: query.StatementCount, Path: path, Err: err}
	}
	return total, nil
}

// trimTypeName strips any parameter list from an engine type name, so
// DECIMAL(18,3) reports as DECIMAL.
func trimTypeName(name string) string {
	if idx := strings.IndexByte(name, '('); idx >= 0 {
		name = name[:idx]
	}
	return strings.TrimSpace(name)
}
