// Package query builds and describes the three-statement fetch protocol:
// one statement for the visible page, one single-row statement for schema
// discovery, and one for the total row count. All three scan the same file
// through the same table function so their shapes stay consistent.
package query

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// SortOrder selects the direction of an optional ORDER BY clause.
type SortOrder int

const (
	SortUnsorted SortOrder = iota
	SortAscending
	SortDescending
)

func (o SortOrder) keyword() string {
	switch o {
	case SortAscending:
		return "ASC"
	case SortDescending:
		return "DESC"
	default:
		return ""
	}
}

// Request describes one page fetch. PageNumber is 1-based. SortColumn is a
// 1-based column index; zero or negative means no sorting regardless of
// SortOrder.
type Request struct {
	FilePath   string
	PageNumber int
	PageSize   int
	SortColumn int
	SortOrder  SortOrder
}

// Statements holds the rendered SQL for one fetch.
type Statements struct {
	Page   string
	Schema string
	Count  string
}

// ColumnMeta is one projected column as reported by the schema statement.
type ColumnMeta struct {
	Name     string
	TypeName string
}

// RawResult carries unformatted engine values out of the executor.
// TotalRows is -1 when the count statement returned no row.
type RawResult struct {
	Columns   []ColumnMeta
	Rows      [][]any
	TotalRows int64
	Duration  time.Duration
}

// Engine runs the three-statement protocol against a single transient
// session. Implementations must not retain state across calls.
type Engine interface {
	Fetch(ctx context.Context, request Request) (RawResult, error)
}

var scanFunctions = map[string]string{
	"parquet": "parquet_scan",
	"csv":     "read_csv_auto",
}

// ScanFunction maps a file path to the table function used to project it,
// keyed by the lower-cased extension.
func ScanFunction(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	fn, ok := scanFunctions[ext]
	if !ok {
		return "", &UnsupportedFileTypeError{Path: path, Extension: ext}
	}
	return fn, nil
}

// Build validates the request and renders the three statements. Validation
// failures happen before any SQL exists, so an invalid page number can never
// reach the engine.
func Build(request Request) (Statements, error) {
	if request.PageNumber < 1 {
		return Statements{}, ErrInvalidPage
	}
	if request.PageSize < 1 {
		return Statements{}, ErrInvalidPageSize
	}
	fn, err := ScanFunction(request.FilePath)
	if err != nil {
		return Statements{}, err
	}

	scan := fmt.Sprintf("%s('%s')", fn, escapePath(request.FilePath))

	var page strings.Builder
	fmt.Fprintf(&page, "SELECT * FROM %s", scan)
	if request.SortColumn > 0 {
		fmt.Fprintf(&page, " ORDER BY %d", request.SortColumn)
		if keyword := request.SortOrder.keyword(); keyword != "" {
			page.WriteString(" " + keyword)
		}
	}
	offset := (request.PageNumber - 1) * request.PageSize
	fmt.Fprintf(&page, " LIMIT %d OFFSET %d", request.PageSize, offset)

	return Statements{
		Page:   page.String(),
		Schema: fmt.Sprintf("SELECT * FROM %s LIMIT 1", scan),
		Count:  fmt.Sprintf("SELECT count(1) FROM %s", scan),
	}, nil
}

// escapePath doubles single quotes so the path survives interpolation as a
// SQL string literal.
func escapePath(path string) string {
	return strings.ReplaceAll(path, "'", "''")
}
