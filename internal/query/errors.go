package query

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPage     = errors.New("page number must be greater than 0")
	ErrInvalidPageSize = errors.New("page size must be greater than 0")
)

// StatementKind names which of the three protocol statements failed.
type StatementKind string

const (
	StatementPage   StatementKind = "page"
	StatementSchema StatementKind = "schema"
	StatementCount  StatementKind = "count"
)

// UnsupportedFileTypeError reports a path whose extension maps to no
// registered scan function.
type UnsupportedFileTypeError struct {
	Path      string
	Extension string
}

func (e *UnsupportedFileTypeError) Error() string {
	if e.Extension == "" {
		return fmt.Sprintf("unsupported file type: %q has no extension", e.Path)
	}
	return fmt.Sprintf("unsupported file type %q for %q", e.Extension, e.Path)
}

// ConnectionError means the engine session could not be opened.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("open engine session: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// PrepareError means one of the three statements failed to compile.
type PrepareError struct {
	Statement StatementKind
	Path      string
	Err       error
}

func (e *PrepareError) Error() string {
	return fmt.Sprintf("prepare %s statement for %q: %v", e.Statement, e.Path, e.Err)
}

func (e *PrepareError) Unwrap() error { return e.Err }

// ExecError means a statement failed during execution or row iteration.
type ExecError struct {
	Statement StatementKind
	Path      string
	Err       error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("execute %s statement for %q: %v", e.Statement, e.Path, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }
