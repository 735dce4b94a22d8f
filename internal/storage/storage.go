// Package storage abstracts read access to remote object stores so the
// viewer can page through files that do not live on the local filesystem.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrObjectNotFound = errors.New("object not found")

type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	LastModified time.Time
}

// ObjectStore is the read-only surface the viewer needs. The scan functions
// only consume local paths, so remote objects are staged through Stage
// before a fetch touches them.
type ObjectStore interface {
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Stat(ctx context.Context, key string) (ObjectInfo, error)
}
