package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Stage copies a remote object into a temporary file and returns its local
// path plus a cleanup function. The object's extension is preserved because
// downstream scan-function selection keys on it. Cleanup is safe to call on
// every exit path.
func Stage(ctx context.Context, store ObjectStore, key string) (string, func(), error) {
	if store == nil {
		return "", nil, fmt.Errorf("object store is required")
	}

	reader, err := store.Get(ctx, key)
	if err != nil {
		return "", nil, fmt.Errorf("get object %q: %w", key, err)
	}
	defer func() { _ = reader.Close() }()

	dir, err := os.MkdirTemp("", "filescope-stage-")
	if err != nil {
		return "", nil, fmt.Errorf("create staging dir: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	local := filepath.Join(dir, "staged"+strings.ToLower(filepath.Ext(key)))
	if err := writeFile(local, reader); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("stage object %q: %w", key, err)
	}
	return local, cleanup, nil
}

func writeFile(path string, reader io.Reader) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(file, reader); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
