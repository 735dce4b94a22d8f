package viewer

import (
	"context"
	"log/slog"

	"github.com/filescope/filescope/internal/query"
	"github.com/filescope/filescope/internal/storage"
)

// FetchRemote stages an object-store key into a temporary local file and
// pages through it like any local file. The staged copy lives only for the
// duration of the call; the result still reports the original key via the
// request echoed back by the caller.
func (s *Service) FetchRemote(ctx context.Context, store storage.ObjectStore, request query.Request) (*FetchResult, error) {
	// Reject unsupported extensions before paying for the download.
	if _, err := query.ScanFunction(request.FilePath); err != nil {
		return nil, err
	}

	local, cleanup, err := storage.Stage(ctx, store, request.FilePath)
	if err != nil {
		s.logger.ErrorContext(ctx, "stage remote object failed",
			slog.String("key", request.FilePath),
			slog.Any("error", err),
		)
		return nil, err
	}
	defer cleanup()

	staged := request
	staged.FilePath = local
	return s.Fetch(ctx, staged)
}
