package filescope

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/filescope/filescope/internal/api"
	duckdbengine "github.com/filescope/filescope/internal/query/duckdb"
	"github.com/filescope/filescope/internal/viewer"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the fetch service over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			service := viewer.NewService(duckdbengine.NewEngine(), a.logger)
			handler := api.NewHandler(a.cfg, api.Dependencies{
				Logger:          a.logger,
				Fetcher:         service,
				DefaultPageSize: a.cfg.Viewer.DefaultPageSize,
				MaxPageSize:     a.cfg.Viewer.MaxPageSize,
			})

			server := &http.Server{
				Addr:         a.cfg.HTTP.Address,
				Handler:      handler,
				ReadTimeout:  a.cfg.HTTP.ReadTimeout,
				WriteTimeout: a.cfg.HTTP.WriteTimeout,
				IdleTimeout:  a.cfg.HTTP.IdleTimeout,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("starting fetch server", slog.String("addr", a.cfg.HTTP.Address))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
					stop()
				}
			}()

			<-ctx.Done()
			select {
			case err := <-errCh:
				return err
			default:
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			a.logger.Info("shutting down fetch server")
			if err := server.Shutdown(shutdownCtx); err != nil {
				a.logger.Error("graceful shutdown failed", slog.Any("error", err))
				_ = server.Close()
				return err
			}
			return nil
		},
	}
}
