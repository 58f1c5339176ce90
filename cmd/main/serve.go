package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	serverhttp "frelections/server/http"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the data directory, /health and POST /reconcile",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := a.cfg, a.logger
			srv := &http.Server{
				Addr:              cfg.Addr(),
				Handler:           serverhttp.NewRouter(cfg, logger),
				ReadHeaderTimeout: 10 * time.Second,
			}
			logger.Info().Str("addr", cfg.Addr()).Str("data", cfg.DataDir).Msg("server starting")

			errc := make(chan error, 1)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
				close(errc)
			}()

			// graceful shutdown
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			select {
			case err := <-errc:
				if err != nil {
					logger.Error().Err(err).Msg("listen")
				}
				return err
			case <-ctx.Done():
			}

			logger.Info().Msg("server shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			logger.Info().Msg("bye")
			return nil
		},
	}
}
