package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/cassandra-sample/internal/handler"
	"github.com/deppfellow/cassandra-sample/internal/router"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

func newServeCommand(opts *rootOptions) *cobra.Command {
	var migrate, seed bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the departments and employees over a read-only HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := opts.connect(ctx)
			if err != nil {
				return err
			}
			log := a.server.Logger

			if migrate {
				if err := a.services.Sample.CreateSchema(ctx); err != nil {
					a.close()
					return err
				}
			}
			if seed {
				if err := a.services.Sample.InsertData(ctx); err != nil {
					a.close()
					return err
				}
				if err := a.services.Directory.Invalidate(ctx); err != nil {
					log.Warn().Err(err).Msg("failed to flush cache after seeding")
				}
			}

			if _, err := a.services.Sample.Describe(ctx); err != nil {
				log.Warn().Err(err).Msg("could not describe cluster")
			}

			h := handler.NewHandlers(a.server, a.services)
			a.server.SetupHTTPServer(router.NewRouter(a.server, h))

			go a.server.MonitorHealth(ctx)

			errCh := make(chan error, 1)
			go func() {
				errCh <- a.server.Start()
			}()

			var serveErr error
			select {
			case <-ctx.Done():
				log.Info().Msg("shutdown signal received")
			case serveErr = <-errCh:
				if serveErr != nil {
					log.Error().Err(serveErr).Msg("server stopped")
				}
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := a.server.Shutdown(shutdownCtx); err != nil {
				return errors.Join(serveErr, err)
			}

			log.Info().Msg("server exited properly")
			return serveErr
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "create the keyspace and tables if missing before serving")
	cmd.Flags().BoolVar(&seed, "seed", false, "insert the sample data set before serving")
	return cmd
}
