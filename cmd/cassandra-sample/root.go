package main

import (
	"context"
	"fmt"

	"github.com/deppfellow/cassandra-sample/internal/config"
	"github.com/deppfellow/cassandra-sample/internal/logger"
	"github.com/deppfellow/cassandra-sample/internal/repository"
	"github.com/deppfellow/cassandra-sample/internal/server"
	"github.com/deppfellow/cassandra-sample/internal/service"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	jsonOutput bool

	// connect builds the app for every command; setup unless replaced.
	connect func(ctx context.Context) (*app, error)
}

func newRootCommand() *cobra.Command {
	return newRootCommandWith(&rootOptions{connect: setup})
}

func newRootCommandWith(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cassandra-sample",
		Short: "Cassandra sample client for the meetup_db keyspace",
		Long: `cassandra-sample connects to a Cassandra cluster, recreates the meetup_db
keyspace with its departments and employees tables, loads a small data set
through prepared statements and reads it back.

Configuration comes from SAMPLE_ prefixed environment variables, optionally
loaded from a .env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "print the read back rows as JSON on stdout")

	cmd.AddCommand(
		newRunCommand(opts),
		newSchemaCommand(opts),
		newSeedCommand(opts),
		newQueryCommand(opts),
		newServeCommand(opts),
	)

	return cmd
}

// app is what every command needs once connected.
type app struct {
	server   *server.Server
	services *service.Services
}

// setup loads configuration, builds the logger and connects to the cluster.
// The caller must call close.
func setup(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg.Observability)

	srv, err := server.New(ctx, cfg, &log)
	if err != nil {
		return nil, err
	}

	services, err := service.NewService(srv, repository.NewRepositories(srv))
	if err != nil {
		_ = srv.Close()
		return nil, fmt.Errorf("could not create services: %w", err)
	}

	return &app{server: srv, services: services}, nil
}

// withApp connects, runs fn and always closes the app afterwards, whether fn
// failed or not.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app) error) error {
	a, err := opts.connect(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	return fn(cmd.Context(), a)
}

func (a *app) close() {
	if err := a.server.Close(); err != nil {
		a.server.Logger.Error().Err(err).Msg("failed to close connections")
	}
}
