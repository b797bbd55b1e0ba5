package main

import (
	"context"
	"io"

	"github.com/deppfellow/cassandra-sample/internal/lib/utils"
	"github.com/deppfellow/cassandra-sample/internal/service"
	"github.com/spf13/cobra"
)

func newRunCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Describe the cluster, recreate the schema, load the data set and query it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				report, err := a.services.Sample.Run(ctx)
				if err != nil {
					return err
				}
				return printReport(cmd.OutOrStdout(), opts, report)
			})
		},
	}
}

func newSchemaCommand(opts *rootOptions) *cobra.Command {
	var keep bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Drop and recreate the keyspace and tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if keep {
					return a.services.Sample.CreateSchema(ctx)
				}
				return a.services.Sample.ResetSchema(ctx)
			})
		},
	}

	cmd.Flags().BoolVar(&keep, "keep", false, "only create what is missing, do not drop the keyspace first")
	return cmd
}

func newSeedCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the sample departments and employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.services.Sample.InsertData(ctx); err != nil {
					return err
				}
				return a.services.Directory.Invalidate(ctx)
			})
		},
	}
}

func newQueryCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "query",
		Short: "Read all departments and the configured employee partition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				report, err := a.services.Sample.QueryTables(ctx)
				if err != nil {
					return err
				}
				return printReport(cmd.OutOrStdout(), opts, report)
			})
		},
	}
}

// printReport writes report as JSON to w when --json is set. Without it the
// rows have already been logged.
func printReport(w io.Writer, opts *rootOptions, report *service.Report) error {
	if !opts.jsonOutput {
		return nil
	}
	return utils.PrintJSON(w, report)
}
