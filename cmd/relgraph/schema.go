package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relgraph/relgraph"
	"github.com/relgraph/relgraph/cli"
)

type settingsFunc func() *cli.Settings

func newCreateCmd(settings settingsFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create the table of every entity",
		Example: `  relgraph create --schema shop.yaml --dsn shop.db
  RELGRAPH_DRIVER=mysql RELGRAPH_DSN='user:pass@tcp(localhost:3306)/shop' relgraph create --schema shop.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, settings(), func(ctx context.Context, db *relgraph.DB) error {
				if _, err := db.CreateSchema(ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %d tables\n", len(db.Registry().Entities()))
				return nil
			})
		},
	}
}

func newDropCmd(settings settingsFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "drop",
		Short: "Drop the table of every entity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, settings(), func(ctx context.Context, db *relgraph.DB) error {
				if _, err := db.DropSchema(ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "dropped %d tables\n", len(db.Registry().Entities()))
				return nil
			})
		},
	}
}

func newRebuildCmd(settings settingsFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Drop then create every table, discarding stored rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, settings(), func(ctx context.Context, db *relgraph.DB) error {
				if _, err := db.RebuildSchema(ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "rebuilt %d tables\n", len(db.Registry().Entities()))
				return nil
			})
		},
	}
}

func newDDLCmd(settings settingsFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "ddl",
		Short: "Print the CREATE TABLE statements without running them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, settings(), func(ctx context.Context, db *relgraph.DB) error {
				for _, statement := range db.DDL() {
					fmt.Fprintln(cmd.OutOrStdout(), statement+";")
				}
				return nil
			})
		},
	}
}

func withDB(cmd *cobra.Command, settings *cli.Settings, fc func(context.Context, *relgraph.DB) error) error {
	db, sqlDB, err := cli.Connect(settings, cmd.ErrOrStderr())
	if err != nil {
		return cli.ConnectError(err)
	}
	defer sqlDB.Close()

	if err := fc(cmd.Context(), db); err != nil {
		return &cli.ExitError{Code: cli.ExitDB, Message: cmd.Name(), Err: err}
	}
	return nil
}
