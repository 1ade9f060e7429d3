package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/relgraph/relgraph/cli"
)

func newRootCmd() *cobra.Command {
	var (
		cfgFile  string
		settings *cli.Settings
	)

	rootCmd := &cobra.Command{
		Use:   "relgraph",
		Short: "Manage the tables of a relgraph schema",
		Long: `relgraph - entity graph persistence

Reads entity metadata from a YAML schema file and creates, drops or prints
the tables it describes.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			var err error
			settings, err = cli.LoadSettings(cmd.Flags(), cfgFile)
			if err != nil {
				return &cli.ExitError{Code: cli.ExitConfig, Message: "loading configuration", Err: err}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	cli.Flags(rootCmd.PersistentFlags())

	current := func() *cli.Settings { return settings }
	rootCmd.AddCommand(
		newCreateCmd(current),
		newDropCmd(current),
		newRebuildCmd(current),
		newDDLCmd(current),
	)
	return rootCmd
}

// Execute runs the root command with args and returns the exit code
func Execute(args []string) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	return cli.ExitCode(os.Stderr, rootCmd.Execute())
}
