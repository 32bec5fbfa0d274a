package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/oagrade/internal/config"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

// newRootCmd creates the root oagrade command with all subcommands attached.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "oagrade",
		Short:         "Knee osteoarthritis X-ray grading client",
		Long:          "oagrade sends knee X-rays to a Kellgren-Lawrence grading service,\nrenders annotated heatmap composites, and keeps a local history of results.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.configPath != "" {
				return os.Setenv(config.EnvOagradeConfig, opts.configPath)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default config.toml)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at the configured level instead of warnings only")

	cmd.AddCommand(
		newClassifyCmd(opts),
		newHistoryCmd(opts),
		newVersionCmd(),
	)

	return cmd
}
