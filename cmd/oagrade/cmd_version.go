package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/oagrade/internal/config"
)

// newVersionCmd creates the "oagrade version" subcommand.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the oagrade version and environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("version: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "oagrade %s (%s)\n", cfg.Version, cfg.Env())
			fmt.Fprintf(cmd.OutOrStdout(), "classifier endpoint: %s\n", cfg.Classifier.Endpoint)
			return nil
		},
	}
}
