package main

import (
	"github.com/spf13/cobra"

	"github.com/on-the-ground/effect_ive_store/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	LogLevel string
}

// NewRootCommand creates the tagstore command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "tagstore",
		Short: "Drive the tagged state store from YAML scenarios",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := logging.ParseLevel(opts.LogLevel)
			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug|info|warn|error)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewDescribeCommand())

	return cmd
}
