package main

import (
	"github.com/spf13/cobra"

	"github.com/on-the-ground/effect_ive_store/internal/demo"
)

// NewDescribeCommand creates the describe command.
func NewDescribeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Print the Fetch enum and the registered actions as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return demo.Describe(cmd.OutOrStdout())
		},
	}
}
