package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/on-the-ground/effect_ive_store/internal/demo"
	"github.com/on-the-ground/effect_ive_store/internal/logging"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Config string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a scenario and print every commit",
		Long: `Run a YAML scenario against a fresh store.

Each committed dispatch is printed as "Action: prev -> next", followed by a
summary of the final state. Logs go to stderr.

Example:
  tagstore run --config scenario.yaml
  tagstore run --config scenario.yaml --log-level debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "path to the scenario YAML (required)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runScenario(cmd *cobra.Command, opts *RunOptions) error {
	logger, err := logging.New(opts.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	sc, err := demo.LoadScenario(opts.Config)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	report, err := demo.Run(cmd.Context(), sc, cmd.OutOrStdout(), logger.Named("tagstore"))
	if err != nil {
		return err
	}
	if report.Failures > 0 {
		return fmt.Errorf("%d of %d steps failed", report.Failures, len(sc.Steps))
	}
	return nil
}
