package main

import (
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that required tools and directories are available",
	Long: `Verifies that the tools needed to check out and build the dataset are
on PATH and that the dataset directory exists. No version is processed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runPipeline(cmd.Context(), cmd.OutOrStdout(), stageCheck, "", &pipelineOptions{skip: []string{""}})
	},
}
